// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides data structures for the consultation agent.
//
// This file contains the request and response types for the consultation
// endpoints. For retrieval types shared with the expert client, see
// retrieval.go.
package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// MaxQuestionBytes is the maximum size of a single question or history
	// message. Byte length is checked (not rune count) so oversized Arabic
	// payloads are bounded the same way as ASCII ones.
	MaxQuestionBytes = 32 * 1024 // 32KB

	// MaxHistoryMessages is the maximum number of history messages accepted
	// per consultation request.
	MaxHistoryMessages = 100
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// consultValidate is the validator instance for consultation datatypes.
// Initialized in init() with custom validators.
var consultValidate *validator.Validate

func init() {
	consultValidate = validator.New()
	_ = consultValidate.RegisterValidation("maxbytes", validateMaxBytes)
}

// validateMaxBytes validates that a string field does not exceed
// MaxQuestionBytes.
func validateMaxBytes(fl validator.FieldLevel) bool {
	content := fl.Field().String()
	return len(content) <= MaxQuestionBytes
}

// generateUUID returns a new UUID v4 string for request/response correlation.
func generateUUID() string {
	return uuid.NewString()
}

// =============================================================================
// Message
// =============================================================================

// Message is a single turn exchanged with the reasoning engine.
type Message struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant tool"`
	Content string `json:"content" validate:"required,maxbytes"`
}

// =============================================================================
// Consultation Request
// =============================================================================

// ConsultRequest represents one legal consultation request body.
//
// # Description
//
// ConsultRequest carries the user's question and optional conversation
// history for the POST /v1/consult endpoint. Every request includes a unique
// ID and timestamp for audit trails and correlation.
//
// # Fields
//
//   - RequestID: Unique identifier for this request (UUID v4). Generated
//     server-side via EnsureDefaults when the client omits it.
//   - Timestamp: Unix timestamp in milliseconds (UTC) when the request was
//     created.
//   - Question: Required. The user's legal question, at most 32KB.
//   - History: Optional. Prior conversation turns, at most 100 messages.
//     History is forwarded to the reasoning engine only; it never bypasses
//     the retrieval path.
//
// # Validation
//
// Uses go-playground/validator:
//   - RequestID: required, must be a valid UUID v4
//   - Timestamp: required, must be > 0
//   - Question: required, max 32768 bytes
//   - History: 0-100 elements, each element validated
type ConsultRequest struct {
	RequestID string    `json:"request_id" validate:"required,uuid4"`
	Timestamp int64     `json:"timestamp" validate:"required,gt=0"`
	Question  string    `json:"question" validate:"required,maxbytes"`
	History   []Message `json:"history,omitempty" validate:"max=100,dive"`
}

// Validate validates the ConsultRequest fields. Call after EnsureDefaults.
func (r *ConsultRequest) Validate() error {
	return consultValidate.Struct(r)
}

// EnsureDefaults populates RequestID and Timestamp if the client omitted
// them, so every request is traceable.
func (r *ConsultRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = generateUUID()
	}
	if r.Timestamp == 0 {
		r.Timestamp = time.Now().UnixMilli()
	}
}

// =============================================================================
// Consultation Response
// =============================================================================

// Outcome is the terminal state a consultation ended in.
type Outcome string

const (
	// OutcomeAnswered means the answer was synthesized from a successful
	// retrieval payload.
	OutcomeAnswered Outcome = "answered"

	// OutcomeNoData means retrieval failed on every attempt or returned no
	// usable content; the answer is the fixed no-data text.
	OutcomeNoData Outcome = "no_data"

	// OutcomeRefused means the question was classified out of scope; the
	// answer is the fixed refusal text and no retrieval call was made.
	OutcomeRefused Outcome = "refused"
)

// ConsultResponse represents the response to a consultation request.
//
// # Fields
//
//   - ResponseID: Unique identifier for this response (UUID v4).
//   - RequestID: Echo of the request ID for correlation.
//   - Timestamp: Unix timestamp in milliseconds (UTC) when the response was
//     produced.
//   - Answer: The final text delivered to the caller. Derived either from a
//     retrieval payload or from one of the fixed templates, never from
//     unattributed background knowledge.
//   - Outcome: Which terminal state produced the answer.
//   - RetrievalAttempts: How many retrieval calls were issued, including
//     retries. Zero for refused consultations.
//   - ProcessingTimeMs: Wall-clock processing time in milliseconds.
type ConsultResponse struct {
	ResponseID        string  `json:"response_id"`
	RequestID         string  `json:"request_id"`
	Timestamp         int64   `json:"timestamp"`
	Answer            string  `json:"answer"`
	Outcome           Outcome `json:"outcome"`
	RetrievalAttempts int     `json:"retrieval_attempts"`
	ProcessingTimeMs  int64   `json:"processing_time_ms,omitempty"`
}

// NewConsultResponse creates a ConsultResponse with auto-generated ID and
// timestamp.
func NewConsultResponse(requestID, answer string, outcome Outcome, attempts int) *ConsultResponse {
	return &ConsultResponse{
		ResponseID:        generateUUID(),
		RequestID:         requestID,
		Timestamp:         time.Now().UnixMilli(),
		Answer:            answer,
		Outcome:           outcome,
		RetrievalAttempts: attempts,
	}
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import "fmt"

// RetrievalRequest is the body of one outbound call to the knowledge base.
// Exactly one is constructed per tool invocation.
type RetrievalRequest struct {
	Query string `json:"query"`
}

// FailureKind classifies a failed retrieval call.
type FailureKind string

const (
	// FailureNetwork covers connection failures and the 15 second client
	// timeout talking to the retrieval endpoint.
	FailureNetwork FailureKind = "network_error"

	// FailureHTTPStatus covers responses with a status outside the success
	// range.
	FailureHTTPStatus FailureKind = "http_status_error"
)

// RetrievalFailure carries the classification and detail of a failed call.
type RetrievalFailure struct {
	Kind   FailureKind
	Detail string
}

// Error implements the error interface for RetrievalFailure.
func (f *RetrievalFailure) Error() string {
	return fmt.Sprintf("retrieval failed (%s): %s", f.Kind, f.Detail)
}

// RetrievalResult is the tagged union returned by the expert client: either
// a success carrying the raw response payload, or a classified failure.
//
// The fields are unexported and only the two constructors below can populate
// them, so a result is never partially populated: a success has no failure
// attached and a failure carries no payload. Answer synthesis accepts only a
// successful RetrievalResult, which makes fabricating an answer without a
// retrieval structurally impossible rather than merely discouraged.
type RetrievalResult struct {
	payload string
	failure *RetrievalFailure
}

// RetrievalSuccess wraps the raw response body of a successful call. The
// payload is treated as opaque text; no schema is assumed on the remote side.
func RetrievalSuccess(payload string) RetrievalResult {
	return RetrievalResult{payload: payload}
}

// RetrievalFailed wraps a classified failure.
func RetrievalFailed(kind FailureKind, detail string) RetrievalResult {
	return RetrievalResult{failure: &RetrievalFailure{Kind: kind, Detail: detail}}
}

// Succeeded reports whether the call returned a payload.
func (r RetrievalResult) Succeeded() bool {
	return r.failure == nil
}

// Payload returns the raw response body. Empty for failed results.
func (r RetrievalResult) Payload() string {
	return r.payload
}

// Failure returns the failure detail, or nil for successful results.
func (r RetrievalResult) Failure() *RetrievalFailure {
	return r.failure
}

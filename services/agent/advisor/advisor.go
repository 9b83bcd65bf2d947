// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package advisor implements the consultation orchestration loop.
//
// One consultation runs the state machine
//
//	Classify ──► Refuse (terminal, zero retrieval calls)
//	   │
//	   ▼
//	Invoke ──► Evaluate ──► Retry (≤ ceiling, sequential)
//	              │
//	              ├─► Synthesize (terminal, payload only)
//	              └─► NoData (terminal, fixed text)
//
// The loop enforces the grounding invariant in code rather than in prompt
// wording: synthesize only accepts a successful RetrievalResult, so an
// answer cannot be produced without a preceding retrieval.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/binturaid/iflas-agent/services/agent/datatypes"
	"github.com/binturaid/iflas-agent/services/agent/observability"
	"github.com/binturaid/iflas-agent/services/llm"
	"github.com/tmc/langchaingo/textsplitter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var advisorTracer = otel.Tracer("iflas.agent.advisor")

// initialRetryDelay is the delay before the first retry attempt. Each
// further retry doubles it. Retries stay strictly sequential so the
// external service never sees duplicate concurrent calls for one
// consultation.
const initialRetryDelay = 1 * time.Second

// Advisor runs consultations. All dependencies are injected and shared
// read-only, so one Advisor serves concurrent consultations without
// locking; everything per-consultation is task-local.
type Advisor struct {
	classifier   ScopeClassifier
	reformulator QueryReformulator
	toolset      *Toolset
	llmClient    llm.LLMClient
	cfg          Config
	splitter     textsplitter.RecursiveCharacter
	retryDelay   time.Duration
}

// NewAdvisor wires the orchestration loop.
func NewAdvisor(classifier ScopeClassifier, reformulator QueryReformulator,
	toolset *Toolset, llmClient llm.LLMClient, cfg Config) *Advisor {

	return &Advisor{
		classifier:   classifier,
		reformulator: reformulator,
		toolset:      toolset,
		llmClient:    llmClient,
		cfg:          cfg,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(cfg.MaxContextChars),
			textsplitter.WithChunkOverlap(0),
		),
		retryDelay: initialRetryDelay,
	}
}

// Consult processes one consultation request end to end.
//
// The request is validated, classified against the fixed domain, and, if in
// scope, grounded through the expert tool before an answer is synthesized.
// The returned response always carries one of the three outcomes; a non-nil
// error means infrastructure failed (invalid request, reasoning engine
// down), not that the question had no answer.
func (a *Advisor) Consult(ctx context.Context, req *datatypes.ConsultRequest) (*datatypes.ConsultResponse, error) {
	ctx, span := advisorTracer.Start(ctx, "Advisor.Consult")
	defer span.End()

	started := time.Now()
	observability.ConsultStarted()
	defer observability.ConsultFinished()

	req.EnsureDefaults()
	span.SetAttributes(attribute.String("request.id", req.RequestID))

	if err := req.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Classify. Out-of-domain questions terminate here; the retrieval
	// client must receive zero calls for them.
	decision, err := a.classifier.Classify(ctx, req.Question)
	if err != nil {
		// Lean in-domain: a false refusal is worse than a wasted call.
		slog.Warn("Scope classifier failed, proceeding as in-domain",
			"requestId", req.RequestID, "error", err)
		decision = ScopeDecision{InDomain: true}
	}
	if !decision.InDomain {
		span.SetAttributes(attribute.String("consult.outcome", string(datatypes.OutcomeRefused)))
		slog.Info("Refusing out-of-domain question", "requestId", req.RequestID)
		refusal := decision.Refusal
		if refusal == "" {
			refusal = RefusalText
		}
		observability.RecordConsultation(string(datatypes.OutcomeRefused))
		resp := datatypes.NewConsultResponse(req.RequestID, refusal, datatypes.OutcomeRefused, 0)
		resp.ProcessingTimeMs = time.Since(started).Milliseconds()
		return resp, nil
	}

	// Invoke. Mandatory for every in-domain question: the reformulated
	// query goes to the expert tool, with bounded sequential retries.
	searchQuery, err := a.reformulator.Reformulate(ctx, req.Question)
	if err != nil || strings.TrimSpace(searchQuery) == "" {
		searchQuery = req.Question
	}
	span.SetAttributes(attribute.String("retrieval.query", searchQuery))

	result, attempts, err := a.retrieve(ctx, span, searchQuery)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "retrieval aborted")
		return nil, err
	}
	span.SetAttributes(attribute.Int("retrieval.attempts", attempts))

	// Evaluate. Exhausted retries and empty payloads both end in the fixed
	// no-data response; nothing is ever fabricated in their place.
	if !result.Succeeded() || strings.TrimSpace(result.Payload()) == "" {
		if f := result.Failure(); f != nil {
			slog.Warn("Retrieval failed on all attempts",
				"requestId", req.RequestID, "attempts", attempts, "kind", f.Kind)
		} else {
			slog.Info("Retrieval returned no usable content",
				"requestId", req.RequestID, "attempts", attempts)
		}
		span.SetAttributes(attribute.String("consult.outcome", string(datatypes.OutcomeNoData)))
		observability.RecordConsultation(string(datatypes.OutcomeNoData))
		resp := datatypes.NewConsultResponse(req.RequestID, NoDataText, datatypes.OutcomeNoData, attempts)
		resp.ProcessingTimeMs = time.Since(started).Milliseconds()
		return resp, nil
	}

	// Synthesize. Only the retrieval result crosses this boundary.
	answer, err := a.synthesize(ctx, req, result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "synthesis failed")
		observability.RecordConsultation("error")
		return nil, fmt.Errorf("answer synthesis failed: %w", err)
	}

	span.SetAttributes(attribute.String("consult.outcome", string(datatypes.OutcomeAnswered)))
	observability.RecordConsultation(string(datatypes.OutcomeAnswered))
	resp := datatypes.NewConsultResponse(req.RequestID, answer, datatypes.OutcomeAnswered, attempts)
	resp.ProcessingTimeMs = time.Since(started).Milliseconds()
	return resp, nil
}

// retrieve invokes the expert tool up to 1+RetryLimit times. Each retry is
// a fresh HTTP call after a doubling delay; attempts never run in parallel.
func (a *Advisor) retrieve(ctx context.Context, span trace.Span, query string) (datatypes.RetrievalResult, int, error) {
	var result datatypes.RetrievalResult
	attempts := 0
	delay := a.retryDelay

	for attempt := 0; attempt <= a.cfg.RetryLimit; attempt++ {
		if attempt > 0 {
			span.AddEvent("retry_attempt", trace.WithAttributes(
				attribute.Int("attempt", attempt),
				attribute.String("delay", delay.String()),
			))
			slog.Info("Retrying retrieval", "attempt", attempt, "delay", delay)
			select {
			case <-ctx.Done():
				return result, attempts, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		callStart := time.Now()
		r, err := a.toolset.Invoke(ctx, ExpertToolName, query)
		if err != nil {
			// Unknown tool is a wiring bug, not a retrieval failure.
			return result, attempts, err
		}
		attempts++
		result = r

		if result.Succeeded() {
			observability.RecordRetrieval("success", time.Since(callStart).Seconds())
			return result, attempts, nil
		}
		observability.RecordRetrieval(string(result.Failure().Kind), time.Since(callStart).Seconds())
	}
	return result, attempts, nil
}

// synthesize produces the final answer from the question and the retrieval
// payload. It rejects anything but a successful result: this signature is
// what makes "answer without retrieval" unrepresentable.
func (a *Advisor) synthesize(ctx context.Context, req *datatypes.ConsultRequest, result datatypes.RetrievalResult) (string, error) {
	if !result.Succeeded() {
		return "", errors.New("synthesis requires a successful retrieval result")
	}

	grounding := result.Payload()
	if len(grounding) > a.cfg.MaxContextChars {
		chunks, err := a.splitter.SplitText(grounding)
		if err != nil || len(chunks) == 0 {
			grounding = grounding[:a.cfg.MaxContextChars]
		} else {
			grounding = chunks[0]
		}
		slog.Warn("Retrieval payload exceeded the context cap, truncating",
			"requestId", req.RequestID, "payload_chars", len(result.Payload()),
			"cap", a.cfg.MaxContextChars)
	}

	messages := make([]datatypes.Message, 0, len(req.History)+2)
	messages = append(messages, datatypes.Message{Role: "system", Content: systemInstruction(a.cfg)})
	messages = append(messages, req.History...)
	messages = append(messages, datatypes.Message{Role: "user", Content: synthesisPrompt(req.Question, grounding)})

	return a.llmClient.Chat(ctx, messages, llm.GenerationParams{
		ToolDefinitions: a.toolset.Definitions(),
	})
}

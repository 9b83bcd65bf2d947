// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package expert implements the client for the external legal knowledge
// base. It is the only path from the agent to ground-truth data.
//
// The client issues exactly one HTTP POST per Fetch call, enforces a fixed
// 15 second timeout, and classifies failures as network or HTTP-status
// errors. It holds the long-lived outbound connection pool and the API
// credential shared by all consultations in a session; both are read-only
// after construction, so the client is safe for concurrent use.
package expert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/awnumar/memguard"
	"github.com/binturaid/iflas-agent/services/agent/datatypes"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var expertTracer = otel.Tracer("iflas.agent.expert")

// DefaultEndpoint is the knowledge-base query endpoint used when
// EXPERT_API_URL is not set.
const DefaultEndpoint = "https://n8n-lightrag.dfngk5.easypanel.host/query"

// requestTimeout bounds every retrieval call. A call that does not complete
// within this window resolves as a network failure, never hangs.
const requestTimeout = 15 * time.Second

// Client talks to the knowledge-base HTTP service.
//
// The API credential is kept in a memguard enclave and only decrypted for
// the duration of a single request. It is never logged.
type Client struct {
	httpClient *http.Client
	endpoint   string
	credential *memguard.Enclave
}

// NewClient creates a Client with its own pooled HTTP client and the fixed
// retrieval timeout.
//
// The endpoint is read from the EXPERT_API_URL environment variable,
// defaulting to DefaultEndpoint if not set. The credential may be nil; the
// remote service then rejects the call and the failure surfaces through the
// normal HTTP-status path.
func NewClient(credential *memguard.Enclave) *Client {
	endpoint := os.Getenv("EXPERT_API_URL")
	if endpoint == "" {
		endpoint = DefaultEndpoint
		slog.Warn("EXPERT_API_URL not set, using default", "url", endpoint)
	}
	return NewClientWithHTTP(endpoint, credential, &http.Client{Timeout: requestTimeout})
}

// NewClientWithHTTP creates a Client using the supplied endpoint and HTTP
// client. Tests use it to point the client at an httptest server or to
// shorten the timeout.
func NewClientWithHTTP(endpoint string, credential *memguard.Enclave, httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		credential: credential,
	}
}

// Fetch issues one retrieval call for the given query and classifies the
// outcome.
//
// The call sends a JSON body {"query": q} with the X-API-Key header. On
// timeout or connection failure the result is a network failure; on a
// status outside 2xx it is an HTTP-status failure carrying status and body;
// otherwise the raw response body is returned as an opaque payload.
//
// Fetch has no local side effects and is safe to call concurrently from
// independent consultations sharing this client.
func (c *Client) Fetch(ctx context.Context, query string) datatypes.RetrievalResult {
	ctx, span := expertTracer.Start(ctx, "expert.Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("expert.endpoint", c.endpoint))

	payload, err := json.Marshal(datatypes.RetrievalRequest{Query: query})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal failed")
		return datatypes.RetrievalFailed(datatypes.FailureNetwork,
			fmt.Sprintf("failed to marshal retrieval request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request setup failed")
		return datatypes.RetrievalFailed(datatypes.FailureNetwork,
			fmt.Sprintf("failed to create HTTP request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("accept", "application/json")

	if c.credential != nil {
		key, err := c.credential.Open()
		if err != nil {
			// The enclave is process-local; failure to open it means the
			// session is torn down or memory is exhausted. Surface it as a
			// local failure without attempting the call.
			span.RecordError(err)
			span.SetStatus(codes.Error, "credential unavailable")
			slog.Error("Failed to open the expert API credential enclave", "error", err)
			return datatypes.RetrievalFailed(datatypes.FailureNetwork, "expert API credential unavailable")
		}
		req.Header.Set("X-API-Key", key.String())
		key.Destroy()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "network failure")
		slog.Warn("Expert retrieval call failed", "error", err)
		return datatypes.RetrievalFailed(datatypes.FailureNetwork, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failure")
		return datatypes.RetrievalFailed(datatypes.FailureNetwork,
			fmt.Sprintf("failed to read response body: %v", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		span.SetAttributes(attribute.Int("expert.status_code", resp.StatusCode))
		span.SetStatus(codes.Error, "non-success status")
		slog.Warn("Expert endpoint returned a non-success status",
			"status", resp.StatusCode)
		return datatypes.RetrievalFailed(datatypes.FailureHTTPStatus,
			fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)))
	}

	span.SetAttributes(attribute.Int("expert.payload_bytes", len(body)))
	return datatypes.RetrievalSuccess(string(body))
}

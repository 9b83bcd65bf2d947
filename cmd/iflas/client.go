// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/binturaid/iflas-agent/services/agent/datatypes"
)

// agentClient is a thin HTTP client for the consultation agent service.
type agentClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func newAgentClient(baseURL, token string) *agentClient {
	return &agentClient{
		baseURL: baseURL,
		token:   token,
		// A consultation spans classification, retries, and synthesis, so
		// the client waits well past the service's own retrieval timeout.
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Consult sends one question (with optional prior turns) to the service.
func (a *agentClient) Consult(ctx context.Context, question string, history []datatypes.Message) (*datatypes.ConsultResponse, error) {
	consultReq := &datatypes.ConsultRequest{
		Question: question,
		History:  history,
	}
	consultReq.EnsureDefaults()

	body, err := json.Marshal(consultReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode the request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/v1/consult", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build the request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not reach the agent service at %s: %w", a.baseURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read the response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent service returned status %d: %s", resp.StatusCode, respBody)
	}

	var consultResp datatypes.ConsultResponse
	if err := json.Unmarshal(respBody, &consultResp); err != nil {
		return nil, fmt.Errorf("failed to decode the response: %w", err)
	}
	return &consultResp, nil
}

// Health checks the service health endpoint.
func (a *agentClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not reach the agent service at %s: %w", a.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

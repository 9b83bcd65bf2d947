// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/binturaid/iflas-agent/services/agent/datatypes"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConsultService struct {
	resp *datatypes.ConsultResponse
	err  error
	got  *datatypes.ConsultRequest
}

func (m *mockConsultService) Consult(_ context.Context, req *datatypes.ConsultRequest) (*datatypes.ConsultResponse, error) {
	m.got = req
	return m.resp, m.err
}

func setupConsultRouter(service ConsultService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/v1/consult", HandleConsult(service))
	return router
}

func postConsult(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/v1/consult", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleConsult_Success(t *testing.T) {
	service := &mockConsultService{
		resp: datatypes.NewConsultResponse("", "الإجابة المركبة", datatypes.OutcomeAnswered, 1),
	}
	router := setupConsultRouter(service)

	w := postConsult(t, router, gin.H{"question": "ما هي إجراءات الإفلاس؟"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp datatypes.ConsultResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "الإجابة المركبة", resp.Answer)
	assert.Equal(t, datatypes.OutcomeAnswered, resp.Outcome)
	assert.Equal(t, "ما هي إجراءات الإفلاس؟", service.got.Question)
}

func TestHandleConsult_MalformedBody(t *testing.T) {
	router := setupConsultRouter(&mockConsultService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/consult", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestHandleConsult_ValidationErrorIs400(t *testing.T) {
	service := &mockConsultService{err: errors.New("validation failed: Question is required")}
	router := setupConsultRouter(service)

	w := postConsult(t, router, gin.H{"question": ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleConsult_InternalErrorIs500(t *testing.T) {
	service := &mockConsultService{err: errors.New("reasoning engine unavailable")}
	router := setupConsultRouter(service)

	w := postConsult(t, router, gin.H{"question": "سؤال"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "consultation failed")
	assert.NotContains(t, w.Body.String(), "reasoning engine",
		"internal detail must not leak to the client")
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", HealthCheck)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

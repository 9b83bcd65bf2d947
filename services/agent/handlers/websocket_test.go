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
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/binturaid/iflas-agent/services/agent/datatypes"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialConsultWS(t *testing.T, service ConsultService) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/consult/ws", HandleConsultWebSocket(service))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/consult/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHandleConsultWebSocket_AnswersFrames(t *testing.T) {
	service := &mockConsultService{
		resp: datatypes.NewConsultResponse("", "إجابة", datatypes.OutcomeAnswered, 1),
	}
	conn := dialConsultWS(t, service)

	require.NoError(t, conn.WriteJSON(WSConsultRequest{Question: "ما هو الإفلاس؟"}))

	var resp WSConsultResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "إجابة", resp.Answer)
	assert.Equal(t, datatypes.OutcomeAnswered, resp.Outcome)
	assert.Empty(t, resp.Error)
	assert.Equal(t, "ما هو الإفلاس؟", service.got.Question)
}

func TestHandleConsultWebSocket_HistoryForwarded(t *testing.T) {
	service := &mockConsultService{
		resp: datatypes.NewConsultResponse("", "إجابة", datatypes.OutcomeAnswered, 1),
	}
	conn := dialConsultWS(t, service)

	require.NoError(t, conn.WriteJSON(WSConsultRequest{
		Question: "وسؤال المتابعة؟",
		History: []datatypes.Message{
			{Role: "user", Content: "سؤال أول"},
			{Role: "assistant", Content: "إجابة أولى"},
		},
	}))

	var resp WSConsultResponse
	require.NoError(t, conn.ReadJSON(&resp))
	require.Len(t, service.got.History, 2)
	assert.Equal(t, "سؤال أول", service.got.History[0].Content)
}

func TestHandleConsultWebSocket_ErrorKeepsConnectionOpen(t *testing.T) {
	service := &mockConsultService{err: errors.New("engine down")}
	conn := dialConsultWS(t, service)

	require.NoError(t, conn.WriteJSON(WSConsultRequest{Question: "سؤال"}))

	var resp WSConsultResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "consultation failed", resp.Error)
	assert.NotContains(t, resp.Error, "engine down")

	// A second frame on the same connection still gets served.
	service.err = nil
	service.resp = datatypes.NewConsultResponse("", "إجابة", datatypes.OutcomeAnswered, 1)
	require.NoError(t, conn.WriteJSON(WSConsultRequest{Question: "سؤال ثاني"}))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "إجابة", resp.Answer)
}

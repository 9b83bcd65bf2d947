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
	"log/slog"
	"net/http"

	"github.com/binturaid/iflas-agent/services/agent/datatypes"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSConsultRequest is one question frame on the consultation websocket.
type WSConsultRequest struct {
	Question string              `json:"question"`
	History  []datatypes.Message `json:"history,omitempty"`
}

// WSConsultResponse is the reply frame for one question.
type WSConsultResponse struct {
	Answer  string            `json:"answer,omitempty"`
	Outcome datatypes.Outcome `json:"outcome,omitempty"`
	Error   string            `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleConsultWebSocket serves GET /v1/consult/ws. Each inbound frame is
// one consultation; the connection itself carries no server-side state, the
// client resends history it wants the reasoning engine to see.
func HandleConsultWebSocket(service ConsultService) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("Failed to upgrade the consultation websocket", "error", err)
			return
		}
		defer conn.Close()

		for {
			var req WSConsultRequest
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Warn("Consultation websocket closed unexpectedly", "error", err)
				}
				return
			}

			consultReq := &datatypes.ConsultRequest{
				Question: req.Question,
				History:  req.History,
			}
			resp, err := service.Consult(c.Request.Context(), consultReq)
			if err != nil {
				slog.Error("Websocket consultation failed", "error", err)
				if writeErr := conn.WriteJSON(WSConsultResponse{Error: "consultation failed"}); writeErr != nil {
					return
				}
				continue
			}

			if err := conn.WriteJSON(WSConsultResponse{Answer: resp.Answer, Outcome: resp.Outcome}); err != nil {
				slog.Warn("Failed to write the consultation reply", "error", err)
				return
			}
		}
	}
}

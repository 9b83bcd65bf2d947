// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers provides HTTP request handlers for the consultation
// agent service.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/binturaid/iflas-agent/services/agent/datatypes"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var handlerTracer = otel.Tracer("iflas.agent.handlers")

// ConsultService is the slice of the advisor the handlers need. Taking the
// interface keeps handler tests free of real reasoning/retrieval clients.
type ConsultService interface {
	Consult(ctx context.Context, req *datatypes.ConsultRequest) (*datatypes.ConsultResponse, error)
}

// HandleConsult serves POST /v1/consult.
func HandleConsult(service ConsultService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := handlerTracer.Start(c.Request.Context(), "HandleConsult")
		defer span.End()

		var req datatypes.ConsultRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the consultation request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		resp, err := service.Consult(ctx, &req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if strings.Contains(err.Error(), "validation failed") {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			slog.Error("Consultation failed", "requestId", req.RequestID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "consultation failed"})
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// HealthCheck serves GET /health.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the consultation agent
// service.
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

var localModeWarnOnce sync.Once

// AuthRequired validates the service bearer token on every request.
//
// The expected token comes from AGENT_AUTH_TOKEN. When it is unset the
// service runs in local mode and all requests pass, which lets the CLI work
// against a workstation deployment without any auth infrastructure. The
// token comparison is constant-time; the token value is never logged.
func AuthRequired() gin.HandlerFunc {
	expected := os.Getenv("AGENT_AUTH_TOKEN")
	if expected == "" {
		localModeWarnOnce.Do(func() {
			slog.Warn("AGENT_AUTH_TOKEN not set, running in local mode without authentication")
		})
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

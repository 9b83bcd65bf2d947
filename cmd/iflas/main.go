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
	"log"
	"os"

	"github.com/binturaid/iflas-agent/pkg/ux"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	serverURL        string
	authToken        string
	personalityLevel string // UX personality level (full/minimal/machine)

	rootCmd = &cobra.Command{
		Use:   "iflas",
		Short: "A cli for the bankruptcy-law consultation agent",
		Long: `iflas talks to the consultation agent service of the law office of
Nasser Bin Turaid. Questions about the Saudi bankruptcy system are answered
from the office knowledge base; anything else is politely declined.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env is fine, flags and the environment still apply.
			_ = godotenv.Load()

			if personalityLevel != "" {
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
			} else {
				ux.InitPersonality()
			}

			if serverURL == "" {
				serverURL = os.Getenv("IFLAS_SERVER_URL")
			}
			if serverURL == "" {
				serverURL = "http://localhost:12310"
			}
			if authToken == "" {
				authToken = os.Getenv("AGENT_AUTH_TOKEN")
			}
		},
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"Agent service base URL (default $IFLAS_SERVER_URL or http://localhost:12310)")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "",
		"Bearer token for the agent service (default $AGENT_AUTH_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&personalityLevel, "personality", "p", "",
		"Output style: full, minimal, or machine")

	rootCmd.AddCommand(consultCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(healthCmd)
}

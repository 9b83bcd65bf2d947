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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/binturaid/iflas-agent/pkg/ux"
	"github.com/binturaid/iflas-agent/services/agent/datatypes"
	"github.com/spf13/cobra"
)

// consultCmd asks a single question and prints the answer.
//
// # Description
//
// Sends one question to the consultation agent service and renders the
// reply. Out-of-domain questions and questions the knowledge base has no
// material for are shown in a warning box rather than an answer box.
//
// # Examples
//
//	iflas consult "ما هي إجراءات التصفية الإدارية؟"
//	echo "question" | iflas consult
var consultCmd = &cobra.Command{
	Use:   "consult [question]",
	Short: "Ask the bankruptcy-law agent a single question",
	Args:  cobra.ArbitraryArgs,
	RunE:  runConsultCommand,
}

// chatCmd runs an interactive consultation session.
//
// History stays on the client: every turn resends the prior exchanges so
// the service itself holds no session state.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive consultation session",
	RunE:  runChatCommand,
}

func runConsultCommand(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		// Fall back to stdin so the command composes with pipes.
		stdin, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read the question from stdin: %w", err)
		}
		question = strings.TrimSpace(string(stdin))
	}
	if question == "" {
		return fmt.Errorf("no question given")
	}

	client := newAgentClient(serverURL, authToken)
	var resp *datatypes.ConsultResponse
	err := ux.WithSpinner("جاري البحث في نظام الإفلاس...", func() error {
		var consultErr error
		resp, consultErr = client.Consult(cmd.Context(), question, nil)
		return consultErr
	})
	if err != nil {
		ux.Error(err.Error())
		return err
	}

	renderConsultResponse(resp)
	return nil
}

func runChatCommand(cmd *cobra.Command, args []string) error {
	ux.Title("مكتب المحامي ناصر بن طريد - المستشار القانوني")
	ux.Muted("اكتب سؤالك عن نظام الإفلاس السعودي. اكتب exit للخروج.")

	client := newAgentClient(serverURL, authToken)
	var history []datatypes.Message
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), datatypes.MaxQuestionBytes)

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" || question == "خروج" {
			ux.Muted("مع السلامة")
			return nil
		}

		var resp *datatypes.ConsultResponse
		err := ux.WithSpinner("جاري البحث...", func() error {
			var consultErr error
			resp, consultErr = client.Consult(context.Background(), question, history)
			return consultErr
		})
		if err != nil {
			ux.Error(err.Error())
			continue
		}

		renderConsultResponse(resp)

		// Only answered turns are worth carrying forward; refusals and
		// no-data replies add nothing for the next question.
		if resp.Outcome == datatypes.OutcomeAnswered {
			history = append(history,
				datatypes.Message{Role: "user", Content: question},
				datatypes.Message{Role: "assistant", Content: resp.Answer},
			)
			if len(history) > 2*maxChatTurns {
				history = history[len(history)-2*maxChatTurns:]
			}
		}
	}
}

// maxChatTurns caps the client-side history sent with each question.
const maxChatTurns = 20

func renderConsultResponse(resp *datatypes.ConsultResponse) {
	switch resp.Outcome {
	case datatypes.OutcomeAnswered:
		ux.Answer("الإجابة", resp.Answer)
	default:
		ux.Refusal("تنبيه", resp.Answer)
	}
	ux.Meta("outcome", string(resp.Outcome))
	ux.Meta("retrieval_attempts", fmt.Sprintf("%d", resp.RetrievalAttempts))
	ux.Meta("processing_time_ms", fmt.Sprintf("%d", resp.ProcessingTimeMs))
}

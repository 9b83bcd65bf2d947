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
	"github.com/binturaid/iflas-agent/pkg/ux"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the agent service is up",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAgentClient(serverURL, authToken)
		if err := client.Health(cmd.Context()); err != nil {
			ux.Error(err.Error())
			return err
		}
		ux.Success("agent service is healthy at " + serverURL)
		return nil
	},
}

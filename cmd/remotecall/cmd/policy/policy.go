// Copyright 2026 BlueBoxy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package policy

import (
	"fmt"

	"github.com/blueboxy/remotecall/cmd/internal/app"
	"github.com/blueboxy/remotecall/cmd/internal/config"
	"github.com/blueboxy/remotecall/cmd/internal/flags"
	"github.com/blueboxy/remotecall/cmd/internal/logging"
	"github.com/spf13/cobra"
)

// Cmd represents policy sub command.
type Cmd struct {
	// Flags from root.
	flagsApp    *flags.App
	flagsPolicy *flags.Policy
}

// NewCmd return initialized policy command.
func NewCmd(flagsApp *flags.App, flagsPolicy *flags.Policy) *cobra.Command {
	c := &Cmd{
		flagsApp:    flagsApp,
		flagsPolicy: flagsPolicy,
	}

	policyCmd := &cobra.Command{
		Use:   "policy",
		Short: "Print the retry policy and its delay schedule",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	policyCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		fmt.Println("Print the retry policy built from the retry flags.")
		fmt.Println("\nUsage:")
		fmt.Println("  remotecall policy [flags]")
		fmt.Println("\nFlags:")
		cmd.InheritedFlags().PrintDefaults()
	})

	return policyCmd
}

func (c *Cmd) run(_ *cobra.Command, _ []string) error {
	serviceConfig, err := config.NewServiceConfig(c.flagsApp.GetApp(), nil, c.flagsPolicy.GetPolicy(), nil, nil)
	if err != nil {
		return err
	}

	logger, err := app.NewLogger(serviceConfig.App.LogLevel, serviceConfig.App.Verbose, serviceConfig.App.LogJSON)
	if err != nil {
		return err
	}

	policy, err := config.NewRetryPolicy(serviceConfig.Policy)
	if err != nil {
		return err
	}

	logging.ReportPolicy(policy, serviceConfig.App.LogJSON, logger)

	return nil
}

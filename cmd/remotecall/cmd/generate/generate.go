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

package generate

import (
	"fmt"
	"log/slog"

	"github.com/blueboxy/remotecall/cmd/internal/app"
	"github.com/blueboxy/remotecall/cmd/internal/config"
	"github.com/blueboxy/remotecall/cmd/internal/flags"
	"github.com/spf13/cobra"
)

// Cmd represents generate sub command.
type Cmd struct {
	// Flags from root.
	flagsApp    *flags.App
	flagsClient *flags.Client
	flagsPolicy *flags.Policy
	flagsCache  *flags.Cache

	// Message flags
	flagsMessage *flags.Message
}

// NewCmd return initialized generate command.
func NewCmd(
	flagsApp *flags.App,
	flagsClient *flags.Client,
	flagsPolicy *flags.Policy,
	flagsCache *flags.Cache,
) *cobra.Command {
	c := &Cmd{
		flagsApp:     flagsApp,
		flagsClient:  flagsClient,
		flagsPolicy:  flagsPolicy,
		flagsCache:   flagsCache,
		flagsMessage: flags.NewMessage(),
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate personalized messages",
		RunE:  c.run,
	}

	messageFlagSet := c.flagsMessage.NewFlagSet()
	generateCmd.Flags().AddFlagSet(messageFlagSet)

	generateCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		fmt.Println("Generate messages through the messaging API.")
		fmt.Println("\nUsage:")
		fmt.Println("  remotecall generate [flags]")
		fmt.Println("\nMessage Flags:")
		messageFlagSet.PrintDefaults()
		fmt.Println("\nGlobal Flags:")
		cmd.InheritedFlags().PrintDefaults()
	})

	return generateCmd
}

func (c *Cmd) run(cmd *cobra.Command, _ []string) error {
	serviceConfig, err := config.NewServiceConfig(
		c.flagsApp.GetApp(),
		c.flagsClient.GetClient(),
		c.flagsPolicy.GetPolicy(),
		c.flagsCache.GetCache(),
		c.flagsMessage.GetMessage(),
	)
	if err != nil {
		return err
	}

	logger, err := app.NewLogger(serviceConfig.App.LogLevel, serviceConfig.App.Verbose, serviceConfig.App.LogJSON)
	if err != nil {
		return err
	}

	svc, err := app.NewService(cmd.Context(), serviceConfig, logger)
	if err != nil {
		return err
	}

	result, err := svc.Generate(cmd.Context(), serviceConfig.Message)
	if err != nil {
		return err
	}

	defer svc.Report()

	if !result.Ok() {
		logger.Error("generate failed",
			slog.String("kind", result.Kind().String()),
			slog.Int("attempts", result.Attempts),
			slog.Any("error", result.Err()),
		)

		return result.Err()
	}

	for _, m := range result.Value() {
		fmt.Printf("[%s] %s\n", m.Category, m.Content)
	}

	return nil
}

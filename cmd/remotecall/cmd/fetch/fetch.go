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

package fetch

import (
	"fmt"
	"log/slog"

	"github.com/blueboxy/remotecall/cmd/internal/app"
	"github.com/blueboxy/remotecall/cmd/internal/config"
	"github.com/blueboxy/remotecall/cmd/internal/flags"
	"github.com/spf13/cobra"
)

// Cmd represents fetch sub command.
type Cmd struct {
	// Flags from root.
	flagsApp    *flags.App
	flagsClient *flags.Client
	flagsPolicy *flags.Policy
	flagsCache  *flags.Cache
}

// NewCmd return initialized fetch command.
func NewCmd(
	flagsApp *flags.App,
	flagsClient *flags.Client,
	flagsPolicy *flags.Policy,
	flagsCache *flags.Cache,
) *cobra.Command {
	c := &Cmd{
		flagsApp:    flagsApp,
		flagsClient: flagsClient,
		flagsPolicy: flagsPolicy,
		flagsCache:  flagsCache,
	}

	fetchCmd := &cobra.Command{
		Use:   "fetch <path>...",
		Short: "GET one or more paths with retries and caching",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.run,
	}

	fetchCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		fmt.Println("Fetch paths relative to --base-url, at most --parallel at a time.")
		fmt.Println("\nUsage:")
		fmt.Println("  remotecall fetch [flags] <path>...")
		fmt.Println("\nFlags:")
		cmd.InheritedFlags().PrintDefaults()
	})

	return fetchCmd
}

func (c *Cmd) run(cmd *cobra.Command, args []string) error {
	serviceConfig, err := config.NewServiceConfig(
		c.flagsApp.GetApp(),
		c.flagsClient.GetClient(),
		c.flagsPolicy.GetPolicy(),
		c.flagsCache.GetCache(),
		nil,
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

	results, err := svc.Fetch(cmd.Context(), args)

	for _, r := range results {
		if !r.Result.Ok() {
			logger.Error("fetch failed",
				slog.String("path", r.Path),
				slog.String("kind", r.Result.Kind().String()),
				slog.Any("error", r.Result.Err()),
			)

			continue
		}

		fmt.Printf("%s\n%s\n", r.Path, r.Result.Value())
	}

	svc.Report()

	return err
}

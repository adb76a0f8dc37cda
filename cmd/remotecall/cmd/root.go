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

package cmd

import (
	"fmt"

	"github.com/blueboxy/remotecall/cmd/internal/flags"
	"github.com/blueboxy/remotecall/cmd/remotecall/cmd/fetch"
	"github.com/blueboxy/remotecall/cmd/remotecall/cmd/generate"
	"github.com/blueboxy/remotecall/cmd/remotecall/cmd/policy"
	"github.com/spf13/cobra"
)

const VersionDev = "dev"

// Cmd represents the base command when called without any subcommands
type Cmd struct {
	// Version params.
	appVersion string
	commitHash string

	// Root flags
	flagsApp    *flags.App
	flagsClient *flags.Client
	flagsPolicy *flags.Policy
	flagsCache  *flags.Cache
}

func NewCmd(appVersion, commitHash string) *cobra.Command {
	c := &Cmd{
		appVersion: appVersion,
		commitHash: commitHash,

		flagsApp:    flags.NewApp(),
		flagsClient: flags.NewClient(),
		flagsPolicy: flags.NewPolicy(),
		flagsCache:  flags.NewCache(),
	}

	rootCmd := &cobra.Command{
		Use:   "remotecall",
		Short: "Resilient remote call CLI tool",
		RunE:  c.run,
	}

	// Disable sorting
	rootCmd.PersistentFlags().SortFlags = false
	rootCmd.SilenceUsage = true

	// Add sub commands
	rootCmd.AddCommand(
		fetch.NewCmd(c.flagsApp, c.flagsClient, c.flagsPolicy, c.flagsCache),
		generate.NewCmd(c.flagsApp, c.flagsClient, c.flagsPolicy, c.flagsCache),
		policy.NewCmd(c.flagsApp, c.flagsPolicy),
	)

	appFlagSet := c.flagsApp.NewFlagSet()
	clientFlagSet := c.flagsClient.NewFlagSet()
	policyFlagSet := c.flagsPolicy.NewFlagSet()
	cacheFlagSet := c.flagsCache.NewFlagSet()

	rootCmd.PersistentFlags().AddFlagSet(appFlagSet)
	rootCmd.PersistentFlags().AddFlagSet(clientFlagSet)
	rootCmd.PersistentFlags().AddFlagSet(policyFlagSet)
	rootCmd.PersistentFlags().AddFlagSet(cacheFlagSet)

	// Beautify help and usage.
	helpFunc := func() {
		fmt.Println("Welcome to the remotecall CLI tool!")
		fmt.Println("-----------------------------------")
		fmt.Println("\nUsage:")
		fmt.Println("  remotecall fetch [flags] <path>...")
		fmt.Println("  remotecall generate [flags]")
		fmt.Println("  remotecall policy [flags]")

		// Print section: App Flags
		fmt.Println("\nGeneral Flags:")
		appFlagSet.PrintDefaults()

		// Print section: Client Flags
		fmt.Println("\nClient Flags:")
		clientFlagSet.PrintDefaults()

		// Print section: Retry Flags
		fmt.Println("\nRetry Flags:\n" +
			"Failed calls are retried with exponential backoff.\n" +
			"connectivity, rate_limited, server_error and unknown failures are retried by default.\n" +
			"unauthorized, forbidden, not_found, decoding and cancelled failures are never retried by default.")
		policyFlagSet.PrintDefaults()

		// Print section: Cache Flags
		fmt.Println("\nCache Flags:\n" +
			"Successful results are cached for --ttl seconds. Failures are never cached,\n" +
			"and a failed refresh keeps the previously cached result.")
		cacheFlagSet.PrintDefaults()
	}

	rootCmd.SetUsageFunc(func(_ *cobra.Command) error {
		helpFunc()
		return nil
	})
	rootCmd.SetHelpFunc(func(_ *cobra.Command, _ []string) {
		helpFunc()
	})

	return rootCmd
}

func (c *Cmd) run(cmd *cobra.Command, _ []string) error {
	// Show version.
	if c.flagsApp.Version {
		c.printVersion()

		return nil
	}

	return cmd.Help()
}

func (c *Cmd) printVersion() {
	version := c.appVersion
	if c.appVersion == VersionDev {
		version += " (" + c.commitHash + ")"
	}

	fmt.Printf("version: %s\n", version)
}

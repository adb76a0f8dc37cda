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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCmd_Version(t *testing.T) {
	rootCmd := NewCmd(VersionDev, "abc123")
	rootCmd.SetArgs([]string{"--version"})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
}

func TestRootCmd_Policy(t *testing.T) {
	rootCmd := NewCmd(VersionDev, "abc123")
	rootCmd.SetArgs([]string{"policy", "--retry-preset", "aggressive", "--max-attempts", "3"})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
}

func TestRootCmd_PolicyInvalid(t *testing.T) {
	rootCmd := NewCmd(VersionDev, "abc123")
	rootCmd.SetArgs([]string{"policy", "--retry-on", "never"})

	require.Error(t, rootCmd.ExecuteContext(context.Background()))
}

func TestRootCmd_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	rootCmd := NewCmd(VersionDev, "abc123")
	rootCmd.SetArgs([]string{"fetch", "--base-url", srv.URL, "--cache", "none", "/health"})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
}

func TestRootCmd_FetchRequiresBaseURL(t *testing.T) {
	rootCmd := NewCmd(VersionDev, "abc123")
	rootCmd.SetArgs([]string{"fetch", "/health"})

	require.ErrorContains(t, rootCmd.ExecuteContext(context.Background()), "base-url")
}

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

package flags

import (
	"github.com/blueboxy/remotecall/cmd/internal/models"
	"github.com/spf13/pflag"
)

const defaultParallel = 4

type Client struct {
	models.Client
}

func NewClient() *Client {
	return &Client{}
}

func (f *Client) NewFlagSet() *pflag.FlagSet {
	flagSet := &pflag.FlagSet{}

	flagSet.StringVarP(&f.BaseURL, "base-url", "u",
		"",
		"Base URL of the remote API. Required.")
	flagSet.StringVar(&f.Token, "token",
		"",
		"Bearer token sent with every request.")
	flagSet.Int64Var(&f.Timeout, "timeout",
		0,
		"Timeout of a single attempt in milliseconds. 0 means no timeout.")
	flagSet.Float64Var(&f.RequestsPerSecond, "rps",
		0,
		"Limits attempts per second. 0 means no limit.")
	flagSet.IntVar(&f.Burst, "burst",
		1,
		"Number of attempts allowed at once when --rps is set.")
	flagSet.IntVarP(&f.Parallel, "parallel", "p",
		defaultParallel,
		"Maximum number of remote calls in flight.")

	return flagSet
}

func (f *Client) GetClient() *models.Client {
	return &f.Client
}

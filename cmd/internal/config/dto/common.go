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

package dto

import (
	"strings"
	"time"

	"github.com/blueboxy/remotecall/cmd/internal/models"
)

// Config is the root of the YAML configuration file.
type Config struct {
	App     App     `yaml:"app"`
	Client  Client  `yaml:"client"`
	Retry   Retry   `yaml:"retry"`
	Cache   Cache   `yaml:"cache"`
	Message Message `yaml:"message"`
}

// App represents the application-level configuration parsed from a YAML file.
type App struct {
	Verbose  bool   `yaml:"verbose"`
	LogLevel string `yaml:"log-level"`
	LogJSON  bool   `yaml:"log-json"`
}

func (a *App) ToModelApp() *models.App {
	return &models.App{
		Verbose:  a.Verbose,
		LogLevel: a.LogLevel,
		LogJSON:  a.LogJSON,
	}
}

// Client defines how the remote API is reached.
type Client struct {
	BaseURL           string        `yaml:"base-url"`
	Token             string        `yaml:"token"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests-per-second"`
	Burst             int           `yaml:"burst"`
	Parallel          int           `yaml:"parallel"`
}

func (c *Client) ToModelClient() *models.Client {
	return &models.Client{
		BaseURL:           c.BaseURL,
		Token:             c.Token,
		Timeout:           c.Timeout.Milliseconds(),
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
		Parallel:          c.Parallel,
	}
}

// Retry defines the retry policy. Delays use Go duration syntax, e.g. 250ms.
type Retry struct {
	Preset      string        `yaml:"preset"`
	MaxAttempts int           `yaml:"max-attempts"`
	BaseDelay   time.Duration `yaml:"base-delay"`
	MaxDelay    time.Duration `yaml:"max-delay"`
	Multiplier  float64       `yaml:"multiplier"`
	Jitter      float64       `yaml:"jitter"`
	RetryOn     []string      `yaml:"retry-on"`
}

func (r *Retry) ToModelPolicy() *models.Policy {
	return &models.Policy{
		Preset:      r.Preset,
		MaxAttempts: r.MaxAttempts,
		BaseDelay:   r.BaseDelay.Milliseconds(),
		MaxDelay:    r.MaxDelay.Milliseconds(),
		Multiplier:  r.Multiplier,
		Jitter:      r.Jitter,
		RetryOn:     strings.Join(r.RetryOn, ","),
	}
}

// Cache defines where results are cached.
type Cache struct {
	Mode                 string        `yaml:"mode"`
	Directory            string        `yaml:"directory"`
	TTL                  time.Duration `yaml:"ttl"`
	CompressionThreshold int           `yaml:"compression-threshold"`
	Prune                bool          `yaml:"prune"`
}

func (c *Cache) ToModelCache() *models.Cache {
	mode := c.Mode
	if mode == "" {
		mode = models.CacheModeMemory
	}

	return &models.Cache{
		Mode:                 mode,
		Directory:            c.Directory,
		TTL:                  int64(c.TTL / time.Second),
		CompressionThreshold: c.CompressionThreshold,
		Prune:                c.Prune,
	}
}

// Message defines a message generation request.
type Message struct {
	UserID          string `yaml:"user-id"`
	Category        string `yaml:"category"`
	TimeOfDay       string `yaml:"time-of-day"`
	PartnerName     string `yaml:"partner-name"`
	PersonalityType string `yaml:"personality-type"`
	Count           int    `yaml:"count"`
	Refresh         bool   `yaml:"refresh"`
}

func (m *Message) ToModelMessage() *models.Message {
	return &models.Message{
		UserID:          m.UserID,
		Category:        m.Category,
		TimeOfDay:       m.TimeOfDay,
		PartnerName:     m.PartnerName,
		PersonalityType: m.PersonalityType,
		Count:           m.Count,
		Refresh:         m.Refresh,
	}
}

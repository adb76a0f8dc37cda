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

type Message struct {
	models.Message
}

func NewMessage() *Message {
	return &Message{}
}

func (f *Message) NewFlagSet() *pflag.FlagSet {
	flagSet := &pflag.FlagSet{}

	flagSet.StringVar(&f.UserID, "user-id",
		"",
		"User to generate messages for. Required.")
	flagSet.StringVarP(&f.Category, "category", "c",
		"",
		"Message category, for example: daily, romantic, appreciation. Required.")
	flagSet.StringVar(&f.TimeOfDay, "time-of-day",
		"",
		"Time of day the messages are meant for: morning, afternoon, evening.")
	flagSet.StringVar(&f.PartnerName, "partner-name",
		"",
		"Partner name used in the messages.")
	flagSet.StringVar(&f.PersonalityType, "personality-type",
		"",
		"Personality type the messages are tuned to.")
	flagSet.IntVarP(&f.Count, "count", "n",
		0,
		"Number of messages to generate. If 0, the service default is used.")
	flagSet.BoolVar(&f.Refresh, "refresh",
		false,
		"Skip cached messages and replace them with fresh ones.")

	return flagSet
}

func (f *Message) GetMessage() *models.Message {
	return &f.Message
}

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

package app

import (
	"context"
	"fmt"

	"github.com/blueboxy/remotecall/cmd/internal/models"
	"github.com/blueboxy/remotecall/messaging"
	bModels "github.com/blueboxy/remotecall/models"
)

// Generate requests messages through the messaging service.
func (s *Service) Generate(ctx context.Context, m *models.Message) (bModels.Result[[]messaging.Message], error) {
	if err := m.Validate(); err != nil {
		return bModels.Result[[]messaging.Message]{}, fmt.Errorf("invalid message request: %w", err)
	}

	svc, err := messaging.NewService(s.client, s.executor,
		messaging.WithTTL(s.ttl),
		messaging.WithPolicy(s.policy),
		messaging.WithLogger(s.logger),
	)
	if err != nil {
		return bModels.Result[[]messaging.Message]{}, err
	}

	req := messaging.Request{
		UserID:          m.UserID,
		Category:        m.Category,
		TimeOfDay:       m.TimeOfDay,
		PartnerName:     m.PartnerName,
		PersonalityType: m.PersonalityType,
		Count:           m.Count,
	}

	if m.Refresh {
		return svc.Refresh(ctx, req), nil
	}

	return svc.Generate(ctx, req), nil
}

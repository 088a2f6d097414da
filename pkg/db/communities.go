/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func listStrings(ctx context.Context, q Querier, query string) ([]string, error) {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToScan, err)
	}

	return values, nil
}

// CommunityStore lists the SNMP community strings tried against every device.
type CommunityStore struct {
	q Querier
}

func NewCommunityStore(q Querier) *CommunityStore {
	return &CommunityStore{q: q}
}

// ListAll returns the communities in the order they were added.
func (s *CommunityStore) ListAll(ctx context.Context) ([]string, error) {
	return listStrings(ctx, s.q, `SELECT community FROM snmp_communities ORDER BY created_at, community`)
}

// BlocklistStore lists the program names hosts must not run or install.
type BlocklistStore struct {
	q Querier
}

func NewBlocklistStore(q Querier) *BlocklistStore {
	return &BlocklistStore{q: q}
}

func (s *BlocklistStore) ListAll(ctx context.Context) ([]string, error) {
	return listStrings(ctx, s.q, `SELECT program FROM blocklist ORDER BY program`)
}

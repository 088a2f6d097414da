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

// Package db stores discovered devices, SNMP communities and the program
// blocklist in PostgreSQL through a pgx connection pool.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/models"
)

// Querier is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Querier = (*pgxpool.Pool)(nil)

// DB bundles the stores backed by one pool.
type DB struct {
	pool        *pgxpool.Pool
	Devices     *DeviceStore
	Communities *CommunityStore
	Blocklist   *BlocklistStore
}

// Open connects, migrates the schema and returns the stores.
func Open(ctx context.Context, cfg *models.DatabaseConfig, log logger.Logger) (*DB, error) {
	pool, err := NewPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, pool, log); err != nil {
		pool.Close()

		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return &DB{
		pool:        pool,
		Devices:     NewDeviceStore(pool, log),
		Communities: NewCommunityStore(pool),
		Blocklist:   NewBlocklistStore(pool),
	}, nil
}

// Close releases every pooled connection.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

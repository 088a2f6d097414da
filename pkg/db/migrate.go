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
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brotheri/core/pkg/logger"
)

const (
	migrationsTable = "crawler_schema_migrations"
	migrationsDir   = "migrations"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migration struct {
	version string
	name    string
	body    string
}

// pendingMigrations returns the .up.sql files of dir whose version is not in
// applied, ordered by file name.
func pendingMigrations(fsys fs.FS, dir string, applied map[string]struct{}) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)

	pending := make([]migration, 0, len(names))

	for _, name := range names {
		version := extractVersion(name)
		if _, ok := applied[version]; ok {
			continue
		}

		body, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		pending = append(pending, migration{version: version, name: name, body: string(body)})
	}

	return pending, nil
}

// RunMigrations applies every embedded migration that has not been recorded yet.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log logger.Logger) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquire connection: %w", ErrFailedToInit, err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version     TEXT PRIMARY KEY,
		applied_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, migrationsTable)); err != nil {
		return fmt.Errorf("%w: create tracking table: %w", ErrFailedToInit, err)
	}

	rows, err := conn.Query(ctx, fmt.Sprintf(`SELECT version FROM %s`, migrationsTable))
	if err != nil {
		return fmt.Errorf("%w: list applied versions: %w", ErrFailedToInit, err)
	}

	applied := make(map[string]struct{})

	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			rows.Close()

			return fmt.Errorf("%w: scan applied version: %w", ErrFailedToInit, err)
		}

		applied[version] = struct{}{}
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterate applied versions: %w", ErrFailedToInit, err)
	}

	pending, err := pendingMigrations(migrationsFS, migrationsDir, applied)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	for _, m := range pending {
		log.Info().Str("migration", m.name).Msg("Applying migration")

		for idx, stmt := range splitSQLStatements(m.body) {
			if _, err := conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("%w: statement %d in %s: %w", ErrFailedToInit, idx+1, m.name, err)
			}
		}

		if _, err := conn.Exec(ctx, fmt.Sprintf(`INSERT INTO %s (version) VALUES ($1)`, migrationsTable), m.version); err != nil {
			return fmt.Errorf("%w: record %s: %w", ErrFailedToInit, m.name, err)
		}
	}

	if len(pending) > 0 {
		log.Info().Int("applied", len(pending)).Msg("Schema is up to date")
	}

	return nil
}

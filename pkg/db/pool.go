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
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/models"
)

const (
	defaultPort            = 5432
	defaultSSLMode         = "disable"
	defaultApplicationName = "brotheri-crawler"
)

// buildConnURL renders the DSN for cfg. Extra runtime params ride along in the query string.
func buildConnURL(cfg *models.DatabaseConfig) url.URL {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	connURL := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, port),
		Path:   "/" + cfg.Database,
	}

	switch {
	case cfg.Username != "" && cfg.Password != "":
		connURL.User = url.UserPassword(cfg.Username, cfg.Password)
	case cfg.Username != "":
		connURL.User = url.User(cfg.Username)
	}

	query := connURL.Query()

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = defaultSSLMode
	}

	query.Set("sslmode", sslMode)

	appName := cfg.ApplicationName
	if appName == "" {
		appName = defaultApplicationName
	}

	query.Set("application_name", appName)

	for k, v := range cfg.ExtraRuntimeParams {
		if k == "" {
			continue
		}

		query.Set(k, v)
	}

	connURL.RawQuery = query.Encode()

	return connURL
}

// poolConfig parses the DSN and applies the pool sizing and timeouts of cfg.
func poolConfig(cfg *models.DatabaseConfig) (*pgxpool.Config, error) {
	connURL := buildConnURL(cfg)

	pc, err := pgxpool.ParseConfig(connURL.String())
	if err != nil {
		return nil, fmt.Errorf("%w: parse connection string: %w", ErrFailedOpenDB, err)
	}

	if cfg.MaxConnections > 0 {
		pc.MaxConns = cfg.MaxConnections
	}

	if cfg.MinConnections > 0 {
		pc.MinConns = cfg.MinConnections
	}

	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime)
	}

	if cfg.HealthCheckPeriod > 0 {
		pc.HealthCheckPeriod = time.Duration(cfg.HealthCheckPeriod)
	}

	if pc.ConnConfig.RuntimeParams == nil {
		pc.ConnConfig.RuntimeParams = make(map[string]string)
	}

	if cfg.StatementTimeout > 0 {
		ms := time.Duration(cfg.StatementTimeout).Milliseconds()
		pc.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(ms, 10)
	}

	return pc, nil
}

// NewPool dials PostgreSQL and verifies the connection with a ping.
func NewPool(ctx context.Context, cfg *models.DatabaseConfig, log logger.Logger) (*pgxpool.Pool, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("%w: ping: %w", ErrFailedOpenDB, err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Int32("max_conns", pc.MaxConns).
		Msg("Connected to device database")

	return pool, nil
}

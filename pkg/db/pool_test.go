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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/models"
)

func TestBuildConnURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      models.DatabaseConfig
		host     string
		user     string
		query    map[string]string
		password bool
	}{
		{
			name: "defaults",
			cfg:  models.DatabaseConfig{Host: "db.local", Database: "crawler"},
			host: "db.local:5432",
			query: map[string]string{
				"sslmode":          "disable",
				"application_name": "brotheri-crawler",
			},
		},
		{
			name: "credentials and overrides",
			cfg: models.DatabaseConfig{
				Host:            "10.1.1.5",
				Port:            5433,
				Database:        "crawler",
				Username:        "crawler",
				Password:        "s3cret",
				SSLMode:         "require",
				ApplicationName: "crawler-test",
			},
			host:     "10.1.1.5:5433",
			user:     "crawler",
			password: true,
			query: map[string]string{
				"sslmode":          "require",
				"application_name": "crawler-test",
			},
		},
		{
			name: "user without password and runtime params",
			cfg: models.DatabaseConfig{
				Host:               "db.local",
				Database:           "crawler",
				Username:           "readonly",
				ExtraRuntimeParams: map[string]string{"search_path": "crawler", "": "ignored"},
			},
			host: "db.local:5432",
			user: "readonly",
			query: map[string]string{
				"sslmode":     "disable",
				"search_path": "crawler",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := buildConnURL(&tt.cfg)

			assert.Equal(t, "postgres", u.Scheme)
			assert.Equal(t, tt.host, u.Host)
			assert.Equal(t, "/"+tt.cfg.Database, u.Path)

			if tt.user == "" {
				assert.Nil(t, u.User)
			} else {
				require.NotNil(t, u.User)
				assert.Equal(t, tt.user, u.User.Username())

				_, hasPassword := u.User.Password()
				assert.Equal(t, tt.password, hasPassword)
			}

			q := u.Query()
			for k, v := range tt.query {
				assert.Equal(t, v, q.Get(k), k)
			}

			assert.False(t, q.Has(""))
		})
	}
}

func TestPoolConfig(t *testing.T) {
	pc, err := poolConfig(&models.DatabaseConfig{
		Host:              "db.local",
		Port:              5433,
		Database:          "crawler",
		Username:          "crawler",
		MaxConnections:    12,
		MinConnections:    2,
		MaxConnLifetime:   models.Duration(30 * time.Minute),
		HealthCheckPeriod: models.Duration(15 * time.Second),
		StatementTimeout:  models.Duration(1500 * time.Millisecond),
	})
	require.NoError(t, err)

	assert.Equal(t, "db.local", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "crawler", pc.ConnConfig.Database)
	assert.Equal(t, "crawler", pc.ConnConfig.User)
	assert.Equal(t, int32(12), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, 30*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, 15*time.Second, pc.HealthCheckPeriod)
	assert.Equal(t, "1500", pc.ConnConfig.RuntimeParams["statement_timeout"])
	assert.Equal(t, "brotheri-crawler", pc.ConnConfig.RuntimeParams["application_name"])
}

func TestNewPoolRequiresConfig(t *testing.T) {
	_, err := NewPool(context.Background(), nil, logger.NewTestLogger())

	require.ErrorIs(t, err, ErrConfigNil)
}

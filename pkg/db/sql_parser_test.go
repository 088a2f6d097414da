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
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSQLStatements(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "plain statements",
			content:  "SELECT 1;\n\nSELECT 2;",
			expected: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:     "missing trailing semicolon",
			content:  "SELECT 1;\nSELECT 2\n",
			expected: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:     "semicolons in quotes",
			content:  `INSERT INTO blocklist(program) VALUES('a;b'); SELECT "odd;name" FROM t;`,
			expected: []string{`INSERT INTO blocklist(program) VALUES('a;b')`, `SELECT "odd;name" FROM t`},
		},
		{
			name:     "comments are dropped",
			content:  "-- leading; comment\nSELECT 1; /* block; comment */ SELECT 2;",
			expected: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name: "dollar quoted body",
			content: `DO $$
BEGIN
    PERFORM 1;
END $$;
SELECT $1::text;`,
			expected: []string{"DO $$\nBEGIN\n    PERFORM 1;\nEND $$", "SELECT $1::text"},
		},
		{
			name:     "tagged dollar quote",
			content:  "CREATE FUNCTION f() RETURNS int AS $fn$ SELECT 1; $fn$ LANGUAGE sql;",
			expected: []string{"CREATE FUNCTION f() RETURNS int AS $fn$ SELECT 1; $fn$ LANGUAGE sql"},
		},
		{
			name:     "only comments",
			content:  "-- nothing here\n/* or here */",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitSQLStatements(tt.content))
		})
	}
}

func TestEmbeddedMigrationSplits(t *testing.T) {
	pending, err := pendingMigrations(migrationsFS, migrationsDir, map[string]struct{}{})
	require.NoError(t, err)
	require.Len(t, pending, 1)

	assert.Equal(t, "00000000000001", pending[0].version)

	statements := splitSQLStatements(pending[0].body)
	require.Len(t, statements, 6)
	assert.Contains(t, statements[0], "CREATE TABLE IF NOT EXISTS devices")
	assert.Contains(t, statements[0], "'[]'::jsonb")
	assert.Contains(t, statements[5], "CREATE TABLE IF NOT EXISTS blocklist")
}

func TestExtractVersion(t *testing.T) {
	assert.Equal(t, "0002", extractVersion("0002_monitor.up.sql"))
	assert.Equal(t, "init.up.sql", extractVersion("init.up.sql"))
}

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_blocklist.up.sql":   {Data: []byte("SELECT 2;")},
		"migrations/0001_devices.up.sql":     {Data: []byte("SELECT 1;")},
		"migrations/0001_devices.down.sql":   {Data: []byte("DROP TABLE devices;")},
		"migrations/0003_partitions.up.sql":  {Data: []byte("SELECT 3;")},
		"migrations/README.md":               {Data: []byte("notes")},
		"migrations/archive/0000_old.up.sql": {Data: []byte("SELECT 0;")},
	}

	pending, err := pendingMigrations(fsys, "migrations", map[string]struct{}{"0001": {}})
	require.NoError(t, err)
	require.Len(t, pending, 2)

	assert.Equal(t, "0002", pending[0].version)
	assert.Equal(t, "0002_blocklist.up.sql", pending[0].name)
	assert.Equal(t, "SELECT 2;", pending[0].body)
	assert.Equal(t, "0003", pending[1].version)

	_, err = pendingMigrations(fsys, "missing", nil)
	require.Error(t, err)
}

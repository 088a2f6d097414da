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
	"errors"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errScanArity = errors.New("scan arity mismatch")

func assignValues(dest, values []any) error {
	if len(dest) != len(values) {
		return errScanArity
	}

	for i, v := range values {
		target := reflect.ValueOf(dest[i]).Elem()

		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}

		target.Set(reflect.ValueOf(v))
	}

	return nil
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}

	return assignValues(dest, r.values)
}

type fakeRows struct {
	rows   [][]any
	idx    int
	err    error
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}

	r.idx++

	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assignValues(dest, r.rows[r.idx-1])
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.idx-1], nil
}

type queryCall struct {
	sql  string
	args []any
}

// fakeQuerier replays canned results in call order, per method.
type fakeQuerier struct {
	calls []queryCall

	execTags []pgconn.CommandTag
	execErrs []error
	execN    int

	rowResults []fakeRow
	rowN       int

	rows     *fakeRows
	queryErr error
}

var _ Querier = (*fakeQuerier)(nil)

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, queryCall{sql: sql, args: args})

	i := f.execN
	f.execN++

	var (
		tag pgconn.CommandTag
		err error
	)

	if i < len(f.execTags) {
		tag = f.execTags[i]
	}

	if i < len(f.execErrs) {
		err = f.execErrs[i]
	}

	return tag, err
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.calls = append(f.calls, queryCall{sql: sql, args: args})

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	if f.rows == nil {
		return &fakeRows{}, nil
	}

	return f.rows, nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.calls = append(f.calls, queryCall{sql: sql, args: args})

	i := f.rowN
	f.rowN++

	if i < len(f.rowResults) {
		return f.rowResults[i]
	}

	return fakeRow{err: pgx.ErrNoRows}
}

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
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/models"
)

var (
	errConnReset = errors.New("connection reset by peer")
	storedAt     = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
)

func newTestStore(q *fakeQuerier) *DeviceStore {
	s := NewDeviceStore(q, logger.NewTestLogger())
	s.now = func() time.Time { return storedAt }

	return s
}

func hostValues(id, mac string, switchID *string, monitor []byte) []any {
	return []any{
		id, mac, "10.0.0.5", "pc5.campus.local", "Dell Inc.", "host", true, "public",
		false, true, false, 125.5, 64.0, false,
		[]byte(`[]`), switchID, 7, monitor, storedAt,
	}
}

func TestBuildDeviceFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter models.DeviceFilter
		where  string
		args   []any
	}{
		{
			name:   "everything",
			filter: models.DeviceFilter{},
			where:  "",
			args:   nil,
		},
		{
			name: "monitored hosts",
			filter: models.DeviceFilter{
				Type:          models.TypePtr(models.DeviceTypeHost),
				Online:        models.BoolPtr(true),
				HasConnection: models.BoolPtr(true),
			},
			where: " WHERE type = $1 AND online = $2 AND connected_switch_id IS NOT NULL",
			args:  []any{"host", true},
		},
		{
			name: "snmp hosts",
			filter: models.DeviceFilter{
				Type:        models.TypePtr(models.DeviceTypeHost),
				Online:      models.BoolPtr(true),
				SNMPEnabled: models.BoolPtr(true),
			},
			where: " WHERE type = $1 AND online = $2 AND snmp_enabled = $3",
			args:  []any{"host", true, true},
		},
		{
			name:   "unconnected",
			filter: models.DeviceFilter{HasConnection: models.BoolPtr(false)},
			where:  " WHERE connected_switch_id IS NULL",
			args:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildDeviceFilter(tt.filter)

			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestDeviceRowToModel(t *testing.T) {
	switchID := "sw-1"

	t.Run("full row", func(t *testing.T) {
		r := deviceRow{
			ID:          "d-1",
			MAC:         "00:11:22:33:44:55",
			Type:        "l2-switch",
			Interfaces:  []byte(`[{"if_index":3,"description":"Gi0/3","physical_address":"00:11:22:33:44:03","connected_mac":"aa:bb:cc:dd:ee:ff"}]`),
			SwitchID:    &switchID,
			IfIndex:     24,
			MonitorData: []byte(`{"up_time_minutes":90,"ram_bytes":8589934592,"blocked_programs":["utorrent"]}`),
		}

		device, err := r.toModel()
		require.NoError(t, err)

		assert.Equal(t, models.DeviceTypeSwitchL2, device.Type)
		require.Len(t, device.Interfaces, 1)
		assert.Equal(t, "aa:bb:cc:dd:ee:ff", device.Interfaces[0].ConnectedMAC)
		require.NotNil(t, device.ConnectedTo)
		assert.Equal(t, models.ConnectedTo{SwitchID: "sw-1", IfIndex: 24}, *device.ConnectedTo)
		require.NotNil(t, device.MonitorData)
		assert.InDelta(t, 90.0, device.MonitorData.UpTimeMinutes, 0)
		assert.Equal(t, []string{"utorrent"}, device.MonitorData.BlockedPrograms)
	})

	t.Run("no connection or monitor data", func(t *testing.T) {
		device, err := (&deviceRow{ID: "d-2", Type: "host"}).toModel()
		require.NoError(t, err)

		assert.Nil(t, device.ConnectedTo)
		assert.Nil(t, device.MonitorData)
		assert.Empty(t, device.Interfaces)
	})

	t.Run("corrupt interfaces", func(t *testing.T) {
		_, err := (&deviceRow{ID: "d-3", Interfaces: []byte(`{`)}).toModel()
		require.ErrorIs(t, err, ErrInvalidJSON)
	})
}

func TestFindMany(t *testing.T) {
	switchID := "sw-1"
	rows := &fakeRows{rows: [][]any{
		hostValues("d-1", "00:00:00:00:00:01", &switchID, nil),
		hostValues("d-2", "00:00:00:00:00:02", nil, []byte(`{"ram_bytes":1024}`)),
	}}
	q := &fakeQuerier{rows: rows}

	devices, err := newTestStore(q).FindMany(context.Background(), models.DeviceFilter{
		Type:   models.TypePtr(models.DeviceTypeHost),
		Online: models.BoolPtr(true),
	})
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.True(t, rows.closed)
	require.Len(t, q.calls, 1)
	assert.Contains(t, q.calls[0].sql, "FROM devices WHERE type = $1 AND online = $2 ORDER BY mac")
	assert.Equal(t, []any{"host", true}, q.calls[0].args)

	assert.Equal(t, "d-1", devices[0].ID)
	assert.Equal(t, "sw-1", devices[0].ConnectedTo.SwitchID)
	assert.Equal(t, 7, devices[0].ConnectedTo.IfIndex)
	assert.InDelta(t, 125.5, devices[0].DownSpeed, 0)
	assert.Nil(t, devices[1].ConnectedTo)
	assert.Equal(t, uint64(1024), devices[1].MonitorData.RAMBytes)
}

func TestFindManyFailures(t *testing.T) {
	_, err := newTestStore(&fakeQuerier{queryErr: errConnReset}).FindMany(context.Background(), models.DeviceFilter{})
	require.ErrorIs(t, err, ErrFailedToQuery)

	rows := &fakeRows{rows: [][]any{{"too", "few"}}}
	_, err = newTestStore(&fakeQuerier{rows: rows}).FindMany(context.Background(), models.DeviceFilter{})
	require.ErrorIs(t, err, ErrFailedToScan)
}

func TestFindOne(t *testing.T) {
	t.Run("by mac is case insensitive", func(t *testing.T) {
		q := &fakeQuerier{rowResults: []fakeRow{{values: hostValues("d-1", "00:aa:bb:cc:dd:ee", nil, nil)}}}

		device, err := newTestStore(q).FindByMAC(context.Background(), "00:AA:BB:CC:DD:EE")
		require.NoError(t, err)

		assert.Equal(t, "d-1", device.ID)
		assert.Contains(t, q.calls[0].sql, "WHERE mac = $1")
		assert.Equal(t, []any{"00:aa:bb:cc:dd:ee"}, q.calls[0].args)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := newTestStore(&fakeQuerier{}).FindByID(context.Background(), "nope")
		require.ErrorIs(t, err, ErrDeviceNotFound)
	})

	t.Run("query failure", func(t *testing.T) {
		q := &fakeQuerier{rowResults: []fakeRow{{err: errConnReset}}}

		_, err := newTestStore(q).FindByID(context.Background(), "d-1")
		require.ErrorIs(t, err, ErrFailedToQuery)
		require.ErrorIs(t, err, errConnReset)
	})
}

func TestUpsertByMAC(t *testing.T) {
	t.Run("host with switch", func(t *testing.T) {
		q := &fakeQuerier{rowResults: []fakeRow{{values: []any{"d-9"}}}}

		id, err := newTestStore(q).UpsertByMAC(context.Background(), &models.Device{
			MAC:         "AA:BB:CC:00:00:01",
			IP:          "10.0.0.9",
			Type:        models.DeviceTypeHost,
			Online:      true,
			ConnectedTo: &models.ConnectedTo{SwitchID: "sw-1", IfIndex: 12},
		})
		require.NoError(t, err)
		assert.Equal(t, "d-9", id)

		require.Len(t, q.calls, 1)
		args := q.calls[0].args
		require.Len(t, args, 15)

		assert.NotEmpty(t, args[0])
		assert.Equal(t, "aa:bb:cc:00:00:01", args[1])
		assert.Equal(t, "host", args[5])
		assert.Equal(t, true, args[9])
		assert.JSONEq(t, `[]`, string(args[11].([]byte)))
		require.IsType(t, (*string)(nil), args[12])
		assert.Equal(t, "sw-1", *args[12].(*string))
		assert.Equal(t, 12, args[13])
		assert.Equal(t, storedAt, args[14])
		assert.Contains(t, q.calls[0].sql, "ON CONFLICT (mac) DO UPDATE")
		assert.NotContains(t, q.calls[0].sql, "exceed_quota =")
	})

	t.Run("switch interfaces", func(t *testing.T) {
		q := &fakeQuerier{rowResults: []fakeRow{{values: []any{"sw-1"}}}}

		_, err := newTestStore(q).UpsertByMAC(context.Background(), &models.Device{
			MAC:  "00:11:22:33:44:55",
			Type: models.DeviceTypeSwitchL2,
			Interfaces: []models.Interface{
				{IfIndex: 3, Description: "Gi0/3", ConnectedMAC: "aa:bb:cc:00:00:01"},
			},
		})
		require.NoError(t, err)

		var stored []models.Interface
		require.NoError(t, json.Unmarshal(q.calls[0].args[11].([]byte), &stored))
		assert.Equal(t, "aa:bb:cc:00:00:01", stored[0].ConnectedMAC)
		assert.Nil(t, q.calls[0].args[12])
		assert.Equal(t, 0, q.calls[0].args[13])
	})

	t.Run("retries a deadlock", func(t *testing.T) {
		q := &fakeQuerier{rowResults: []fakeRow{
			{err: &pgconn.PgError{Code: sqlstateDeadlockDetected}},
			{values: []any{"d-1"}},
		}}

		id, err := newTestStore(q).UpsertByMAC(context.Background(), &models.Device{MAC: "00:00:00:00:00:01"})
		require.NoError(t, err)
		assert.Equal(t, "d-1", id)
		assert.Len(t, q.calls, 2)
	})

	t.Run("mac required", func(t *testing.T) {
		_, err := newTestStore(&fakeQuerier{}).UpsertByMAC(context.Background(), &models.Device{IP: "10.0.0.1"})
		require.ErrorIs(t, err, ErrDeviceMACNeeded)
	})

	t.Run("insert failure", func(t *testing.T) {
		q := &fakeQuerier{rowResults: []fakeRow{{err: errConnReset}}}

		_, err := newTestStore(q).UpsertByMAC(context.Background(), &models.Device{MAC: "00:00:00:00:00:01"})
		require.ErrorIs(t, err, ErrFailedToInsert)
		assert.Len(t, q.calls, 1)
	})
}

func TestDeviceUpdates(t *testing.T) {
	updated := []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 1")}
	missing := []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 0")}

	tests := []struct {
		name      string
		tags      []pgconn.CommandTag
		errs      []error
		call      func(s *DeviceStore) error
		sql       string
		expectErr error
	}{
		{
			name: "speed",
			tags: updated,
			call: func(s *DeviceStore) error {
				return s.UpdateSpeed(context.Background(), "d-1", 88, 4000)
			},
			sql: "SET down_speed = $2, up_speed = $3",
		},
		{
			name: "speed of unknown device",
			tags: missing,
			call: func(s *DeviceStore) error {
				return s.UpdateSpeed(context.Background(), "gone", 1, 1)
			},
			expectErr: ErrDeviceNotFound,
		},
		{
			name: "quota",
			tags: updated,
			call: func(s *DeviceStore) error {
				return s.SetExceedQuota(context.Background(), "d-1")
			},
			sql: "SET exceed_quota = TRUE",
		},
		{
			name: "monitor data",
			tags: updated,
			call: func(s *DeviceStore) error {
				return s.UpdateMonitorData(context.Background(), "d-1", &models.MonitorData{RAMBytes: 2048})
			},
			sql: "SET monitor_data = $2",
		},
		{
			name: "exec failure",
			errs: []error{errConnReset},
			call: func(s *DeviceStore) error {
				return s.SetExceedQuota(context.Background(), "d-1")
			},
			expectErr: ErrFailedToUpdate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQuerier{execTags: tt.tags, execErrs: tt.errs}

			err := tt.call(newTestStore(q))
			if tt.expectErr != nil {
				require.ErrorIs(t, err, tt.expectErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, q.calls, 1)
			assert.Contains(t, q.calls[0].sql, tt.sql)
			assert.Equal(t, "d-1", q.calls[0].args[0])
		})
	}
}

func TestUpdateMonitorDataPayload(t *testing.T) {
	q := &fakeQuerier{execTags: []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 1")}}

	err := newTestStore(q).UpdateMonitorData(context.Background(), "d-1", &models.MonitorData{
		UpTimeMinutes:   42,
		BlockedPrograms: []string{"bittorrent"},
	})
	require.NoError(t, err)

	var stored models.MonitorData
	require.NoError(t, json.Unmarshal(q.calls[0].args[1].([]byte), &stored))
	assert.InDelta(t, 42.0, stored.UpTimeMinutes, 0)
	assert.Equal(t, []string{"bittorrent"}, stored.BlockedPrograms)
}

func TestMarkAllOffline(t *testing.T) {
	q := &fakeQuerier{execTags: []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 14")}}

	require.NoError(t, newTestStore(q).MarkAllOffline(context.Background()))
	assert.Contains(t, q.calls[0].sql, "SET online = FALSE")

	q = &fakeQuerier{execErrs: []error{errConnReset}}
	require.ErrorIs(t, newTestStore(q).MarkAllOffline(context.Background()), ErrFailedToUpdate)
}

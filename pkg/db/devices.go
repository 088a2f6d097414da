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
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/models"
)

const deviceColumns = `id, mac, ip, name, vendor, type, snmp_enabled, snmp_community,
	is_likely_static, online, exceed_quota, down_speed, up_speed, support_hc,
	interfaces, connected_switch_id, connected_if_index, monitor_data, updated_at`

// Speeds, the quota flag and monitor data belong to the monitoring worker,
// so a scan upsert leaves them alone.
const upsertDeviceSQL = `INSERT INTO devices (
	id, mac, ip, name, vendor, type, snmp_enabled, snmp_community,
	is_likely_static, online, support_hc, interfaces,
	connected_switch_id, connected_if_index, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (mac) DO UPDATE SET
	ip = EXCLUDED.ip,
	name = EXCLUDED.name,
	vendor = EXCLUDED.vendor,
	type = EXCLUDED.type,
	snmp_enabled = EXCLUDED.snmp_enabled,
	snmp_community = EXCLUDED.snmp_community,
	is_likely_static = EXCLUDED.is_likely_static,
	online = EXCLUDED.online,
	support_hc = EXCLUDED.support_hc,
	interfaces = EXCLUDED.interfaces,
	connected_switch_id = EXCLUDED.connected_switch_id,
	connected_if_index = EXCLUDED.connected_if_index,
	updated_at = EXCLUDED.updated_at
RETURNING id`

// DeviceStore keeps one row per MAC address.
type DeviceStore struct {
	q      Querier
	logger logger.Logger
	now    func() time.Time
}

// NewDeviceStore returns a device store over q.
func NewDeviceStore(q Querier, log logger.Logger) *DeviceStore {
	return &DeviceStore{
		q:      q,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// deviceRow mirrors the columns of the devices table.
type deviceRow struct {
	ID             string
	MAC            string
	IP             string
	Name           string
	Vendor         string
	Type           string
	SNMPEnabled    bool
	SNMPCommunity  string
	IsLikelyStatic bool
	Online         bool
	ExceedQuota    bool
	DownSpeed      float64
	UpSpeed        float64
	SupportHC      bool
	Interfaces     []byte
	SwitchID       *string
	IfIndex        int
	MonitorData    []byte
	UpdatedAt      time.Time
}

func scanDevice(row pgx.Row) (*models.Device, error) {
	var r deviceRow

	if err := row.Scan(
		&r.ID, &r.MAC, &r.IP, &r.Name, &r.Vendor, &r.Type, &r.SNMPEnabled, &r.SNMPCommunity,
		&r.IsLikelyStatic, &r.Online, &r.ExceedQuota, &r.DownSpeed, &r.UpSpeed, &r.SupportHC,
		&r.Interfaces, &r.SwitchID, &r.IfIndex, &r.MonitorData, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return r.toModel()
}

func (r *deviceRow) toModel() (*models.Device, error) {
	device := &models.Device{
		ID:             r.ID,
		MAC:            r.MAC,
		IP:             r.IP,
		Name:           r.Name,
		Vendor:         r.Vendor,
		Type:           models.DeviceType(r.Type),
		SNMPEnabled:    r.SNMPEnabled,
		SNMPCommunity:  r.SNMPCommunity,
		IsLikelyStatic: r.IsLikelyStatic,
		Online:         r.Online,
		ExceedQuota:    r.ExceedQuota,
		DownSpeed:      r.DownSpeed,
		UpSpeed:        r.UpSpeed,
		SupportHC:      r.SupportHC,
		UpdatedAt:      r.UpdatedAt,
	}

	if len(r.Interfaces) > 0 {
		if err := json.Unmarshal(r.Interfaces, &device.Interfaces); err != nil {
			return nil, fmt.Errorf("%w: interfaces of %s: %w", ErrInvalidJSON, r.MAC, err)
		}
	}

	if len(r.MonitorData) > 0 {
		device.MonitorData = &models.MonitorData{}

		if err := json.Unmarshal(r.MonitorData, device.MonitorData); err != nil {
			return nil, fmt.Errorf("%w: monitor data of %s: %w", ErrInvalidJSON, r.MAC, err)
		}
	}

	if r.SwitchID != nil && *r.SwitchID != "" {
		device.ConnectedTo = &models.ConnectedTo{SwitchID: *r.SwitchID, IfIndex: r.IfIndex}
	}

	return device, nil
}

func (s *DeviceStore) findOne(ctx context.Context, column, value string) (*models.Device, error) {
	query := fmt.Sprintf(`SELECT %s FROM devices WHERE %s = $1`, deviceColumns, column)

	device, err := scanDevice(s.q.QueryRow(ctx, query, value))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s", ErrDeviceNotFound, column, value)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return device, nil
}

// FindByMAC returns the device with the given MAC, or ErrDeviceNotFound.
func (s *DeviceStore) FindByMAC(ctx context.Context, mac string) (*models.Device, error) {
	return s.findOne(ctx, "mac", strings.ToLower(mac))
}

// FindByID returns the device with the given row id, or ErrDeviceNotFound.
func (s *DeviceStore) FindByID(ctx context.Context, id string) (*models.Device, error) {
	return s.findOne(ctx, "id", id)
}

// buildDeviceFilter renders filter as a WHERE clause with positional arguments.
func buildDeviceFilter(filter models.DeviceFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	bind := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.Type != nil {
		bind("type", string(*filter.Type))
	}

	if filter.Online != nil {
		bind("online", *filter.Online)
	}

	if filter.SNMPEnabled != nil {
		bind("snmp_enabled", *filter.SNMPEnabled)
	}

	if filter.HasConnection != nil {
		if *filter.HasConnection {
			clauses = append(clauses, "connected_switch_id IS NOT NULL")
		} else {
			clauses = append(clauses, "connected_switch_id IS NULL")
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

// FindMany returns every device matching filter, ordered by MAC.
func (s *DeviceStore) FindMany(ctx context.Context, filter models.DeviceFilter) ([]*models.Device, error) {
	where, args := buildDeviceFilter(filter)

	rows, err := s.q.Query(ctx, `SELECT `+deviceColumns+` FROM devices`+where+` ORDER BY mac`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	devices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Device, error) {
		return scanDevice(row)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToScan, err)
	}

	return devices, nil
}

// UpsertByMAC inserts a new device or refreshes the scan fields of the
// existing row, and returns the row id.
func (s *DeviceStore) UpsertByMAC(ctx context.Context, device *models.Device) (string, error) {
	if device == nil || device.MAC == "" {
		return "", ErrDeviceMACNeeded
	}

	interfaces := device.Interfaces
	if interfaces == nil {
		interfaces = []models.Interface{}
	}

	ifaceJSON, err := json.Marshal(interfaces)
	if err != nil {
		return "", fmt.Errorf("%w: encode interfaces: %w", ErrFailedToInsert, err)
	}

	var (
		switchID *string
		ifIndex  int
	)

	if device.ConnectedTo != nil && device.ConnectedTo.SwitchID != "" {
		switchID = &device.ConnectedTo.SwitchID
		ifIndex = device.ConnectedTo.IfIndex
	}

	args := []any{
		uuid.NewString(),
		strings.ToLower(device.MAC),
		device.IP,
		device.Name,
		device.Vendor,
		string(device.Type),
		device.SNMPEnabled,
		device.SNMPCommunity,
		device.IsLikelyStatic,
		device.Online,
		device.SupportHC,
		ifaceJSON,
		switchID,
		ifIndex,
		s.now(),
	}

	var id string

	err = withRetry(ctx, func() error {
		return s.q.QueryRow(ctx, upsertDeviceSQL, args...).Scan(&id)
	})
	if err != nil {
		return "", fmt.Errorf("%w: device %s: %w", ErrFailedToInsert, device.MAC, err)
	}

	return id, nil
}

// MarkAllOffline clears the online flag of every stored device.
func (s *DeviceStore) MarkAllOffline(ctx context.Context) error {
	tag, err := s.q.Exec(ctx, `UPDATE devices SET online = FALSE WHERE online`)
	if err != nil {
		return fmt.Errorf("%w: mark offline: %w", ErrFailedToUpdate, err)
	}

	s.logger.Debug().Int64("devices", tag.RowsAffected()).Msg("Marked devices offline")

	return nil
}

func (s *DeviceStore) updateOne(ctx context.Context, what, query string, args ...any) error {
	var affected int64

	err := withRetry(ctx, func() error {
		tag, err := s.q.Exec(ctx, query, args...)
		affected = tag.RowsAffected()

		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFailedToUpdate, what, err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: %v", ErrDeviceNotFound, args[0])
	}

	return nil
}

// UpdateSpeed stores the latest sampled rates, in bytes per second.
func (s *DeviceStore) UpdateSpeed(ctx context.Context, id string, down, up float64) error {
	return s.updateOne(ctx, "speed",
		`UPDATE devices SET down_speed = $2, up_speed = $3 WHERE id = $1`, id, down, up)
}

// SetExceedQuota flags the device as over its monthly quota. The flag is never cleared.
func (s *DeviceStore) SetExceedQuota(ctx context.Context, id string) error {
	return s.updateOne(ctx, "quota",
		`UPDATE devices SET exceed_quota = TRUE WHERE id = $1`, id)
}

// UpdateMonitorData replaces the host resource summary of the device.
func (s *DeviceStore) UpdateMonitorData(ctx context.Context, id string, data *models.MonitorData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: encode monitor data: %w", ErrFailedToUpdate, err)
	}

	return s.updateOne(ctx, "monitor data",
		`UPDATE devices SET monitor_data = $2 WHERE id = $1`, id, payload)
}

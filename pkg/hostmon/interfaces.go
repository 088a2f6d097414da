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

// Package hostmon collects HOST-RESOURCES-MIB data from SNMP-enabled hosts:
// uptime, memory, fixed disks, the busiest programs and any running or
// installed program on the blocklist.
package hostmon

import (
	"context"
	"errors"

	"github.com/brotheri/core/pkg/models"
)

//go:generate mockgen -destination=mock_hostmon.go -package=hostmon github.com/brotheri/core/pkg/hostmon DeviceStore,BlocklistStore

var (
	ErrConfigNil        = errors.New("monitor config is nil")
	ErrHostUnreadable   = errors.New("host resources unreadable")
	ErrBlocklistMissing = errors.New("blocklist unavailable")
)

// DeviceStore is the part of the device store the monitor uses.
type DeviceStore interface {
	FindMany(ctx context.Context, filter models.DeviceFilter) ([]*models.Device, error)
	UpdateMonitorData(ctx context.Context, id string, data *models.MonitorData) error
}

// BlocklistStore lists the program names that must not run on hosts.
type BlocklistStore interface {
	ListAll(ctx context.Context) ([]string, error)
}

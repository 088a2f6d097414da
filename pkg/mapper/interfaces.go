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

// Package mapper builds the network topology: it classifies devices found on
// the entry switch, collects forwarding state from every switch, infers the
// links between them and publishes the result as a ScanSnapshot.
package mapper

import (
	"context"
	"time"

	"github.com/brotheri/core/pkg/models"
)

//go:generate mockgen -destination=mock_mapper.go -package=mapper github.com/brotheri/core/pkg/mapper DeviceStore,CommunityStore,EventPublisher,Recorder

// Scanner is the topology discovery surface used by the process entry point.
type Scanner interface {
	// Start runs a scan immediately and then on every scan interval
	Start(ctx context.Context) error

	// Stop halts the scheduler and waits for an in-flight scan to return
	Stop(ctx context.Context) error

	// Scan runs one scan synchronously; it fails with ErrScanInProgress when one is already running
	Scan(ctx context.Context) error

	// Status returns the current state and progress
	Status() models.ScanStatus

	// Snapshot returns the last successful scan result, or nil before the first one
	Snapshot() *models.ScanSnapshot

	// Subscribe returns a channel of scan events and a function that cancels the subscription
	Subscribe(buffer int) (<-chan models.ScanEvent, func())
}

// DeviceStore persists devices keyed by MAC.
type DeviceStore interface {
	FindByMAC(ctx context.Context, mac string) (*models.Device, error)
	FindByID(ctx context.Context, id string) (*models.Device, error)
	FindMany(ctx context.Context, filter models.DeviceFilter) ([]*models.Device, error)
	// UpsertByMAC inserts or updates the device and returns its store id.
	UpsertByMAC(ctx context.Context, device *models.Device) (string, error)
	MarkAllOffline(ctx context.Context) error
}

// CommunityStore lists the candidate SNMP community strings.
type CommunityStore interface {
	ListAll(ctx context.Context) ([]string, error)
}

// EventPublisher forwards scan lifecycle events to an event bus.
type EventPublisher interface {
	PublishScanEvent(ctx context.Context, event *models.ScanEvent) error
}

// Recorder receives scan measurements.
type Recorder interface {
	ScanStarted()
	ScanProgress(progress int)
	ScanFinished(duration time.Duration, devices, links int, err error)
}

// Resolver does reverse DNS lookups. *net.Resolver satisfies it.
type Resolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// VendorLookup maps a MAC address to its manufacturer.
type VendorLookup interface {
	Vendor(mac string) string
}

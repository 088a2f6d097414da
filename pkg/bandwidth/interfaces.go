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

// Package bandwidth samples switch port counters to derive per-host transfer
// rates and flags hosts that went over their monthly quota.
package bandwidth

import (
	"context"
	"time"

	"github.com/brotheri/core/pkg/models"
)

//go:generate mockgen -destination=mock_bandwidth.go -package=bandwidth github.com/brotheri/core/pkg/bandwidth DeviceStore,TimeSeriesStore

// DeviceStore is the part of the device store the sampler and quota checker use.
type DeviceStore interface {
	FindByID(ctx context.Context, id string) (*models.Device, error)
	FindMany(ctx context.Context, filter models.DeviceFilter) ([]*models.Device, error)
	UpdateSpeed(ctx context.Context, id string, downSpeed, upSpeed float64) error
	SetExceedQuota(ctx context.Context, id string) error
}

// TimeSeriesStore holds the per-sample transfer volumes.
type TimeSeriesStore interface {
	Write(ctx context.Context, measurement string, tags map[string]string, fields map[string]interface{}, ts time.Time) error
	// MonthlyUsage returns the summed in+out octets per deviceId tag since the given time.
	MonthlyUsage(ctx context.Context, measurement string, since time.Time) (map[string]float64, error)
}

// Recorder receives sampler measurements.
type Recorder interface {
	SampleRecorded(deviceID string, downSpeed, upSpeed float64)
	QuotaExceeded(deviceID string)
}

type noopRecorder struct{}

func (noopRecorder) SampleRecorded(string, float64, float64) {}
func (noopRecorder) QuotaExceeded(string)                    {}

// monitoredHosts selects hosts whose uplink port is known and that were seen
// by the last scan.
func monitoredHosts() models.DeviceFilter {
	return models.DeviceFilter{
		Type:          models.TypePtr(models.DeviceTypeHost),
		Online:        models.BoolPtr(true),
		HasConnection: models.BoolPtr(true),
	}
}

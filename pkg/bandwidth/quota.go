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

package bandwidth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/models"
)

// QuotaChecker flags hosts whose traffic this calendar month went over the
// configured threshold. The flag is never cleared here.
type QuotaChecker struct {
	devices     DeviceStore
	series      TimeSeriesStore
	measurement string
	threshold   float64
	logger      logger.Logger
	options
}

// NewQuotaChecker returns a checker using quota_bytes as the threshold.
func NewQuotaChecker(
	cfg *models.MonitorConfig,
	devices DeviceStore,
	series TimeSeriesStore,
	log logger.Logger,
	opts ...Option,
) (*QuotaChecker, error) {
	if cfg == nil {
		return nil, ErrSamplerConfigNil
	}

	threshold := cfg.QuotaBytes
	if threshold <= 0 {
		threshold = models.DefaultQuotaBytes
	}

	measurement := cfg.Measurement
	if measurement == "" {
		measurement = models.DefaultMeasurement
	}

	return &QuotaChecker{
		devices:     devices,
		series:      series,
		measurement: measurement,
		threshold:   threshold,
		logger:      log,
		options:     buildOptions(opts),
	}, nil
}

// Check compares every monitored host's usage since the start of the month
// with the threshold and returns the ids it newly flagged.
func (q *QuotaChecker) Check(ctx context.Context) ([]string, error) {
	hosts, err := q.devices.FindMany(ctx, monitoredHosts())
	if err != nil {
		return nil, fmt.Errorf("list monitored hosts: %w", err)
	}

	if len(hosts) == 0 {
		return nil, nil
	}

	usage, err := q.series.MonthlyUsage(ctx, q.measurement, MonthStart(q.now()))
	if err != nil {
		return nil, fmt.Errorf("query monthly usage: %w", err)
	}

	var (
		flagged []string
		errs    []error
	)

	for _, host := range hosts {
		if host.ExceedQuota || usage[host.ID] <= q.threshold {
			continue
		}

		if err := q.devices.SetExceedQuota(ctx, host.ID); err != nil {
			errs = append(errs, fmt.Errorf("flag %s: %w", host.ID, err))
			continue
		}

		q.logger.Info().
			Str("device_id", host.ID).
			Str("device_ip", host.IP).
			Float64("used_bytes", usage[host.ID]).
			Msg("Host exceeded monthly quota")

		q.recorder.QuotaExceeded(host.ID)

		flagged = append(flagged, host.ID)
	}

	return flagged, errors.Join(errs...)
}

// MonthStart is midnight on the first day of t's month, in t's location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

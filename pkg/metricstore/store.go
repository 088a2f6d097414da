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

// Package metricstore keeps per-host traffic samples in InfluxDB v2.
package metricstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/query"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"

	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/models"
)

var (
	ErrConfigNil     = errors.New("influx config cannot be nil")
	ErrWriteFailed   = errors.New("failed to write point")
	ErrQueryFailed   = errors.New("failed to query usage")
	ErrUnhealthy     = errors.New("influxdb is not healthy")
	errUnexpectedSum = errors.New("unexpected sum value type")
)

const (
	// DeviceTag is the tag every sample carries.
	DeviceTag = "deviceId"

	FieldInOctets  = "inOctets"
	FieldOutOctets = "outOctets"
)

type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

type queryRunner interface {
	Query(ctx context.Context, query string) (*api.QueryTableResult, error)
}

// Store writes samples and sums monthly usage.
type Store struct {
	client influxdb2.Client
	writer pointWriter
	reader queryRunner
	bucket string
	logger logger.Logger
}

// New returns a store for the configured bucket. No request is made until
// the first write or query.
func New(cfg *models.InfluxConfig, log logger.Logger) (*Store, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	return &Store{
		client: client,
		writer: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		reader: client.QueryAPI(cfg.Org),
		bucket: cfg.Bucket,
		logger: log,
	}, nil
}

// Ping checks the server health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	health, err := s.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	if health.Status != domain.HealthCheckStatusPass {
		return fmt.Errorf("%w: status %s", ErrUnhealthy, health.Status)
	}

	return nil
}

// Close releases the HTTP client.
func (s *Store) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// Write stores one point synchronously.
func (s *Store) Write(
	ctx context.Context,
	measurement string,
	tags map[string]string,
	fields map[string]interface{},
	ts time.Time,
) error {
	point := influxdb2.NewPoint(measurement, tags, fields, ts)

	if err := s.writer.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, measurement, err)
	}

	return nil
}

// usageQuery sums inbound and outbound octets per device since the given time.
func usageQuery(bucket, measurement string, since time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "from(bucket: %q)\n", bucket)
	fmt.Fprintf(&b, "  |> range(start: %s)\n", since.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r._measurement == %q)\n", measurement)
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r._field == %q or r._field == %q)\n", FieldInOctets, FieldOutOctets)
	fmt.Fprintf(&b, "  |> group(columns: [%q])\n", DeviceTag)
	b.WriteString("  |> sum()")

	return b.String()
}

// MonthlyUsage returns total bytes per device id since the given time.
func (s *Store) MonthlyUsage(ctx context.Context, measurement string, since time.Time) (map[string]float64, error) {
	result, err := s.reader.Query(ctx, usageQuery(s.bucket, measurement, since))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	defer func() { _ = result.Close() }()

	usage := make(map[string]float64)

	for result.Next() {
		if err := addUsage(usage, result.Record()); err != nil {
			s.logger.Warn().Err(err).Msg("Skipping usage record")
		}
	}

	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	return usage, nil
}

func addUsage(usage map[string]float64, record *query.FluxRecord) error {
	id, _ := record.ValueByKey(DeviceTag).(string)
	if id == "" {
		return nil
	}

	var total float64

	switch v := record.Value().(type) {
	case float64:
		total = v
	case int64:
		total = float64(v)
	case uint64:
		total = float64(v)
	default:
		return fmt.Errorf("%w %T for %s", errUnexpectedSum, v, id)
	}

	usage[id] += total

	return nil
}

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
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/models"
	"github.com/brotheri/core/pkg/snmp"
)

const (
	maxConcurrentSamples = 64

	tagDeviceID    = "deviceId"
	fieldInOctets  = "inOctets"
	fieldOutOctets = "outOctets"
)

// Sample is the outcome of measuring one host.
type Sample struct {
	DeviceID  string
	InOctets  uint64
	OutOctets uint64
	DownSpeed float64 // bytes per second
	UpSpeed   float64
	Timestamp time.Time
}

// Option customises a Sampler or QuotaChecker.
type Option func(*options)

type options struct {
	recorder Recorder
	now      func() time.Time
}

// WithRecorder reports samples and quota hits to r.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{recorder: noopRecorder{}, now: time.Now}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Sampler measures the transfer rate of every monitored host from the octet
// counters of the switch port it is connected to.
type Sampler struct {
	factory     snmp.SessionFactory
	devices     DeviceStore
	series      TimeSeriesStore
	interval    time.Duration
	measurement string
	logger      logger.Logger
	options
}

// NewSampler returns a sampler reading counters sample_interval apart.
func NewSampler(
	cfg *models.MonitorConfig,
	factory snmp.SessionFactory,
	devices DeviceStore,
	series TimeSeriesStore,
	log logger.Logger,
	opts ...Option,
) (*Sampler, error) {
	if cfg == nil {
		return nil, ErrSamplerConfigNil
	}

	interval := time.Duration(cfg.SampleInterval)
	if interval <= 0 {
		return nil, ErrInvalidSampleWindow
	}

	measurement := cfg.Measurement
	if measurement == "" {
		measurement = models.DefaultMeasurement
	}

	return &Sampler{
		factory:     factory,
		devices:     devices,
		series:      series,
		interval:    interval,
		measurement: measurement,
		logger:      log,
		options:     buildOptions(opts),
	}, nil
}

// Interval is the gap between the two counter reads of a sample.
func (s *Sampler) Interval() time.Duration {
	return s.interval
}

// SampleAll samples every online host with a known uplink concurrently.
// Per-host failures are logged; only failing to list hosts is returned.
func (s *Sampler) SampleAll(ctx context.Context) error {
	hosts, err := s.devices.FindMany(ctx, monitoredHosts())
	if err != nil {
		return fmt.Errorf("list monitored hosts: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSamples)

	for _, host := range hosts {
		g.Go(func() error {
			if _, err := s.Sample(gctx, host); err != nil {
				s.logger.Debug().
					Err(err).
					Str("device_id", host.ID).
					Str("device_ip", host.IP).
					Msg("Bandwidth sample failed")
			}

			return nil
		})
	}

	_ = g.Wait()

	s.logger.Debug().Int("hosts", len(hosts)).Msg("Bandwidth sampling round finished")

	return nil
}

// Sample reads the host's uplink counters twice, stores the resulting rates
// on the device and writes the transferred octets to the time-series store.
func (s *Sampler) Sample(ctx context.Context, host *models.Device) (*Sample, error) {
	if host.ConnectedTo == nil || host.ConnectedTo.SwitchID == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoParentSwitch, host.IP)
	}

	parent, err := s.devices.FindByID(ctx, host.ConnectedTo.SwitchID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoParentSwitch, host.IP, err)
	}

	if parent == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoParentSwitch, host.IP)
	}

	inOID, outOID, width := counterOIDs(parent.SupportHC, host.ConnectedTo.IfIndex)
	sess := s.factory.New(parent.IP, parent.SNMPCommunity)

	in1, out1, err := readCounters(ctx, sess, inOID, outOID)
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.interval):
	}

	in2, out2, err := readCounters(ctx, sess, inOID, outOID)
	if err != nil {
		return nil, err
	}

	seconds := s.interval.Seconds()
	sample := &Sample{
		DeviceID:  host.ID,
		InOctets:  CounterDelta(in1, in2, width),
		OutOctets: CounterDelta(out1, out2, width),
		Timestamp: s.now(),
	}
	sample.DownSpeed = float64(sample.InOctets) / seconds
	sample.UpSpeed = float64(sample.OutOctets) / seconds

	if err := s.devices.UpdateSpeed(ctx, host.ID, sample.DownSpeed, sample.UpSpeed); err != nil {
		return nil, fmt.Errorf("update speed of %s: %w", host.ID, err)
	}

	err = s.series.Write(ctx, s.measurement,
		map[string]string{tagDeviceID: host.ID},
		map[string]interface{}{
			fieldInOctets:  float64(sample.InOctets),
			fieldOutOctets: float64(sample.OutOctets),
		},
		sample.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("write consumption of %s: %w", host.ID, err)
	}

	s.recorder.SampleRecorded(host.ID, sample.DownSpeed, sample.UpSpeed)

	return sample, nil
}

func readCounters(ctx context.Context, sess snmp.Session, inOID, outOID string) (in, out uint64, err error) {
	vars, err := sess.Get(ctx, inOID, outOID)
	if err != nil {
		return 0, 0, err
	}

	if len(vars) != 2 || vars[0].IsMissing() || vars[1].IsMissing() {
		return 0, 0, fmt.Errorf("%w: %s on %s", ErrCounterUnavailable, inOID, sess.Target())
	}

	return vars[0].Uint64(), vars[1].Uint64(), nil
}

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
	"sync"
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/models"
	"github.com/brotheri/core/pkg/snmp"
)

const testSampleInterval = 125 * time.Millisecond

var sampleTime = time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC)

type captureRecorder struct {
	mu       sync.Mutex
	samples  map[string][2]float64
	exceeded []string
}

func newCaptureRecorder() *captureRecorder {
	return &captureRecorder{samples: make(map[string][2]float64)}
}

func (r *captureRecorder) SampleRecorded(id string, down, up float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.samples[id] = [2]float64{down, up}
}

func (r *captureRecorder) QuotaExceeded(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.exceeded = append(r.exceeded, id)
}

func counters(in, out interface{}, typ gosnmp.Asn1BER) []snmp.Variable {
	return []snmp.Variable{
		{Type: typ, Value: in},
		{Type: typ, Value: out},
	}
}

func testMonitorConfig() *models.MonitorConfig {
	return &models.MonitorConfig{
		SampleInterval: models.Duration(testSampleInterval),
		QuotaBytes:     1e10,
		Measurement:    "hostConsumption",
	}
}

func testHost() *models.Device {
	return &models.Device{
		ID:          "host-1",
		IP:          "10.0.0.5",
		Type:        models.DeviceTypeHost,
		Online:      true,
		ConnectedTo: &models.ConnectedTo{SwitchID: "switch-1", IfIndex: 3},
	}
}

func testSwitch(supportHC bool) *models.Device {
	return &models.Device{
		ID:            "switch-1",
		IP:            "10.0.0.2",
		Type:          models.DeviceTypeSwitchL2,
		SNMPEnabled:   true,
		SNMPCommunity: "public",
		SupportHC:     supportHC,
	}
}

func TestNewSampler(t *testing.T) {
	_, err := NewSampler(nil, nil, nil, nil, logger.NewTestLogger())
	require.ErrorIs(t, err, ErrSamplerConfigNil)

	_, err = NewSampler(&models.MonitorConfig{}, nil, nil, nil, logger.NewTestLogger())
	require.ErrorIs(t, err, ErrInvalidSampleWindow)

	s, err := NewSampler(&models.MonitorConfig{SampleInterval: models.Duration(time.Second)}, nil, nil, nil, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Equal(t, time.Second, s.Interval())
	assert.Equal(t, models.DefaultMeasurement, s.measurement)
}

func TestSample(t *testing.T) {
	tests := []struct {
		name         string
		supportHC    bool
		first        []snmp.Variable
		second       []snmp.Variable
		expectedIn   uint64
		expectedOut  uint64
		expectedDown float64
		expectedUp   float64
	}{
		{
			name:         "32-bit counters with wrap",
			first:        counters(uint(4294967290), uint(100), gosnmp.Counter32),
			second:       counters(uint(5), uint(600), gosnmp.Counter32),
			expectedIn:   11,
			expectedOut:  500,
			expectedDown: 88,
			expectedUp:   4000,
		},
		{
			name:         "64-bit counters",
			supportHC:    true,
			first:        counters(uint64(1)<<40, uint64(1)<<41, gosnmp.Counter64),
			second:       counters(uint64(1)<<40+1000, uint64(1)<<41+250, gosnmp.Counter64),
			expectedIn:   1000,
			expectedOut:  250,
			expectedDown: 8000,
			expectedUp:   2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			devices := NewMockDeviceStore(ctrl)
			series := NewMockTimeSeriesStore(ctrl)
			factory := snmp.NewMockSessionFactory(ctrl)
			sess := snmp.NewMockSession(ctrl)

			inOID, outOID, _ := counterOIDs(tt.supportHC, 3)

			devices.EXPECT().FindByID(gomock.Any(), "switch-1").Return(testSwitch(tt.supportHC), nil)
			factory.EXPECT().New("10.0.0.2", "public").Return(sess)

			gomock.InOrder(
				sess.EXPECT().Get(gomock.Any(), inOID, outOID).Return(tt.first, nil),
				sess.EXPECT().Get(gomock.Any(), inOID, outOID).Return(tt.second, nil),
			)

			devices.EXPECT().UpdateSpeed(gomock.Any(), "host-1", tt.expectedDown, tt.expectedUp).Return(nil)
			series.EXPECT().Write(gomock.Any(), "hostConsumption",
				map[string]string{"deviceId": "host-1"},
				map[string]interface{}{
					"inOctets":  float64(tt.expectedIn),
					"outOctets": float64(tt.expectedOut),
				},
				sampleTime,
			).Return(nil)

			recorder := newCaptureRecorder()

			sampler, err := NewSampler(testMonitorConfig(), factory, devices, series, logger.NewTestLogger(),
				WithClock(func() time.Time { return sampleTime }),
				WithRecorder(recorder),
			)
			require.NoError(t, err)

			start := time.Now()
			sample, err := sampler.Sample(context.Background(), testHost())
			require.NoError(t, err)

			assert.GreaterOrEqual(t, time.Since(start), testSampleInterval)
			assert.Equal(t, tt.expectedIn, sample.InOctets)
			assert.Equal(t, tt.expectedOut, sample.OutOctets)
			assert.InDelta(t, tt.expectedDown, sample.DownSpeed, 1e-9)
			assert.InDelta(t, tt.expectedUp, sample.UpSpeed, 1e-9)
			assert.Equal(t, [2]float64{tt.expectedDown, tt.expectedUp}, recorder.samples["host-1"])
		})
	}
}

func TestSampleFailures(t *testing.T) {
	errStore := errors.New("store offline")

	t.Run("host without uplink", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		sampler, err := NewSampler(testMonitorConfig(), snmp.NewMockSessionFactory(ctrl),
			NewMockDeviceStore(ctrl), NewMockTimeSeriesStore(ctrl), logger.NewTestLogger())
		require.NoError(t, err)

		host := testHost()
		host.ConnectedTo = nil

		_, err = sampler.Sample(context.Background(), host)
		require.ErrorIs(t, err, ErrNoParentSwitch)
	})

	t.Run("parent switch lookup fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		devices := NewMockDeviceStore(ctrl)
		devices.EXPECT().FindByID(gomock.Any(), "switch-1").Return(nil, errStore)

		sampler, err := NewSampler(testMonitorConfig(), snmp.NewMockSessionFactory(ctrl),
			devices, NewMockTimeSeriesStore(ctrl), logger.NewTestLogger())
		require.NoError(t, err)

		_, err = sampler.Sample(context.Background(), testHost())
		require.ErrorIs(t, err, ErrNoParentSwitch)
		require.ErrorIs(t, err, errStore)
	})

	t.Run("counter missing on agent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		devices := NewMockDeviceStore(ctrl)
		factory := snmp.NewMockSessionFactory(ctrl)
		sess := snmp.NewMockSession(ctrl)

		devices.EXPECT().FindByID(gomock.Any(), "switch-1").Return(testSwitch(false), nil)
		factory.EXPECT().New("10.0.0.2", "public").Return(sess)
		sess.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]snmp.Variable{{Type: gosnmp.NoSuchInstance}, {Type: gosnmp.Counter32, Value: uint(1)}}, nil)
		sess.EXPECT().Target().Return("10.0.0.2")

		sampler, err := NewSampler(testMonitorConfig(), factory, devices, NewMockTimeSeriesStore(ctrl), logger.NewTestLogger())
		require.NoError(t, err)

		_, err = sampler.Sample(context.Background(), testHost())
		require.ErrorIs(t, err, ErrCounterUnavailable)
	})

	t.Run("cancelled between reads", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		devices := NewMockDeviceStore(ctrl)
		factory := snmp.NewMockSessionFactory(ctrl)
		sess := snmp.NewMockSession(ctrl)

		ctx, cancel := context.WithCancel(context.Background())

		devices.EXPECT().FindByID(gomock.Any(), "switch-1").Return(testSwitch(false), nil)
		factory.EXPECT().New("10.0.0.2", "public").Return(sess)
		sess.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, ...string) ([]snmp.Variable, error) {
				cancel()
				return counters(uint(1), uint(1), gosnmp.Counter32), nil
			})

		cfg := testMonitorConfig()
		cfg.SampleInterval = models.Duration(time.Minute)

		sampler, err := NewSampler(cfg, factory, devices, NewMockTimeSeriesStore(ctrl), logger.NewTestLogger())
		require.NoError(t, err)

		_, err = sampler.Sample(ctx, testHost())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSampleAll(t *testing.T) {
	ctrl := gomock.NewController(t)

	devices := NewMockDeviceStore(ctrl)
	series := NewMockTimeSeriesStore(ctrl)
	factory := snmp.NewMockSessionFactory(ctrl)
	sess := snmp.NewMockSession(ctrl)

	orphan := testHost()
	orphan.ID = "host-2"
	orphan.ConnectedTo = nil

	devices.EXPECT().FindMany(gomock.Any(), monitoredHosts()).Return([]*models.Device{testHost(), orphan}, nil)
	devices.EXPECT().FindByID(gomock.Any(), "switch-1").Return(testSwitch(false), nil)
	factory.EXPECT().New("10.0.0.2", "public").Return(sess)
	sess.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(counters(uint(0), uint(0), gosnmp.Counter32), nil).Times(2)
	devices.EXPECT().UpdateSpeed(gomock.Any(), "host-1", 0.0, 0.0).Return(nil)
	series.EXPECT().Write(gomock.Any(), "hostConsumption", gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	sampler, err := NewSampler(testMonitorConfig(), factory, devices, series, logger.NewTestLogger())
	require.NoError(t, err)

	require.NoError(t, sampler.SampleAll(context.Background()))
}

func TestSampleAllListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	devices := NewMockDeviceStore(ctrl)
	devices.EXPECT().FindMany(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	sampler, err := NewSampler(testMonitorConfig(), snmp.NewMockSessionFactory(ctrl), devices,
		NewMockTimeSeriesStore(ctrl), logger.NewTestLogger())
	require.NoError(t, err)

	require.Error(t, sampler.SampleAll(context.Background()))
}

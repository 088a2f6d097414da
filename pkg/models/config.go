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

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/brotheri/core/pkg/logger"
)

var (
	errInvalidDuration    = errors.New("invalid duration")
	ErrEntryIPRequired    = errors.New("discovery.entry_ip is required")
	ErrEntryIPInvalid     = errors.New("discovery.entry_ip must be an IPv4 address")
	ErrInvalidSubnet      = errors.New("invalid static subnet")
	ErrDatabaseRequired   = errors.New("database configuration is required")
	ErrDatabaseHostNeeded = errors.New("database.host is required")
	ErrInfluxRequired     = errors.New("influx url, org and bucket are required")
)

// Duration is a time.Duration that unmarshals from "5m" style strings or
// from a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

const (
	DefaultScanInterval   = 5 * time.Minute
	DefaultWorkers        = 32
	DefaultVLANDelay      = 100 * time.Millisecond
	DefaultSNMPPort       = 161
	DefaultSNMPTimeout    = 60 * time.Second
	DefaultProbeTimeout   = 3 * time.Second
	DefaultSNMPRetries    = 3
	DefaultSampleInterval = 3 * time.Second
	DefaultQuotaInterval  = time.Minute
	DefaultHostInterval   = 3 * time.Minute
	DefaultQuotaBytes     = 1e10
	DefaultMeasurement    = "hostConsumption"
	DefaultMetricsAddr    = ":9105"
)

// CrawlerConfig is the top-level configuration of the crawler process.
type CrawlerConfig struct {
	Discovery   DiscoveryConfig `json:"discovery"`
	SNMP        SNMPConfig      `json:"snmp"`
	Monitor     MonitorConfig   `json:"monitor"`
	Database    *DatabaseConfig `json:"database"`
	Influx      *InfluxConfig   `json:"influx"`
	NATS        *NATSConfig     `json:"nats,omitempty"`
	MetricsAddr string          `json:"metrics_addr"`
	Logging     *logger.Config  `json:"logging,omitempty"`
}

// DiscoveryConfig drives the topology discoverer.
type DiscoveryConfig struct {
	EntryIP       string   `json:"entry_ip"`
	ScanInterval  Duration `json:"scan_interval"`
	Workers       int      `json:"workers"`
	VLANDelay     Duration `json:"vlan_delay"`
	StaticSubnets []string `json:"static_subnets"`
	APModels      []string `json:"ap_models"`
}

// SNMPConfig holds transport settings shared by every session.
type SNMPConfig struct {
	Port           uint16   `json:"port"`
	Timeout        Duration `json:"timeout"`
	ProbeTimeout   Duration `json:"probe_timeout"`
	Retries        int      `json:"retries"`
	MaxRepetitions uint32   `json:"max_repetitions"`
}

// MonitorConfig drives the monitoring worker.
type MonitorConfig struct {
	SampleInterval Duration `json:"sample_interval"`
	QuotaInterval  Duration `json:"quota_interval"`
	HostInterval   Duration `json:"host_interval"`
	QuotaBytes     float64  `json:"quota_bytes"`
	Measurement    string   `json:"measurement"`
}

// DatabaseConfig describes the PostgreSQL device store.
type DatabaseConfig struct {
	Host               string            `json:"host"`
	Port               int               `json:"port"`
	Database           string            `json:"database"`
	Username           string            `json:"username"`
	Password           string            `json:"password"`
	SSLMode            string            `json:"ssl_mode"`
	ApplicationName    string            `json:"application_name"`
	MaxConnections     int32             `json:"max_connections"`
	MinConnections     int32             `json:"min_connections"`
	MaxConnLifetime    Duration          `json:"max_conn_lifetime"`
	HealthCheckPeriod  Duration          `json:"health_check_period"`
	StatementTimeout   Duration          `json:"statement_timeout"`
	ExtraRuntimeParams map[string]string `json:"extra_runtime_params,omitempty"`
}

// InfluxConfig describes the InfluxDB v2 time-series store.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// NATSConfig enables scan event publishing when URL is set.
type NATSConfig struct {
	URL           string `json:"url"`
	Stream        string `json:"stream"`
	SubjectPrefix string `json:"subject_prefix"`
}

// Validate fills defaults and rejects configurations the crawler cannot run with.
func (c *CrawlerConfig) Validate() error {
	if err := c.Discovery.validate(); err != nil {
		return err
	}

	c.SNMP.applyDefaults()
	c.Monitor.applyDefaults()

	if c.Database == nil {
		return ErrDatabaseRequired
	}

	if c.Database.Host == "" {
		return ErrDatabaseHostNeeded
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}

	if c.Influx == nil || c.Influx.URL == "" || c.Influx.Org == "" || c.Influx.Bucket == "" {
		return ErrInfluxRequired
	}

	if c.NATS != nil {
		if c.NATS.Stream == "" {
			c.NATS.Stream = "crawler"
		}

		if c.NATS.SubjectPrefix == "" {
			c.NATS.SubjectPrefix = "crawler.scan"
		}
	}

	if c.MetricsAddr == "" {
		c.MetricsAddr = DefaultMetricsAddr
	}

	return nil
}

func (d *DiscoveryConfig) validate() error {
	if d.EntryIP == "" {
		return ErrEntryIPRequired
	}

	if ip := net.ParseIP(d.EntryIP); ip == nil || ip.To4() == nil {
		return fmt.Errorf("%w: %q", ErrEntryIPInvalid, d.EntryIP)
	}

	for _, cidr := range d.StaticSubnets {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidSubnet, cidr, err)
		}
	}

	if d.ScanInterval <= 0 {
		d.ScanInterval = Duration(DefaultScanInterval)
	}

	if d.Workers <= 0 {
		d.Workers = DefaultWorkers
	}

	if d.VLANDelay <= 0 {
		d.VLANDelay = Duration(DefaultVLANDelay)
	}

	if d.StaticSubnets == nil {
		d.StaticSubnets = []string{"193.227.0.0/16", "195.246.0.0/16"}
	}

	if d.APModels == nil {
		d.APModels = []string{"TL-WA901ND"}
	}

	return nil
}

func (s *SNMPConfig) applyDefaults() {
	if s.Port == 0 {
		s.Port = DefaultSNMPPort
	}

	if s.Timeout <= 0 {
		s.Timeout = Duration(DefaultSNMPTimeout)
	}

	if s.ProbeTimeout <= 0 {
		s.ProbeTimeout = Duration(DefaultProbeTimeout)
	}

	if s.Retries <= 0 {
		s.Retries = DefaultSNMPRetries
	}

	if s.MaxRepetitions == 0 {
		s.MaxRepetitions = 10
	}
}

func (m *MonitorConfig) applyDefaults() {
	if m.SampleInterval <= 0 {
		m.SampleInterval = Duration(DefaultSampleInterval)
	}

	if m.QuotaInterval <= 0 {
		m.QuotaInterval = Duration(DefaultQuotaInterval)
	}

	if m.HostInterval <= 0 {
		m.HostInterval = Duration(DefaultHostInterval)
	}

	if m.QuotaBytes <= 0 {
		m.QuotaBytes = DefaultQuotaBytes
	}

	if m.Measurement == "" {
		m.Measurement = DefaultMeasurement
	}
}

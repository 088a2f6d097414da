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
	"sort"
	"time"
)

// DeviceType is the role a device plays in the topology.
type DeviceType string

const (
	DeviceTypeHost           DeviceType = "host"
	DeviceTypeSwitchL2       DeviceType = "l2-switch"
	DeviceTypeSwitchL3Bridge DeviceType = "l3-switch-bridge"
	DeviceTypeSwitchL4       DeviceType = "l4-switch"
	DeviceTypeRouterBridgeL7 DeviceType = "sr-l7-bridge"
	DeviceTypeRouter         DeviceType = "router"
	DeviceTypePrinter        DeviceType = "printer"
)

// IsSwitch reports whether forwarding data is collected for this type.
func (t DeviceType) IsSwitch() bool {
	switch t {
	case DeviceTypeSwitchL2, DeviceTypeSwitchL3Bridge, DeviceTypeSwitchL4:
		return true
	case DeviceTypeHost, DeviceTypeRouterBridgeL7, DeviceTypeRouter, DeviceTypePrinter:
		return false
	}

	return false
}

// Valid reports whether t is one of the known device types.
func (t DeviceType) Valid() bool {
	switch t {
	case DeviceTypeHost, DeviceTypeSwitchL2, DeviceTypeSwitchL3Bridge, DeviceTypeSwitchL4,
		DeviceTypeRouterBridgeL7, DeviceTypeRouter, DeviceTypePrinter:
		return true
	}

	return false
}

// Device is one physical or logical endpoint found during a scan. MAC is the
// identity key; IP may change between scans.
type Device struct {
	ID             string       `json:"id,omitempty"`
	MAC            string       `json:"mac"`
	IP             string       `json:"ip"`
	Name           string       `json:"name"`
	Vendor         string       `json:"vendor"`
	Type           DeviceType   `json:"type"`
	SNMPEnabled    bool         `json:"snmp_enabled"`
	SNMPCommunity  string       `json:"snmp_community,omitempty"`
	IsSynonym      bool         `json:"is_synonym"`
	IsLikelyStatic bool         `json:"is_likely_static"`
	Online         bool         `json:"online"`
	ExceedQuota    bool         `json:"exceed_quota"`
	DownSpeed      float64      `json:"down_speed"`
	UpSpeed        float64      `json:"up_speed"`
	SupportHC      bool         `json:"support_hc"`
	Interfaces     []Interface  `json:"interfaces,omitempty"`
	ConnectedTo    *ConnectedTo `json:"connected_to,omitempty"`
	MonitorData    *MonitorData `json:"monitor_data,omitempty"`
	UpdatedAt      time.Time    `json:"updated_at,omitempty"`

	// Switch holds the raw tables gathered for switches during the current
	// scan. It is never persisted or published.
	Switch *SwitchData `json:"-"`
}

// DeviceFilter selects stored devices. Nil fields match every device.
type DeviceFilter struct {
	Type          *DeviceType
	Online        *bool
	HasConnection *bool
	SNMPEnabled   *bool
}

// BoolPtr returns a pointer to b, for filling filters.
func BoolPtr(b bool) *bool {
	return &b
}

// TypePtr returns a pointer to t, for filling filters.
func TypePtr(t DeviceType) *DeviceType {
	return &t
}

// ConnectedTo records the switch port a host hangs off.
type ConnectedTo struct {
	SwitchID string  `json:"switch_id,omitempty"`
	IfIndex  int     `json:"if_index"`
	Switch   *Device `json:"-"`
}

// Interface is a switch port with a neighbour found by link inference.
type Interface struct {
	IfIndex         int     `json:"if_index"`
	Description     string  `json:"description"`
	PhysicalAddress string  `json:"physical_address"`
	ConnectedMAC    string  `json:"connected_mac,omitempty"`
	ConnectedDevice *Device `json:"-"`
}

// IfEntry is one row of a device's ifTable.
type IfEntry struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Type        int    `json:"type"`
	PhysAddress string `json:"phys_address"`
}

// FDBEntry is a forwarding database row resolved to its interface.
type FDBEntry struct {
	MAC         string `json:"mac"`
	BridgePort  int    `json:"bridge_port"`
	IfIndex     int    `json:"if_index"`
	Description string `json:"description"`
}

// SwitchData is the per-scan working state of a switch.
type SwitchData struct {
	Interfaces map[int]IfEntry `json:"interfaces"`
	BasePorts  map[int]int     `json:"base_ports"` // bridge port -> ifIndex
	FDB        []FDBEntry      `json:"fdb"`
	SupportHC  bool            `json:"support_hc"`
}

// PhysAddresses returns the distinct 6-byte interface addresses of the switch.
func (s *SwitchData) PhysAddresses() []string {
	if s == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(s.Interfaces))
	out := make([]string, 0, len(s.Interfaces))

	for _, entry := range s.Interfaces {
		if entry.PhysAddress == "" {
			continue
		}

		if _, ok := seen[entry.PhysAddress]; ok {
			continue
		}

		seen[entry.PhysAddress] = struct{}{}
		out = append(out, entry.PhysAddress)
	}

	sort.Strings(out)

	return out
}

// MonitorData is the host resource summary written by the host monitor.
type MonitorData struct {
	UpTimeMinutes   float64        `json:"up_time_minutes"`
	RAMBytes        uint64         `json:"ram_bytes"`
	TopCPU          []ProgramUsage `json:"top_cpu"`
	TopMem          []ProgramUsage `json:"top_mem"`
	BlockedPrograms []string       `json:"blocked_programs"`
	Partitions      []Partition    `json:"partitions"`
	CollectedAt     time.Time      `json:"collected_at"`
}

// ProgramUsage is one running program with its CPU seconds and memory bytes.
type ProgramUsage struct {
	Name       string  `json:"name"`
	CPUSeconds float64 `json:"cpu_seconds"`
	MemBytes   uint64  `json:"mem_bytes"`
}

// Partition is one fixed-disk storage entry.
type Partition struct {
	Name      string  `json:"name"`
	SizeBytes uint64  `json:"size_bytes"`
	UsedBytes uint64  `json:"used_bytes"`
	Util      float64 `json:"util"`
}

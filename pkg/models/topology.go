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

import "time"

// Link is an undirected edge between two devices. Source is always the
// switch side; TargetIfIndex is zero when the target is a host.
type Link struct {
	Source        *Device `json:"-"`
	Target        *Device `json:"-"`
	SourceIfIndex int     `json:"source_if_index"`
	TargetIfIndex int     `json:"target_if_index"`
}

// LinkKey identifies an edge independent of direction.
type LinkKey struct {
	A string
	B string
}

// NewLinkKey orders the two IPs so (a, b) and (b, a) produce the same key.
func NewLinkKey(a, b string) LinkKey {
	if b < a {
		a, b = b, a
	}

	return LinkKey{A: a, B: b}
}

// Key returns the direction-independent key of the link.
func (l *Link) Key() LinkKey {
	return NewLinkKey(l.Source.IP, l.Target.IP)
}

// Vlan is a VLAN on the entry switch with the subnets it carries.
type Vlan struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Subnets []Subnet `json:"subnets"`
}

// Subnet is an IP range seen on a VLAN and the devices addressed inside it.
type Subnet struct {
	IP      string         `json:"ip"`
	Mask    string         `json:"mask"`
	Devices []SnapshotNode `json:"devices"`
}

// DiscoveryState is the scan state machine.
type DiscoveryState string

const (
	DiscoveryStateIdle    DiscoveryState = "idle"
	DiscoveryStateRunning DiscoveryState = "running"
)

// ScanStatus is the externally observable state of the discoverer.
type ScanStatus struct {
	State     DiscoveryState `json:"state"`
	Progress  int            `json:"value"`
	ScanID    string         `json:"scan_id,omitempty"`
	StartedAt time.Time      `json:"started_at,omitempty"`
	LastError string         `json:"last_error,omitempty"`
}

// SnapshotNode is a device as published in a snapshot, stripped of working fields.
type SnapshotNode struct {
	ID             int        `json:"id"`
	StoreID        string     `json:"_id,omitempty"`
	MAC            string     `json:"mac"`
	IP             string     `json:"ip"`
	Name           string     `json:"name"`
	Vendor         string     `json:"vendor"`
	Type           DeviceType `json:"type"`
	SNMPEnabled    bool       `json:"snmp_enabled"`
	IsSynonym      bool       `json:"is_synonym"`
	IsLikelyStatic bool       `json:"is_likely_static"`
	Monitored      bool       `json:"monitored"`
}

// ScanSnapshot is the immutable result of a completed scan.
type ScanSnapshot struct {
	ScanID    string         `json:"scan_id"`
	Nodes     []SnapshotNode `json:"nodes"`
	Vlans     []Vlan         `json:"vlans"`
	Timestamp time.Time      `json:"timestamp"`
}

// ScanEventType names a point in the life of a scan.
type ScanEventType string

const (
	ScanEventStarted   ScanEventType = "started"
	ScanEventProgress  ScanEventType = "progress"
	ScanEventCompleted ScanEventType = "completed"
	ScanEventFailed    ScanEventType = "failed"
)

// ScanEvent is broadcast to subscribers and the event bus as a scan advances.
type ScanEvent struct {
	Type      ScanEventType `json:"type"`
	ScanID    string        `json:"scan_id"`
	Phase     string        `json:"phase,omitempty"`
	Progress  int           `json:"progress"`
	Devices   int           `json:"devices,omitempty"`
	Links     int           `json:"links,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

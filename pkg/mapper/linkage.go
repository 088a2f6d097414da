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

package mapper

import "github.com/brotheri/core/pkg/models"

// PortMACs groups the distinct MACs learned on each port (keyed by ifIndex).
func PortMACs(fdb []models.FDBEntry) map[int]map[string]struct{} {
	ports := make(map[int]map[string]struct{})

	for _, entry := range fdb {
		if entry.MAC == "" {
			continue
		}

		macs, ok := ports[entry.IfIndex]
		if !ok {
			macs = make(map[string]struct{})
			ports[entry.IfIndex] = macs
		}

		macs[entry.MAC] = struct{}{}
	}

	return ports
}

func usableSwitch(d *models.Device) bool {
	return d != nil && !d.IsSynonym && d.Type.IsSwitch() && d.Switch != nil
}

// InferSwitchLinks returns one link per pair of switches that can each see
// one of the other's own interface addresses in its forwarding database.
// The result depends only on the input order, never on map iteration.
func InferSwitchLinks(switches []*models.Device) []models.Link {
	addresses := make([]map[string]struct{}, len(switches))

	for i, sw := range switches {
		if !usableSwitch(sw) {
			continue
		}

		set := make(map[string]struct{})
		for _, mac := range sw.Switch.PhysAddresses() {
			set[mac] = struct{}{}
		}

		addresses[i] = set
	}

	seen := make(map[models.LinkKey]struct{})

	var links []models.Link

	for i, a := range switches {
		if !usableSwitch(a) {
			continue
		}

		for j := i + 1; j < len(switches); j++ {
			b := switches[j]
			if !usableSwitch(b) || a.IP == b.IP || (a.MAC != "" && a.MAC == b.MAC) {
				continue
			}

			key := models.NewLinkKey(a.IP, b.IP)
			if _, ok := seen[key]; ok {
				continue
			}

			aPort, ok := sightingPort(a.Switch.FDB, addresses[j])
			if !ok {
				continue
			}

			bPort, ok := sightingPort(b.Switch.FDB, addresses[i])
			if !ok {
				continue
			}

			seen[key] = struct{}{}
			links = append(links, models.Link{
				Source:        a,
				Target:        b,
				SourceIfIndex: aPort,
				TargetIfIndex: bPort,
			})
		}
	}

	return links
}

// sightingPort returns the port of the first FDB entry whose MAC is in macs.
func sightingPort(fdb []models.FDBEntry, macs map[string]struct{}) (int, bool) {
	if len(macs) == 0 {
		return 0, false
	}

	for _, entry := range fdb {
		if _, ok := macs[entry.MAC]; ok {
			return entry.IfIndex, true
		}
	}

	return 0, false
}

// HostLinker answers host attachment queries against a fixed set of switches.
type HostLinker struct {
	switches []*models.Device
	ports    []map[int]map[string]struct{}
}

// NewHostLinker indexes the forwarding databases of switches once.
func NewHostLinker(switches []*models.Device) *HostLinker {
	l := &HostLinker{}

	for _, sw := range switches {
		if !usableSwitch(sw) {
			continue
		}

		l.switches = append(l.switches, sw)
		l.ports = append(l.ports, PortMACs(sw.Switch.FDB))
	}

	return l
}

// Link finds the switch port host is directly attached to. The first switch,
// in the order given, that learned the host MAC on a port where no other MAC
// was learned wins. Ports shared with other MACs lead to a hub or another
// switch and are never used.
func (l *HostLinker) Link(host *models.Device) (models.Link, bool) {
	if host == nil || host.IsSynonym || host.MAC == "" || host.Type.IsSwitch() {
		return models.Link{}, false
	}

	for i, sw := range l.switches {
		if sw.MAC == host.MAC || sw.IP == host.IP {
			continue
		}

		for _, entry := range sw.Switch.FDB {
			if entry.MAC != host.MAC {
				continue
			}

			if len(l.ports[i][entry.IfIndex]) == 1 {
				return models.Link{Source: sw, Target: host, SourceIfIndex: entry.IfIndex}, true
			}
		}
	}

	return models.Link{}, false
}

// InferHostLink is a one-off HostLinker query.
func InferHostLink(host *models.Device, switches []*models.Device) (models.Link, bool) {
	return NewHostLinker(switches).Link(host)
}

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

import (
	"context"

	"github.com/brotheri/core/pkg/snmp"
)

// ipNetToMediaTable columns and the entry types worth keeping.
const (
	arpColPhysAddress = 2
	arpColNetAddress  = 3
	arpColType        = 4

	arpTypeDynamic = 3
	arpTypeStatic  = 4
)

type arpEntry struct {
	IP  string
	MAC string
}

func readARP(ctx context.Context, sess snmp.Session) ([]arpEntry, error) {
	table, err := sess.Table(ctx, snmp.OIDIPNetToMediaTable, arpColPhysAddress, arpColNetAddress, arpColType)
	if err != nil {
		return nil, err
	}

	return filterARP(table), nil
}

// filterARP keeps dynamic and static entries that carry both an address and
// a MAC. Some agents return rows with either one missing.
func filterARP(table snmp.Table) []arpEntry {
	seen := make(map[string]struct{}, len(table))
	out := make([]arpEntry, 0, len(table))

	for _, index := range table.SortedIndexes() {
		row := table[index]

		switch row[arpColType].Int() {
		case arpTypeDynamic, arpTypeStatic:
		default:
			continue
		}

		ip := row[arpColNetAddress].String()
		mac := row[arpColPhysAddress].MAC()

		if ip == "" || mac == "" {
			continue
		}

		if _, dup := seen[ip]; dup {
			continue
		}

		seen[ip] = struct{}{}
		out = append(out, arpEntry{IP: ip, MAC: mac})
	}

	return out
}

// withEntry adds the entry switch itself, which never shows up in its own
// address translation table.
func (d *Discoverer) withEntry(ctx context.Context, sess snmp.Session, arp []arpEntry) []arpEntry {
	for _, entry := range arp {
		if entry.IP == d.cfg.EntryIP {
			return arp
		}
	}

	mac := entryMAC(ctx, sess)
	if mac == "" {
		d.logger.Warn().Str("entry_ip", d.cfg.EntryIP).Msg("Could not determine entry device MAC")
	}

	return append(arp, arpEntry{IP: d.cfg.EntryIP, MAC: mac})
}

// entryMAC prefers the bridge address and falls back to the first ethernet
// interface address.
func entryMAC(ctx context.Context, sess snmp.Session) string {
	if v, err := snmp.GetOne(ctx, sess, snmp.OIDDot1dBaseBridgeAddress); err == nil {
		if mac := v.MAC(); mac != "" {
			return mac
		}
	}

	ifaces, err := collectInterfaces(ctx, sess)
	if err != nil {
		return ""
	}

	best := 0
	mac := ""

	for index, entry := range ifaces {
		if entry.Type != snmp.IfTypeEthernet || entry.PhysAddress == "" {
			continue
		}

		if best == 0 || index < best {
			best = index
			mac = entry.PhysAddress
		}
	}

	return mac
}

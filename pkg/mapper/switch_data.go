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
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/brotheri/core/pkg/models"
	"github.com/brotheri/core/pkg/snmp"
)

// ifTable columns.
const (
	ifColIndex       = 1
	ifColDescr       = 2
	ifColType        = 3
	ifColPhysAddress = 6
)

// dot1dBasePortTable, dot1dTpFdbTable and vtpVlanTable columns.
const (
	basePortColPort    = 1
	basePortColIfIndex = 2

	fdbColAddress = 1
	fdbColPort    = 2
	fdbColStatus  = 3

	fdbStatusSelf = 4

	vtpVlanColName = 4
)

// collectSwitchData gathers the interface, base-port and forwarding tables of
// one switch. Failures are logged and leave the affected table empty.
func (d *Discoverer) collectSwitchData(ctx context.Context, sw *models.Device) *models.SwitchData {
	data := &models.SwitchData{
		Interfaces: make(map[int]models.IfEntry),
		BasePorts:  make(map[int]int),
	}

	sess := d.factory.New(sw.IP, sw.SNMPCommunity)
	log := d.logger.With().Str("switch_ip", sw.IP).Logger()

	ifaces, err := collectInterfaces(ctx, sess)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read interface table")
	} else {
		data.Interfaces = ifaces
	}

	_, err = snmp.GetOne(ctx, sess, snmp.OIDIfTableLastChange)
	data.SupportHC = err == nil

	var fdb []models.FDBEntry

	if d.isCisco(ctx, sw, sess) {
		fdb = d.collectCiscoForwarding(ctx, sw, sess, data.BasePorts)
	} else {
		if ports, err := collectBasePorts(ctx, sess); err != nil {
			log.Warn().Err(err).Msg("Failed to read bridge base port table")
		} else {
			data.BasePorts = ports
		}

		if fdb, err = collectFDB(ctx, sess); err != nil {
			log.Warn().Err(err).Msg("Failed to read forwarding database")
		}
	}

	data.FDB = resolveFDB(fdb, data)

	log.Debug().
		Int("interfaces", len(data.Interfaces)).
		Int("fdb_entries", len(data.FDB)).
		Bool("support_hc", data.SupportHC).
		Msg("Collected switch data")

	return data
}

func (d *Discoverer) isCisco(ctx context.Context, sw *models.Device, sess snmp.Session) bool {
	if isCiscoVendor(sw.Vendor) {
		return true
	}

	descr, err := snmp.GetOne(ctx, sess, snmp.OIDSysDescr)

	return err == nil && isCiscoVendor(descr.String())
}

// collectCiscoForwarding walks the per-VLAN views of a Cisco switch one VLAN
// at a time, pausing between views, and merges the results.
func (d *Discoverer) collectCiscoForwarding(
	ctx context.Context, sw *models.Device, sess snmp.Session, basePorts map[int]int) []models.FDBEntry {
	vlans, err := ciscoVLANs(ctx, sess)
	if err != nil {
		d.logger.Warn().Err(err).Str("switch_ip", sw.IP).Msg("Failed to read VTP VLAN table")
		return nil
	}

	var merged []models.FDBEntry

	for i, vlan := range vlans {
		if i > 0 && !d.pause(ctx) {
			break
		}

		view := d.factory.New(sw.IP, snmp.VLANCommunity(sw.SNMPCommunity, vlan.ID))

		ports, err := collectBasePorts(ctx, view)
		if err != nil {
			d.logger.Debug().Err(err).Str("switch_ip", sw.IP).Str("vlan", vlan.ID).Msg("No base ports in VLAN view")
		}

		for port, ifIndex := range ports {
			basePorts[port] = ifIndex
		}

		entries, err := collectFDB(ctx, view)
		if err != nil {
			d.logger.Debug().Err(err).Str("switch_ip", sw.IP).Str("vlan", vlan.ID).Msg("No forwarding entries in VLAN view")
			continue
		}

		merged = append(merged, entries...)
	}

	return merged
}

// pause waits the per-VLAN delay and reports whether the scan may continue.
func (d *Discoverer) pause(ctx context.Context) bool {
	if d.vlanDelay <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d.vlanDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func collectInterfaces(ctx context.Context, sess snmp.Session) (map[int]models.IfEntry, error) {
	table, err := sess.Table(ctx, snmp.OIDIfTable, ifColIndex, ifColDescr, ifColType, ifColPhysAddress)
	if err != nil {
		return nil, err
	}

	out := make(map[int]models.IfEntry, len(table))

	for index, row := range table {
		ifIndex := row[ifColIndex].Int()
		if ifIndex == 0 {
			ifIndex, _ = strconv.Atoi(index)
		}

		if ifIndex == 0 {
			continue
		}

		out[ifIndex] = models.IfEntry{
			Index:       ifIndex,
			Description: row[ifColDescr].String(),
			Type:        row[ifColType].Int(),
			PhysAddress: row[ifColPhysAddress].MAC(),
		}
	}

	return out, nil
}

func collectBasePorts(ctx context.Context, sess snmp.Session) (map[int]int, error) {
	table, err := sess.Table(ctx, snmp.OIDDot1dBasePortTable, basePortColPort, basePortColIfIndex)
	if err != nil {
		return nil, err
	}

	out := make(map[int]int, len(table))

	for _, row := range table {
		port := row[basePortColPort].Int()
		ifIndex := row[basePortColIfIndex].Int()

		if port > 0 && ifIndex > 0 {
			out[port] = ifIndex
		}
	}

	return out, nil
}

// collectFDB reads dot1dTpFdbTable, dropping the switch's own addresses.
func collectFDB(ctx context.Context, sess snmp.Session) ([]models.FDBEntry, error) {
	table, err := sess.Table(ctx, snmp.OIDDot1dTpFdbTable, fdbColAddress, fdbColPort, fdbColStatus)
	if err != nil {
		return nil, err
	}

	out := make([]models.FDBEntry, 0, len(table))

	for _, index := range table.SortedIndexes() {
		row := table[index]

		if status, ok := row[fdbColStatus]; ok && status.Int() == fdbStatusSelf {
			continue
		}

		mac := row[fdbColAddress].MAC()
		if mac == "" {
			mac = macFromIndex(index)
		}

		port := row[fdbColPort].Int()
		if mac == "" || port == 0 {
			continue
		}

		out = append(out, models.FDBEntry{MAC: mac, BridgePort: port})
	}

	return out, nil
}

// resolveFDB maps bridge ports to interfaces and drops duplicate
// (mac, interface) pairs from merged VLAN views. Entries on ports missing
// from the base-port table are dropped.
func resolveFDB(fdb []models.FDBEntry, data *models.SwitchData) []models.FDBEntry {
	type seenKey struct {
		mac     string
		ifIndex int
	}

	seen := make(map[seenKey]struct{}, len(fdb))
	out := make([]models.FDBEntry, 0, len(fdb))

	for _, entry := range fdb {
		ifIndex, ok := data.BasePorts[entry.BridgePort]
		if !ok {
			continue
		}

		key := seenKey{mac: entry.MAC, ifIndex: ifIndex}
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}

		entry.IfIndex = ifIndex
		entry.Description = data.Interfaces[ifIndex].Description
		out = append(out, entry)
	}

	return out
}

// macFromIndex decodes a MAC carried as the last six sub-identifiers of a
// table index, as in dot1dTpFdbTable and dot1qTpFdbTable.
func macFromIndex(index string) string {
	parts := strings.Split(index, ".")
	if len(parts) < 6 {
		return ""
	}

	raw := make([]byte, 0, 6)

	for _, p := range parts[len(parts)-6:] {
		b, err := strconv.Atoi(p)
		if err != nil || b < 0 || b > 255 {
			return ""
		}

		raw = append(raw, byte(b))
	}

	return snmp.FormatMAC(raw)
}

type vlanInfo struct {
	ID   string
	Name string
}

// ciscoVLANs lists the VLANs of the management domain from vtpVlanTable,
// whose rows are indexed <domain>.<vlanId>.
func ciscoVLANs(ctx context.Context, sess snmp.Session) ([]vlanInfo, error) {
	table, err := sess.Table(ctx, snmp.OIDCiscoVtpVlanTable, vtpVlanColName)
	if err != nil {
		return nil, err
	}

	out := make([]vlanInfo, 0, len(table))

	for _, index := range table.SortedIndexes() {
		dot := strings.LastIndexByte(index, '.')
		if dot < 0 {
			continue
		}

		out = append(out, vlanInfo{ID: index[dot+1:], Name: table[index][vtpVlanColName].String()})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].ID)
		b, _ := strconv.Atoi(out[j].ID)

		return a < b
	})

	return out, nil
}

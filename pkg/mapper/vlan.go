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
	"net"
	"net/netip"
	"strings"

	"github.com/brotheri/core/pkg/models"
	"github.com/brotheri/core/pkg/snmp"
)

// ipAddrTable and dot1q columns.
const (
	ipAddrColAddr = 1
	ipAddrColMask = 3

	dot1qStaticColName = 1
	dot1qFdbColPort    = 2
)

// VlanMembers is a VLAN together with the MACs its forwarding view learned.
type VlanMembers struct {
	ID   string
	Name string
	MACs []string
}

// AggregateVLANs attaches to every VLAN the subnets that contain at least one
// of its members, each subnet listing every node addressed inside it.
func AggregateVLANs(vlans []VlanMembers, subnets []netip.Prefix, nodes []models.SnapshotNode) []models.Vlan {
	ipByMAC := make(map[string]netip.Addr, len(nodes))

	for _, node := range nodes {
		if addr, err := netip.ParseAddr(node.IP); err == nil && node.MAC != "" {
			ipByMAC[node.MAC] = addr
		}
	}

	out := make([]models.Vlan, 0, len(vlans))

	for _, vlan := range vlans {
		result := models.Vlan{ID: vlan.ID, Name: vlan.Name, Subnets: []models.Subnet{}}

		for _, prefix := range subnets {
			if !anyMemberIn(vlan.MACs, ipByMAC, prefix) {
				continue
			}

			subnet := models.Subnet{
				IP:      prefix.Addr().String(),
				Mask:    maskString(prefix),
				Devices: []models.SnapshotNode{},
			}

			for _, node := range nodes {
				if addr, err := netip.ParseAddr(node.IP); err == nil && prefix.Contains(addr) {
					subnet.Devices = append(subnet.Devices, node)
				}
			}

			result.Subnets = append(result.Subnets, subnet)
		}

		out = append(out, result)
	}

	return out
}

func anyMemberIn(macs []string, ipByMAC map[string]netip.Addr, prefix netip.Prefix) bool {
	for _, mac := range macs {
		if addr, ok := ipByMAC[mac]; ok && prefix.Contains(addr) {
			return true
		}
	}

	return false
}

func maskString(prefix netip.Prefix) string {
	mask := net.CIDRMask(prefix.Bits(), prefix.Addr().BitLen())

	return net.IP(mask).String()
}

// ParseSubnet converts an address and dotted mask to its network prefix.
func ParseSubnet(ip, mask string) (netip.Prefix, bool) {
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() {
		return netip.Prefix{}, false
	}

	m := net.ParseIP(mask).To4()
	if m == nil {
		return netip.Prefix{}, false
	}

	ones, bits := net.IPMask(m).Size()
	if bits == 0 {
		return netip.Prefix{}, false
	}

	return netip.PrefixFrom(addr, ones).Masked(), true
}

// collectSubnets reads the subnets the entry device has addresses in.
func collectSubnets(ctx context.Context, sess snmp.Session) ([]netip.Prefix, error) {
	table, err := sess.Table(ctx, snmp.OIDIPAddrTable, ipAddrColAddr, ipAddrColMask)
	if err != nil {
		return nil, err
	}

	seen := make(map[netip.Prefix]struct{}, len(table))
	out := make([]netip.Prefix, 0, len(table))

	for _, index := range table.SortedIndexes() {
		row := table[index]

		prefix, ok := ParseSubnet(row[ipAddrColAddr].String(), row[ipAddrColMask].String())
		if !ok || prefix.Addr().IsLoopback() {
			continue
		}

		if _, dup := seen[prefix]; dup {
			continue
		}

		seen[prefix] = struct{}{}
		out = append(out, prefix)
	}

	return out, nil
}

// collectVLANMembers lists the VLANs of the entry switch with their learned
// MACs: per-VLAN views on Cisco, the Q-BRIDGE tables elsewhere.
func (d *Discoverer) collectVLANMembers(ctx context.Context, entry *models.Device, sess snmp.Session) ([]VlanMembers, error) {
	if d.isCisco(ctx, entry, sess) {
		return d.ciscoVLANMembers(ctx, entry, sess)
	}

	return qBridgeVLANMembers(ctx, sess)
}

func (d *Discoverer) ciscoVLANMembers(ctx context.Context, entry *models.Device, sess snmp.Session) ([]VlanMembers, error) {
	vlans, err := ciscoVLANs(ctx, sess)
	if err != nil {
		return nil, err
	}

	out := make([]VlanMembers, 0, len(vlans))

	for i, vlan := range vlans {
		if i > 0 && !d.pause(ctx) {
			return nil, ctx.Err()
		}

		members := VlanMembers{ID: vlan.ID, Name: vlan.Name}

		view := d.factory.New(entry.IP, snmp.VLANCommunity(entry.SNMPCommunity, vlan.ID))

		fdb, err := collectFDB(ctx, view)
		if err != nil {
			d.logger.Debug().Err(err).Str("vlan", vlan.ID).Msg("VLAN view returned no forwarding entries")
		}

		members.MACs = distinctMACs(fdb)
		out = append(out, members)
	}

	return out, nil
}

func qBridgeVLANMembers(ctx context.Context, sess snmp.Session) ([]VlanMembers, error) {
	names, err := sess.Table(ctx, snmp.OIDDot1qVlanStaticTable, dot1qStaticColName)
	if err != nil {
		return nil, err
	}

	fdb, err := sess.Table(ctx, snmp.OIDDot1qTpFdbTable, dot1qFdbColPort)
	if err != nil {
		return nil, err
	}

	macs := make(map[string][]string)

	for _, index := range fdb.SortedIndexes() {
		dot := strings.IndexByte(index, '.')
		if dot <= 0 {
			continue
		}

		if mac := macFromIndex(index[dot+1:]); mac != "" {
			fid := index[:dot]
			macs[fid] = append(macs[fid], mac)
		}
	}

	out := make([]VlanMembers, 0, len(names))

	for _, id := range names.SortedIndexes() {
		out = append(out, VlanMembers{
			ID:   id,
			Name: names[id][dot1qStaticColName].String(),
			MACs: uniqueStrings(macs[id]),
		})
	}

	return out, nil
}

func distinctMACs(fdb []models.FDBEntry) []string {
	macs := make([]string, 0, len(fdb))
	for _, entry := range fdb {
		macs = append(macs, entry.MAC)
	}

	return uniqueStrings(macs)
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))

	for _, s := range in {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}

		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

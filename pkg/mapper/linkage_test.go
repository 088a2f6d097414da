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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brotheri/core/pkg/models"
)

func newSwitch(ip, mac string, ifaces map[int]string, fdb ...models.FDBEntry) *models.Device {
	data := &models.SwitchData{
		Interfaces: make(map[int]models.IfEntry, len(ifaces)),
		BasePorts:  map[int]int{},
		FDB:        fdb,
	}

	for index, phys := range ifaces {
		data.Interfaces[index] = models.IfEntry{Index: index, Type: 6, PhysAddress: phys}
	}

	return &models.Device{IP: ip, MAC: mac, Type: models.DeviceTypeSwitchL2, SNMPEnabled: true, Switch: data}
}

func fdbEntry(mac string, ifIndex int) models.FDBEntry {
	return models.FDBEntry{MAC: mac, BridgePort: ifIndex, IfIndex: ifIndex}
}

func TestPortMACs(t *testing.T) {
	ports := PortMACs([]models.FDBEntry{
		fdbEntry("aa:aa:aa:aa:aa:01", 1),
		fdbEntry("aa:aa:aa:aa:aa:01", 1),
		fdbEntry("aa:aa:aa:aa:aa:02", 1),
		fdbEntry("aa:aa:aa:aa:aa:03", 4),
		fdbEntry("", 5),
	})

	require.Len(t, ports, 2)
	assert.Len(t, ports[1], 2)
	assert.Len(t, ports[4], 1)
}

func TestInferSwitchLinks(t *testing.T) {
	s1 := newSwitch("10.0.0.1", "00:00:00:00:01:00",
		map[int]string{1: "00:00:00:00:01:01", 2: "00:00:00:00:01:02"},
		fdbEntry("00:00:00:00:02:01", 1),
		fdbEntry("aa:aa:aa:aa:aa:01", 2),
	)
	s2 := newSwitch("10.0.0.2", "00:00:00:00:02:00",
		map[int]string{1: "00:00:00:00:02:01"},
		fdbEntry("00:00:00:00:01:02", 7),
	)
	// s3 sees s1, but s1 never learned any s3 address.
	s3 := newSwitch("10.0.0.3", "00:00:00:00:03:00",
		map[int]string{1: "00:00:00:00:03:01"},
		fdbEntry("00:00:00:00:01:01", 1),
	)

	t.Run("mutual visibility yields exactly one link", func(t *testing.T) {
		links := InferSwitchLinks([]*models.Device{s1, s2, s3})

		require.Len(t, links, 1)
		assert.Equal(t, models.NewLinkKey("10.0.0.1", "10.0.0.2"), links[0].Key())
		assert.Same(t, s1, links[0].Source)
		assert.Equal(t, 1, links[0].SourceIfIndex)
		assert.Equal(t, 7, links[0].TargetIfIndex)
	})

	t.Run("idempotent and order independent", func(t *testing.T) {
		first := InferSwitchLinks([]*models.Device{s1, s2, s3})
		second := InferSwitchLinks([]*models.Device{s1, s2, s3})
		reversed := InferSwitchLinks([]*models.Device{s3, s2, s1})

		assert.Equal(t, first, second)
		require.Len(t, reversed, 1)
		assert.Equal(t, first[0].Key(), reversed[0].Key())
	})

	t.Run("duplicate device entries do not duplicate links", func(t *testing.T) {
		links := InferSwitchLinks([]*models.Device{s1, s2, s2, s1})

		assert.Len(t, links, 1)
	})

	t.Run("synonyms are never endpoints", func(t *testing.T) {
		alias := *s2
		alias.IsSynonym = true

		assert.Empty(t, InferSwitchLinks([]*models.Device{s1, &alias}))
	})

	t.Run("switch without data is skipped", func(t *testing.T) {
		bare := &models.Device{IP: "10.0.0.4", Type: models.DeviceTypeSwitchL2}

		assert.Len(t, InferSwitchLinks([]*models.Device{bare, s1, s2}), 1)
	})
}

func TestHostLinker(t *testing.T) {
	const hostMAC = "aa:aa:aa:aa:aa:05"

	host := &models.Device{IP: "10.0.0.5", MAC: hostMAC, Type: models.DeviceTypeHost}

	// The uplink port of s1 carries the host together with the s2 address.
	s1 := newSwitch("10.0.0.1", "00:00:00:00:01:00", nil,
		fdbEntry("00:00:00:00:02:01", 1),
		fdbEntry(hostMAC, 1),
	)
	s2 := newSwitch("10.0.0.2", "00:00:00:00:02:00", nil,
		fdbEntry("00:00:00:00:01:01", 1),
		fdbEntry(hostMAC, 3),
	)
	s3 := newSwitch("10.0.0.3", "00:00:00:00:03:00", nil,
		fdbEntry(hostMAC, 9),
	)

	t.Run("shared ports are skipped", func(t *testing.T) {
		link, ok := InferHostLink(host, []*models.Device{s1, s2})

		require.True(t, ok)
		assert.Same(t, s2, link.Source)
		assert.Same(t, host, link.Target)
		assert.Equal(t, 3, link.SourceIfIndex)
	})

	t.Run("first qualifying switch wins", func(t *testing.T) {
		link, ok := InferHostLink(host, []*models.Device{s1, s3, s2})

		require.True(t, ok)
		assert.Same(t, s3, link.Source)
	})

	t.Run("only shared ports", func(t *testing.T) {
		_, ok := InferHostLink(host, []*models.Device{s1})

		assert.False(t, ok)
	})

	t.Run("never assigns a port shared by two MACs", func(t *testing.T) {
		hub := newSwitch("10.0.0.4", "00:00:00:00:04:00", nil,
			fdbEntry(hostMAC, 2),
			fdbEntry("bb:bb:bb:bb:bb:01", 2),
			fdbEntry("bb:bb:bb:bb:bb:02", 2),
		)
		linker := NewHostLinker([]*models.Device{hub, s1})

		_, ok := linker.Link(host)
		assert.False(t, ok)
	})

	t.Run("synonym hosts are not linked", func(t *testing.T) {
		alias := *host
		alias.IsSynonym = true

		_, ok := InferHostLink(&alias, []*models.Device{s2})
		assert.False(t, ok)
	})

	t.Run("switches are not hosts", func(t *testing.T) {
		_, ok := InferHostLink(s3, []*models.Device{s2})
		assert.False(t, ok)
	})
}

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
	"errors"
	"testing"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brotheri/core/pkg/snmp"
	"github.com/brotheri/core/pkg/snmp/snmptest"
)

func TestReadARP(t *testing.T) {
	agent := snmptest.NewAgent()

	addARP(agent, "10.2.0.10", []byte{0xaa, 0, 0, 0, 0, 0x10}, arpTypeDynamic)
	addARP(agent, "10.2.0.11", []byte{0xaa, 0, 0, 0, 0, 0x11}, arpTypeStatic)
	addARP(agent, "10.2.0.12", []byte{0xaa, 0, 0, 0, 0, 0x12}, 5)
	addARP(agent, "10.2.0.13", []byte{0xaa, 0, 0, 0, 0, 0x13}, 2)

	// Row without a hardware address.
	agent.SetCell(snmp.OIDIPNetToMediaTable, arpColNetAddress, "1.10.2.0.14", gosnmp.IPAddress, "10.2.0.14")
	agent.SetCell(snmp.OIDIPNetToMediaTable, arpColType, "1.10.2.0.14", gosnmp.Integer, arpTypeDynamic)

	// Row without a network address.
	agent.SetCell(snmp.OIDIPNetToMediaTable, arpColPhysAddress, "1.10.2.0.15", gosnmp.OctetString, []byte{0xaa, 0, 0, 0, 0, 0x15})
	agent.SetCell(snmp.OIDIPNetToMediaTable, arpColType, "1.10.2.0.15", gosnmp.Integer, arpTypeDynamic)

	// Same address learned on a second interface.
	agent.SetCell(snmp.OIDIPNetToMediaTable, arpColPhysAddress, "2.10.2.0.10", gosnmp.OctetString, []byte{0xaa, 0, 0, 0, 0, 0x99})
	agent.SetCell(snmp.OIDIPNetToMediaTable, arpColNetAddress, "2.10.2.0.10", gosnmp.IPAddress, "10.2.0.10")
	agent.SetCell(snmp.OIDIPNetToMediaTable, arpColType, "2.10.2.0.10", gosnmp.Integer, arpTypeDynamic)

	factory := snmptest.NewFactory()
	factory.Add("10.2.0.1", "public", agent)

	entries, err := readARP(context.Background(), factory.New("10.2.0.1", "public"))
	require.NoError(t, err)

	assert.Equal(t, []arpEntry{
		{IP: "10.2.0.10", MAC: "aa:00:00:00:00:10"},
		{IP: "10.2.0.11", MAC: "aa:00:00:00:00:11"},
	}, entries)
}

func TestReadARPFailure(t *testing.T) {
	errWalk := errors.New("walk aborted")

	factory := snmptest.NewFactory()
	factory.Add("10.2.0.1", "public", snmptest.NewAgent()).FailOn(snmp.OIDIPNetToMediaTable, errWalk)

	_, err := readARP(context.Background(), factory.New("10.2.0.1", "public"))
	require.ErrorIs(t, err, errWalk)
}

func TestEntryMAC(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(a *snmptest.Agent)
		expected string
	}{
		{
			name: "bridge address",
			setup: func(a *snmptest.Agent) {
				a.SetBytes(snmp.OIDDot1dBaseBridgeAddress, []byte{0, 0x10, 0, 0, 0, 1})
				addInterface(a, 1, "eth0", []byte{0, 0x20, 0, 0, 0, 1})
			},
			expected: "00:10:00:00:00:01",
		},
		{
			name: "lowest ethernet interface",
			setup: func(a *snmptest.Agent) {
				addInterface(a, 7, "eth6", []byte{0, 0x20, 0, 0, 0, 7})
				addInterface(a, 3, "eth2", []byte{0, 0x20, 0, 0, 0, 3})
				addInterface(a, 1, "lo", nil)
			},
			expected: "00:20:00:00:00:03",
		},
		{
			name:     "nothing to go on",
			setup:    func(*snmptest.Agent) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := snmptest.NewFactory()
			tt.setup(factory.Add("10.2.0.1", "public", snmptest.NewAgent()))

			assert.Equal(t, tt.expected, entryMAC(context.Background(), factory.New("10.2.0.1", "public")))
		})
	}
}

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

package snmp

// SNMPv2-MIB system group.
const (
	OIDSysDescr    = "1.3.6.1.2.1.1.1.0"
	OIDSysName     = "1.3.6.1.2.1.1.5.0"
	OIDSysServices = "1.3.6.1.2.1.1.7.0"
)

// Printer-MIB.
const (
	OIDPrtGeneralConfig = "1.3.6.1.2.1.43.5.1.1.1.1"
)

// BRIDGE-MIB and Q-BRIDGE-MIB.
const (
	OIDDot1dBaseBridgeAddress = "1.3.6.1.2.1.17.1.1.0"
	OIDDot1dBaseNumPorts      = "1.3.6.1.2.1.17.1.2.0"
	OIDDot1dBasePortTable     = "1.3.6.1.2.1.17.1.4"
	OIDDot1dTpFdbTable        = "1.3.6.1.2.1.17.4.3"
	OIDDot1qVlanStaticTable   = "1.3.6.1.2.1.17.7.1.4.3"
	OIDDot1qTpFdbTable        = "1.3.6.1.2.1.17.7.1.2.2"
)

// IF-MIB.
const (
	OIDIfTable           = "1.3.6.1.2.1.2.2"
	OIDIfInOctets        = "1.3.6.1.2.1.2.2.1.10"
	OIDIfOutOctets       = "1.3.6.1.2.1.2.2.1.16"
	OIDIfHCInOctets      = "1.3.6.1.2.1.31.1.1.1.6"
	OIDIfHCOutOctets     = "1.3.6.1.2.1.31.1.1.1.10"
	OIDIfTableLastChange = "1.3.6.1.2.1.31.1.5.0"
)

// IP-MIB.
const (
	OIDIPAddrTable       = "1.3.6.1.2.1.4.20"
	OIDIPAdEntAddr       = "1.3.6.1.2.1.4.20.1.1"
	OIDIPNetToMediaTable = "1.3.6.1.2.1.4.22"
)

// HOST-RESOURCES-MIB.
const (
	OIDHrSystemUptime     = "1.3.6.1.2.1.25.1.1.0"
	OIDHrMemorySize       = "1.3.6.1.2.1.25.2.2.0"
	OIDHrStorageTable     = "1.3.6.1.2.1.25.2.3"
	OIDHrSWRunTable       = "1.3.6.1.2.1.25.4.2"
	OIDHrSWRunPerfTable   = "1.3.6.1.2.1.25.5.1"
	OIDHrSWInstalledTable = "1.3.6.1.2.1.25.6.3"
	OIDHrStorageFixedDisk = "1.3.6.1.2.1.25.2.1.4"
)

// CISCO-VTP-MIB.
const (
	OIDCiscoVtpVlanTable = "1.3.6.1.4.1.9.9.46.1.3.1"
)

// ifType value for ethernetCsmacd.
const IfTypeEthernet = 6

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

package bandwidth

import (
	"math"
	"strconv"

	"github.com/brotheri/core/pkg/snmp"
)

// CounterWidth is the bit width of an interface octet counter.
type CounterWidth int

const (
	Counter32 CounterWidth = 32
	Counter64 CounterWidth = 64
)

// Max is the largest value a counter of this width holds before wrapping.
func (w CounterWidth) Max() uint64 {
	if w == Counter64 {
		return math.MaxUint64
	}

	return math.MaxUint32
}

// CounterDelta returns the octets counted between two reads of the same
// counter, assuming at most one wrap in between.
func CounterDelta(first, second uint64, width CounterWidth) uint64 {
	if second >= first {
		return second - first
	}

	return width.Max() - first + second + 1
}

// counterOIDs returns the in/out octet instances for ifIndex, using the
// 64-bit ifXTable counters when the switch has them.
func counterOIDs(supportHC bool, ifIndex int) (in, out string, width CounterWidth) {
	suffix := "." + strconv.Itoa(ifIndex)

	if supportHC {
		return snmp.OIDIfHCInOctets + suffix, snmp.OIDIfHCOutOctets + suffix, Counter64
	}

	return snmp.OIDIfInOctets + suffix, snmp.OIDIfOutOctets + suffix, Counter32
}

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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterDelta(t *testing.T) {
	tests := []struct {
		name          string
		first, second uint64
		width         CounterWidth
		expected      uint64
	}{
		{"steady", 1000, 1500, Counter32, 500},
		{"unchanged", 42, 42, Counter32, 0},
		{"32-bit wrap", 4294967290, 5, Counter32, 11},
		{"32-bit wrap to zero", math.MaxUint32, 0, Counter32, 1},
		{"64-bit steady", 1 << 40, 1<<40 + 1000, Counter64, 1000},
		{"64-bit wrap", math.MaxUint64 - 9, 10, Counter64, 20},
		{"64-bit wrap to zero", math.MaxUint64, 0, Counter64, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CounterDelta(tt.first, tt.second, tt.width))
		})
	}
}

func TestCounterOIDs(t *testing.T) {
	in, out, width := counterOIDs(false, 7)
	assert.Equal(t, "1.3.6.1.2.1.2.2.1.10.7", in)
	assert.Equal(t, "1.3.6.1.2.1.2.2.1.16.7", out)
	assert.Equal(t, Counter32, width)

	in, out, width = counterOIDs(true, 12)
	assert.Equal(t, "1.3.6.1.2.1.31.1.1.1.6.12", in)
	assert.Equal(t, "1.3.6.1.2.1.31.1.1.1.10.12", out)
	assert.Equal(t, Counter64, width)
}

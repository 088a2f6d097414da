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

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gosnmp/gosnmp"
)

const macByteLength = 6

// Variable is one decoded varbind.
type Variable struct {
	OID   string
	Type  gosnmp.Asn1BER
	Value interface{}
}

// FromPDU converts a gosnmp PDU, dropping the leading dot of the name.
func FromPDU(pdu gosnmp.SnmpPDU) Variable {
	return Variable{
		OID:   strings.TrimPrefix(pdu.Name, "."),
		Type:  pdu.Type,
		Value: pdu.Value,
	}
}

// IsMissing reports whether the agent answered without a value.
func (v Variable) IsMissing() bool {
	switch v.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return true
	default:
		return v.Value == nil
	}
}

// Bytes returns the raw octets of string-like values.
func (v Variable) Bytes() []byte {
	switch value := v.Value.(type) {
	case []byte:
		return value
	case string:
		return []byte(value)
	default:
		return nil
	}
}

func (v Variable) String() string {
	switch value := v.Value.(type) {
	case []byte:
		return string(value)
	case string:
		return value
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}

// Int returns numeric values as int; non-numeric values yield 0.
func (v Variable) Int() int {
	switch value := v.Value.(type) {
	case int:
		return value
	case uint:
		return int(value)
	case uint32:
		return int(value)
	case int64:
		return int(value)
	case uint64:
		return int(value)
	}

	if v.IsMissing() {
		return 0
	}

	return int(gosnmp.ToBigInt(v.Value).Int64())
}

// Uint64 returns counters, including Counter64, as uint64.
func (v Variable) Uint64() uint64 {
	switch value := v.Value.(type) {
	case uint64:
		return value
	case uint:
		return uint64(value)
	case uint32:
		return uint64(value)
	case int:
		if value < 0 {
			return 0
		}

		return uint64(value)
	case []byte:
		// Some agents hand Counter64 back as an 8-byte big-endian string.
		var out uint64
		for _, b := range value {
			out = out<<8 | uint64(b)
		}

		return out
	}

	if v.IsMissing() {
		return 0
	}

	return gosnmp.ToBigInt(v.Value).Uint64()
}

// MAC formats a 6-byte octet string as aa:bb:cc:dd:ee:ff.
func (v Variable) MAC() string {
	return FormatMAC(v.Bytes())
}

// FormatMAC formats a 6-byte hardware address in lowercase colon notation.
// Any other length yields an empty string.
func FormatMAC(mac []byte) string {
	if len(mac) != macByteLength {
		return ""
	}

	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])
}

// Row is one table row keyed by column number.
type Row map[int]Variable

// Table maps a row index (the OID suffix after the column) to its row.
type Table map[string]Row

// SortedIndexes returns the row indexes in OID order.
func (t Table) SortedIndexes() []string {
	out := make([]string, 0, len(t))
	for index := range t {
		out = append(out, index)
	}

	sort.Slice(out, func(i, j int) bool {
		return CompareOIDs(out[i], out[j]) < 0
	})

	return out
}

// BuildTable groups walked variables of tableOID into rows. When columns is
// non-empty, other columns are ignored.
func BuildTable(tableOID string, columns []int, vars []Variable) Table {
	prefix := strings.TrimPrefix(tableOID, ".") + ".1."

	var wanted map[int]struct{}
	if len(columns) > 0 {
		wanted = make(map[int]struct{}, len(columns))
		for _, c := range columns {
			wanted[c] = struct{}{}
		}
	}

	table := make(Table)

	for _, v := range vars {
		if !strings.HasPrefix(v.OID, prefix) || v.IsMissing() {
			continue
		}

		rest := v.OID[len(prefix):]

		dot := strings.IndexByte(rest, '.')
		if dot <= 0 || dot == len(rest)-1 {
			continue
		}

		column, err := strconv.Atoi(rest[:dot])
		if err != nil {
			continue
		}

		if wanted != nil {
			if _, ok := wanted[column]; !ok {
				continue
			}
		}

		index := rest[dot+1:]

		row, ok := table[index]
		if !ok {
			row = make(Row)
			table[index] = row
		}

		row[column] = v
	}

	return table
}

// CompareOIDs orders dotted OIDs numerically component by component.
func CompareOIDs(a, b string) int {
	as := strings.Split(strings.TrimPrefix(a, "."), ".")
	bs := strings.Split(strings.TrimPrefix(b, "."), ".")

	for i := 0; i < len(as) && i < len(bs); i++ {
		ai, errA := strconv.Atoi(as[i])
		bi, errB := strconv.Atoi(bs[i])

		if errA != nil || errB != nil {
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}

			continue
		}

		if ai != bi {
			if ai < bi {
				return -1
			}

			return 1
		}
	}

	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}

// HasOIDPrefix reports whether oid lies inside the subtree rooted at prefix.
func HasOIDPrefix(oid, prefix string) bool {
	oid = strings.TrimPrefix(oid, ".")
	prefix = strings.TrimPrefix(prefix, ".")

	if !strings.HasPrefix(oid, prefix) {
		return false
	}

	return len(oid) == len(prefix) || oid[len(prefix)] == '.'
}

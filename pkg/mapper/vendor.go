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
	"strings"

	"github.com/endobit/oui"
)

const unknownVendor = "Unknown Device"

type ouiVendors struct{}

// NewVendorLookup returns a lookup backed by the IEEE OUI registry.
func NewVendorLookup() VendorLookup {
	return ouiVendors{}
}

// Vendor returns the first line of the registered organization name.
func (ouiVendors) Vendor(mac string) string {
	if mac == "" {
		return unknownVendor
	}

	return firstLine(oui.Vendor(strings.ToLower(mac)))
}

func firstLine(vendor string) string {
	if i := strings.IndexAny(vendor, "\r\n"); i >= 0 {
		vendor = vendor[:i]
	}

	vendor = strings.TrimSpace(vendor)
	if vendor == "" {
		return unknownVendor
	}

	return vendor
}

func isCiscoVendor(vendor string) bool {
	return strings.Contains(strings.ToLower(vendor), "cisco")
}

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

// Package snmp is the only way the crawler talks to devices: SNMP v2c
// sessions, table assembly and community probing.
package snmp

import "context"

//go:generate mockgen -destination=mock_snmp.go -package=snmp github.com/brotheri/core/pkg/snmp Session,SessionFactory

// Session is one SNMP v2c conversation with a single (ip, community) pair.
// A failed call returns no partial data.
type Session interface {
	Target() string
	Community() string
	Get(ctx context.Context, oids ...string) ([]Variable, error)
	Walk(ctx context.Context, oid string) ([]Variable, error)
	Table(ctx context.Context, oid string, columns ...int) (Table, error)
}

// SessionFactory creates sessions. Changing the community, including the
// per-VLAN community@vlan form, always goes through the factory.
type SessionFactory interface {
	New(ip, community string) Session
	NewProbe(ip, community string) Session
}

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

// Package snmptest provides an in-memory SNMP agent for exercising code that
// talks to devices through snmp.Session.
package snmptest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gosnmp/gosnmp"

	"github.com/brotheri/core/pkg/snmp"
)

var ErrUnreachable = errors.New("simulated agent timeout")

// Agent is a static MIB view.
type Agent struct {
	mu   sync.RWMutex
	vars map[string]snmp.Variable
	fail map[string]error
}

// NewAgent returns an agent with an empty MIB.
func NewAgent() *Agent {
	return &Agent{
		vars: make(map[string]snmp.Variable),
		fail: make(map[string]error),
	}
}

// Set stores one variable.
func (a *Agent) Set(oid string, typ gosnmp.Asn1BER, value interface{}) *Agent {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.vars[oid] = snmp.Variable{OID: oid, Type: typ, Value: value}

	return a
}

func (a *Agent) SetString(oid, value string) *Agent {
	return a.Set(oid, gosnmp.OctetString, []byte(value))
}

func (a *Agent) SetInt(oid string, value int) *Agent {
	return a.Set(oid, gosnmp.Integer, value)
}

func (a *Agent) SetBytes(oid string, value []byte) *Agent {
	return a.Set(oid, gosnmp.OctetString, value)
}

// SetCell stores a table cell at <table>.1.<column>.<index>.
func (a *Agent) SetCell(table string, column int, index string, typ gosnmp.Asn1BER, value interface{}) *Agent {
	return a.Set(fmt.Sprintf("%s.1.%d.%s", table, column, index), typ, value)
}

// FailOn makes every request under the given subtree return err.
func (a *Agent) FailOn(oid string, err error) *Agent {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.fail[oid] = err

	return a
}

func (a *Agent) failure(oid string) error {
	for prefix, err := range a.fail {
		if snmp.HasOIDPrefix(oid, prefix) {
			return err
		}
	}

	return nil
}

func (a *Agent) get(oids []string) ([]snmp.Variable, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]snmp.Variable, 0, len(oids))

	for _, oid := range oids {
		if err := a.failure(oid); err != nil {
			return nil, err
		}

		v, ok := a.vars[oid]
		if !ok {
			v = snmp.Variable{OID: oid, Type: gosnmp.NoSuchObject}
		}

		out = append(out, v)
	}

	return out, nil
}

func (a *Agent) walk(root string) ([]snmp.Variable, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if err := a.failure(root); err != nil {
		return nil, err
	}

	var out []snmp.Variable

	for oid, v := range a.vars {
		if snmp.HasOIDPrefix(oid, root) {
			out = append(out, v)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return snmp.CompareOIDs(out[i].OID, out[j].OID) < 0
	})

	return out, nil
}

type session struct {
	target    string
	community string
	agent     *Agent
}

var _ snmp.Session = (*session)(nil)

func (s *session) Target() string    { return s.target }
func (s *session) Community() string { return s.community }

func (s *session) Get(ctx context.Context, oids ...string) ([]snmp.Variable, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	return s.agent.get(oids)
}

func (s *session) Walk(ctx context.Context, oid string) ([]snmp.Variable, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	return s.agent.walk(oid)
}

func (s *session) Table(ctx context.Context, oid string, columns ...int) (snmp.Table, error) {
	vars, err := s.Walk(ctx, oid)
	if err != nil {
		return nil, err
	}

	return snmp.BuildTable(oid, columns, vars), nil
}

func (s *session) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.agent == nil {
		return fmt.Errorf("%w %s: %w", snmp.ErrSNMPConnect, s.target, ErrUnreachable)
	}

	return nil
}

// Factory hands out sessions backed by agents registered per (ip, community).
// Unknown pairs behave like an agent that never answers.
type Factory struct {
	mu     sync.Mutex
	agents map[string]*Agent
	opened []string
}

var _ snmp.SessionFactory = (*Factory)(nil)

func NewFactory() *Factory {
	return &Factory{agents: make(map[string]*Agent)}
}

func key(ip, community string) string {
	return ip + "|" + community
}

// Add registers agent for (ip, community) and returns it.
func (f *Factory) Add(ip, community string, agent *Agent) *Agent {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.agents[key(ip, community)] = agent

	return agent
}

func (f *Factory) New(ip, community string) snmp.Session {
	return f.open(ip, community)
}

func (f *Factory) NewProbe(ip, community string) snmp.Session {
	return f.open(ip, community)
}

func (f *Factory) open(ip, community string) snmp.Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := key(ip, community)
	f.opened = append(f.opened, k)

	return &session{target: ip, community: community, agent: f.agents[k]}
}

// Opened reports whether a session was ever created for (ip, community).
func (f *Factory) Opened(ip, community string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := key(ip, community)
	for _, o := range f.opened {
		if o == k {
			return true
		}
	}

	return false
}

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
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/brotheri/core/pkg/models"
)

// SessionConfig holds the transport settings of a session.
type SessionConfig struct {
	Port           uint16
	Timeout        time.Duration
	Retries        int
	MaxRepetitions uint32
}

type session struct {
	target    string
	community string
	cfg       SessionConfig
}

var _ Session = (*session)(nil)

// NewSession returns a session for (ip, community). No socket is held
// between calls; each call dials its own UDP conversation.
func NewSession(ip, community string, cfg SessionConfig) Session {
	return &session{target: ip, community: community, cfg: cfg}
}

func (s *session) Target() string    { return s.target }
func (s *session) Community() string { return s.community }

func (s *session) connect(ctx context.Context) (*gosnmp.GoSNMP, error) {
	client := &gosnmp.GoSNMP{
		Target:             s.target,
		Port:               s.cfg.Port,
		Community:          s.community,
		Version:            gosnmp.Version2c,
		Timeout:            s.cfg.Timeout,
		Retries:            s.cfg.Retries,
		MaxOids:            gosnmp.MaxOids,
		MaxRepetitions:     s.cfg.MaxRepetitions,
		ExponentialTimeout: false,
		Context:            ctx,
	}

	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrSNMPConnect, s.target, err)
	}

	return client, nil
}

func (s *session) Get(ctx context.Context, oids ...string) ([]Variable, error) {
	client, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Conn.Close() }()

	result, err := client.Get(oids)
	if err != nil {
		return nil, fmt.Errorf("%w %w", ErrSNMPGetFailed, err)
	}

	if result.Error != gosnmp.NoError {
		return nil, fmt.Errorf("%w %s", ErrSNMPError, result.Error)
	}

	vars := make([]Variable, 0, len(result.Variables))
	for _, pdu := range result.Variables {
		vars = append(vars, FromPDU(pdu))
	}

	return vars, nil
}

func (s *session) Walk(ctx context.Context, oid string) ([]Variable, error) {
	client, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Conn.Close() }()

	var vars []Variable

	err = client.BulkWalk(oid, func(pdu gosnmp.SnmpPDU) error {
		vars = append(vars, FromPDU(pdu))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrSNMPWalkFailed, oid, err)
	}

	return vars, nil
}

func (s *session) Table(ctx context.Context, oid string, columns ...int) (Table, error) {
	if len(columns) == 0 {
		vars, err := s.Walk(ctx, oid)
		if err != nil {
			return nil, err
		}

		return BuildTable(oid, nil, vars), nil
	}

	var vars []Variable

	for _, column := range columns {
		walked, err := s.Walk(ctx, oid+".1."+strconv.Itoa(column))
		if err != nil {
			return nil, err
		}

		vars = append(vars, walked...)
	}

	return BuildTable(oid, columns, vars), nil
}

// GetOne fetches a single scalar and treats an absent value as an error.
func GetOne(ctx context.Context, s Session, oid string) (Variable, error) {
	vars, err := s.Get(ctx, oid)
	if err != nil {
		return Variable{}, err
	}

	if len(vars) == 0 {
		return Variable{}, ErrNoSNMPDataFound
	}

	if vars[0].IsMissing() {
		return Variable{}, fmt.Errorf("%w: %s", ErrNoSuchObject, oid)
	}

	return vars[0], nil
}

// VLANCommunity is the community string that selects a per-VLAN agent context.
func VLANCommunity(community, vlanID string) string {
	return community + "@" + vlanID
}

type sessionFactory struct {
	general SessionConfig
	probe   SessionConfig
}

// NewSessionFactory builds general and probe sessions from the SNMP settings.
func NewSessionFactory(cfg *models.SNMPConfig) SessionFactory {
	general := SessionConfig{
		Port:           cfg.Port,
		Timeout:        time.Duration(cfg.Timeout),
		Retries:        cfg.Retries,
		MaxRepetitions: cfg.MaxRepetitions,
	}

	probe := general
	probe.Timeout = time.Duration(cfg.ProbeTimeout)

	return &sessionFactory{general: general, probe: probe}
}

func (f *sessionFactory) New(ip, community string) Session {
	return NewSession(ip, community, f.general)
}

func (f *sessionFactory) NewProbe(ip, community string) Session {
	return NewSession(ip, community, f.probe)
}

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
	"errors"
	"fmt"

	"github.com/brotheri/core/pkg/logger"
)

// Attempt is one contender in a Race.
type Attempt[T any] func(ctx context.Context) (T, error)

type raceResult[T any] struct {
	value T
	err   error
}

// Race runs every attempt concurrently and returns the first success. The
// context handed to the losers is cancelled as soon as a winner is known.
// If every attempt fails the individual errors are joined.
func Race[T any](ctx context.Context, attempts ...Attempt[T]) (T, error) {
	var zero T

	if len(attempts) == 0 {
		return zero, ErrNoAttempts
	}

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan raceResult[T], len(attempts))

	for _, attempt := range attempts {
		go func(attempt Attempt[T]) {
			value, err := attempt(raceCtx)
			results <- raceResult[T]{value: value, err: err}
		}(attempt)
	}

	errs := make([]error, 0, len(attempts))

	for range attempts {
		select {
		case res := <-results:
			if res.err == nil {
				return res.value, nil
			}

			errs = append(errs, res.err)
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, errors.Join(errs...)
}

// Prober finds a working community string for a device.
type Prober struct {
	factory SessionFactory
	logger  logger.Logger
}

// NewProber returns a prober that opens short-timeout probe sessions.
func NewProber(factory SessionFactory, log logger.Logger) *Prober {
	return &Prober{factory: factory, logger: log}
}

// Probe races a sysName GET across every candidate community and returns
// the first one the agent answers to.
func (p *Prober) Probe(ctx context.Context, ip string, communities []string) (string, error) {
	if len(communities) == 0 {
		return "", ErrNoCommunities
	}

	attempts := make([]Attempt[string], 0, len(communities))

	for _, community := range communities {
		attempts = append(attempts, func(ctx context.Context) (string, error) {
			sess := p.factory.NewProbe(ip, community)

			if _, err := GetOne(ctx, sess, OIDSysName); err != nil {
				return "", err
			}

			return community, nil
		})
	}

	community, err := Race(ctx, attempts...)
	if err != nil {
		p.logger.Debug().Str("device_ip", ip).Int("candidates", len(communities)).Msg("no community answered")

		return "", fmt.Errorf("%w: %s: %w", ErrNotReachable, ip, err)
	}

	return community, nil
}

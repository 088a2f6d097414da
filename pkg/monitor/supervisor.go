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

package monitor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brotheri/core/pkg/logger"
)

const (
	controlBuffer          = 4
	defaultFallbackTimeout = 10 * time.Second
)

// Supervisor keeps exactly one worker alive. When the worker returns or
// panics before Stop, a replacement is spawned at once and sent START.
type Supervisor struct {
	factory  func() Runner
	logger   logger.Logger
	recorder Recorder

	mu       sync.Mutex
	started  bool
	stopping bool
	control  chan Command
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once

	restarts atomic.Int64
}

// SupervisorOption customises a Supervisor.
type SupervisorOption func(*Supervisor)

// WithRestartRecorder reports each respawn to r.
func WithRestartRecorder(r Recorder) SupervisorOption {
	return func(s *Supervisor) { s.recorder = r }
}

// NewSupervisor returns a supervisor creating workers with factory.
func NewSupervisor(factory func() Runner, log logger.Logger, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		factory:  factory,
		logger:   log,
		recorder: noopRecorder{},
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start spawns the first worker and sends it START.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go s.loop(runCtx)

	s.logger.Info().Msg("Monitoring supervisor started")

	return nil
}

// Stop sends STOP to the current worker, closes its control channel and
// waits for it to exit.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}

	s.stopping = true
	control := s.control
	s.mu.Unlock()

	s.stopOnce.Do(func() {
		if control == nil {
			return
		}

		select {
		case control <- CommandStop:
		default:
			s.logger.Warn().Msg("Control channel full, closing without STOP")
		}

		close(control)
	})

	defer s.cancel()

	select {
	case <-s.done:
		s.logger.Info().Int64("restarts", s.restarts.Load()).Msg("Monitoring supervisor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(defaultFallbackTimeout):
		return ErrStopTimeout
	}
}

// Restarts is the number of workers spawned to replace a dead one.
func (s *Supervisor) Restarts() int64 {
	return s.restarts.Load()
}

func (s *Supervisor) loop(ctx context.Context) {
	defer close(s.done)

	for {
		control := make(chan Command, controlBuffer)
		control <- CommandStart

		s.mu.Lock()
		if s.stopping {
			s.mu.Unlock()
			return
		}

		s.control = control
		s.mu.Unlock()

		err := s.run(ctx, s.factory(), control)

		if ctx.Err() != nil || s.isStopping() {
			return
		}

		s.restarts.Add(1)
		s.recorder.WorkerRestarted()

		s.logger.Error().Err(err).Int64("restarts", s.restarts.Load()).Msg("Monitoring worker died, respawning")
	}
}

func (s *Supervisor) run(ctx context.Context, worker Runner, control <-chan Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrWorkerCrashed, r)
		}
	}()

	return worker.Run(ctx, control)
}

func (s *Supervisor) isStopping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stopping
}

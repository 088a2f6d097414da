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
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brotheri/core/pkg/logger"
)

type fakeRunner struct {
	mu       sync.Mutex
	commands []Command
	onStart  func() error
}

func (f *fakeRunner) Run(ctx context.Context, control <-chan Command) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd, ok := <-control:
			if !ok {
				return nil
			}

			f.mu.Lock()
			f.commands = append(f.commands, cmd)
			f.mu.Unlock()

			if cmd == CommandStart && f.onStart != nil {
				if err := f.onStart(); err != nil {
					return err
				}
			}
		}
	}
}

func (f *fakeRunner) received() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]Command(nil), f.commands...)
}

type runnerQueue struct {
	mu      sync.Mutex
	runners []*fakeRunner
	spawned int
}

func (q *runnerQueue) next() Runner {
	q.mu.Lock()
	defer q.mu.Unlock()

	r := q.runners[q.spawned]
	q.spawned++

	return r
}

func (q *runnerQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.spawned
}

type restartCounter struct {
	n atomic.Int32
}

func (r *restartCounter) WorkerRestarted() { r.n.Add(1) }

func TestSupervisorRespawnsDeadWorkers(t *testing.T) {
	failing := &fakeRunner{onStart: func() error { return errors.New("session pool exhausted") }}
	panicking := &fakeRunner{onStart: func() error { panic("index out of range") }}
	healthy := &fakeRunner{}

	queue := &runnerQueue{runners: []*fakeRunner{failing, panicking, healthy}}
	restarts := &restartCounter{}

	sup := NewSupervisor(queue.next, logger.NewTestLogger(), WithRestartRecorder(restarts))

	require.NoError(t, sup.Start(context.Background()))
	require.ErrorIs(t, sup.Start(context.Background()), ErrAlreadyStarted)

	require.Eventually(t, func() bool {
		return len(healthy.received()) == 1
	}, waitFor, tick)

	assert.Equal(t, 3, queue.count())
	assert.Equal(t, int64(2), sup.Restarts())
	assert.Equal(t, int32(2), restarts.n.Load())

	// Every replacement was sent START.
	assert.Equal(t, []Command{CommandStart}, failing.received())
	assert.Equal(t, []Command{CommandStart}, panicking.received())

	require.NoError(t, sup.Stop(context.Background()))

	assert.Equal(t, []Command{CommandStart, CommandStop}, healthy.received())
	assert.Equal(t, 3, queue.count())
}

func TestSupervisorStopsWithParentContext(t *testing.T) {
	healthy := &fakeRunner{}
	queue := &runnerQueue{runners: []*fakeRunner{healthy}}

	ctx, cancel := context.WithCancel(context.Background())

	sup := NewSupervisor(queue.next, logger.NewTestLogger())
	require.NoError(t, sup.Start(ctx))

	require.Eventually(t, func() bool { return len(healthy.received()) == 1 }, waitFor, tick)

	cancel()

	select {
	case <-sup.done:
	case <-time.After(waitFor):
		t.Fatal("supervisor loop did not exit")
	}

	assert.Equal(t, 1, queue.count())
	require.NoError(t, sup.Stop(context.Background()))
}

func TestSupervisorStopBeforeStart(t *testing.T) {
	sup := NewSupervisor(func() Runner { return &fakeRunner{} }, logger.NewTestLogger())

	require.NoError(t, sup.Stop(context.Background()))
}

func TestSupervisorRunsRealWorker(t *testing.T) {
	var sampler countingTask

	factory, err := NewWorkerFactory([]Task{sampler.task("bandwidth", time.Hour)}, logger.NewTestLogger())
	require.NoError(t, err)

	sup := NewSupervisor(factory, logger.NewTestLogger())
	require.NoError(t, sup.Start(context.Background()))

	require.Eventually(t, func() bool { return sampler.runs.Load() == 1 }, waitFor, tick)

	require.NoError(t, sup.Stop(context.Background()))
	assert.Zero(t, sup.Restarts())
}

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
	"time"

	"github.com/brotheri/core/pkg/bandwidth"
	"github.com/brotheri/core/pkg/hostmon"
	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/models"
)

// sampleSlack separates consecutive sampling rounds so the previous round's
// writes have landed before the next one starts.
const sampleSlack = 50 * time.Millisecond

// Task is one periodic job of the worker. It runs once on START and then
// every Interval until STOP.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Tasks assembles the standard monitoring tasks.
func Tasks(cfg *models.MonitorConfig, sampler *bandwidth.Sampler, quota *bandwidth.QuotaChecker, hosts *hostmon.Monitor) []Task {
	return []Task{
		{
			Name:     "bandwidth",
			Interval: sampler.Interval() + sampleSlack,
			Run:      sampler.SampleAll,
		},
		{
			Name:     "quota",
			Interval: time.Duration(cfg.QuotaInterval),
			Run: func(ctx context.Context) error {
				_, err := quota.Check(ctx)
				return err
			},
		},
		{
			Name:     "host-resources",
			Interval: hosts.Interval(),
			Run:      hosts.CollectAll,
		},
	}
}

// Worker runs its tasks while started.
type Worker struct {
	tasks  []Task
	logger logger.Logger
}

var _ Runner = (*Worker)(nil)

// NewWorkerFactory validates tasks and returns a constructor for fresh
// workers sharing them.
func NewWorkerFactory(tasks []Task, log logger.Logger) (func() Runner, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}

	for _, task := range tasks {
		if task.Interval <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, task.Name)
		}
	}

	return func() Runner {
		return &Worker{tasks: tasks, logger: log}
	}, nil
}

// Run processes control commands until control is closed or ctx is done. A
// panicking task takes the whole worker down with ErrWorkerCrashed.
func (w *Worker) Run(ctx context.Context, control <-chan Command) error {
	var (
		wg     sync.WaitGroup
		cancel context.CancelFunc
	)

	crashed := make(chan error, len(w.tasks))

	stopTasks := func() {
		if cancel == nil {
			return
		}

		cancel()
		wg.Wait()

		cancel = nil
	}
	defer stopTasks()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-crashed:
			return err
		case cmd, ok := <-control:
			if !ok {
				return nil
			}

			switch cmd {
			case CommandStart:
				if cancel != nil {
					w.logger.Debug().Msg("Monitoring already running")
					break
				}

				var taskCtx context.Context

				taskCtx, cancel = context.WithCancel(ctx)

				for _, task := range w.tasks {
					wg.Add(1)

					go func() {
						defer wg.Done()
						w.runTask(taskCtx, task, crashed)
					}()
				}

				w.logger.Info().Int("tasks", len(w.tasks)).Msg("Monitoring started")
			case CommandStop:
				if cancel == nil {
					break
				}

				stopTasks()
				w.logger.Info().Msg("Monitoring stopped")
			default:
				w.logger.Warn().Str("command", string(cmd)).Msg("Ignoring unknown monitoring command")
			}
		}
	}
}

func (w *Worker) runTask(ctx context.Context, task Task, crashed chan<- error) {
	defer func() {
		if r := recover(); r != nil {
			crashed <- fmt.Errorf("%w: task %s: %v", ErrWorkerCrashed, task.Name, r)
		}
	}()

	w.runOnce(ctx, task)

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runOnce(ctx, task)
		}
	}
}

func (w *Worker) runOnce(ctx context.Context, task Task) {
	start := time.Now()

	if err := task.Run(ctx); err != nil && ctx.Err() == nil {
		w.logger.Warn().Err(err).Str("task", task.Name).Msg("Monitoring task failed")
		return
	}

	w.logger.Trace().Str("task", task.Name).Dur("duration", time.Since(start)).Msg("Monitoring task finished")
}

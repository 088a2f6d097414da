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

// Package monitor runs the periodic monitoring tasks (bandwidth sampling,
// quota checks, host resources) in a worker controlled by START and STOP
// commands, under a supervisor that replaces the worker whenever it dies.
package monitor

import (
	"context"
	"errors"
)

var (
	ErrWorkerCrashed   = errors.New("monitoring worker crashed")
	ErrInvalidInterval = errors.New("task interval must be positive")
	ErrNoTasks         = errors.New("no monitoring tasks configured")
	ErrStopTimeout     = errors.New("timed out waiting for monitoring worker to stop")
	ErrAlreadyStarted  = errors.New("supervisor already started")
)

// Command is a control message for a worker.
type Command string

const (
	CommandStart Command = "START"
	CommandStop  Command = "STOP"
)

// Runner is a worker process. Run returns when control is closed or ctx is
// done; any other return is treated as a crash by the Supervisor.
type Runner interface {
	Run(ctx context.Context, control <-chan Command) error
}

// Recorder receives supervisor events.
type Recorder interface {
	WorkerRestarted()
}

type noopRecorder struct{}

func (noopRecorder) WorkerRestarted() {}

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

package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the structured logger handed to every component of the crawler.
// Event keys are snake_case, e.g. device_ip, switch_ip and scan_id.
type Logger interface {
	Trace() *zerolog.Event
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	Fatal() *zerolog.Event
	Panic() *zerolog.Event
	With() zerolog.Context
	WithComponent(component string) zerolog.Logger
	WithFields(fields map[string]interface{}) zerolog.Logger
	SetLevel(level zerolog.Level)
	SetDebug(debug bool)
}

var _ Logger = (*zerologLogger)(nil)

// NewWriterLogger logs JSON events at or above level to w, without timestamps.
func NewWriterLogger(w io.Writer, level zerolog.Level) Logger {
	return &zerologLogger{logger: zerolog.New(w).Level(level)}
}

// NewTestLogger returns a Logger that discards everything.
func NewTestLogger() Logger {
	return NewWriterLogger(io.Discard, zerolog.Disabled)
}

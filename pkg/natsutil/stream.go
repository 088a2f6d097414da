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

package natsutil

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type streamManager interface {
	Stream(ctx context.Context, stream string) (jetstream.Stream, error)
	CreateOrUpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// ensureStream creates the stream, or widens an existing one so that it
// captures subject.
func ensureStream(ctx context.Context, js streamManager, name, subject string) error {
	stream, err := js.Stream(ctx, name)

	switch {
	case err == nil:
		cfg := stream.CachedInfo().Config

		subjects := ensureSubjectList(append([]string(nil), cfg.Subjects...), subject)
		if len(subjects) == len(cfg.Subjects) {
			return nil
		}

		cfg.Subjects = subjects

		if _, err := js.CreateOrUpdateStream(ctx, cfg); err != nil {
			return fmt.Errorf("failed to update stream %s: %w", name, err)
		}

		return nil
	case isStreamMissingErr(err):
		cfg := jetstream.StreamConfig{Name: name, Subjects: []string{subject}}

		if _, err := js.CreateOrUpdateStream(ctx, cfg); err != nil {
			return fmt.Errorf("failed to create stream %s: %w", name, err)
		}

		return nil
	default:
		return fmt.Errorf("failed to look up stream %s: %w", name, err)
	}
}

// ensureSubjectList appends subject unless an existing pattern already covers it.
func ensureSubjectList(subjects []string, subject string) []string {
	for _, pattern := range subjects {
		if matchesSubject(pattern, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject applies NATS wildcard rules: "*" matches one token, a
// trailing ">" matches one or more.
func matchesSubject(pattern, subject string) bool {
	pt := strings.Split(pattern, ".")
	st := strings.Split(subject, ".")

	for i, token := range pt {
		if token == ">" {
			return i == len(pt)-1 && len(st) > i
		}

		if i >= len(st) {
			return false
		}

		if token != "*" && token != st[i] {
			return false
		}
	}

	return len(pt) == len(st)
}

func isStreamMissingErr(err error) bool {
	return errors.Is(err, jetstream.ErrStreamNotFound) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrStreamNotFound) ||
		errors.Is(err, nats.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrNoResponders)
}

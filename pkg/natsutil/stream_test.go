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
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTestFixture = errors.New("permissions violation")

// fakeStream only answers CachedInfo; any other call panics.
type fakeStream struct {
	jetstream.Stream
	info *jetstream.StreamInfo
}

func (s fakeStream) CachedInfo() *jetstream.StreamInfo {
	return s.info
}

type fakeStreams struct {
	existing  *jetstream.StreamInfo
	lookupErr error
	saved     []jetstream.StreamConfig
	saveErr   error
}

func (f *fakeStreams) Stream(_ context.Context, _ string) (jetstream.Stream, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}

	return fakeStream{info: f.existing}, nil
}

func (f *fakeStreams) CreateOrUpdateStream(_ context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	f.saved = append(f.saved, cfg)

	if f.saveErr != nil {
		return nil, f.saveErr
	}

	return fakeStream{info: &jetstream.StreamInfo{Config: cfg}}, nil
}

func TestEnsureStream(t *testing.T) {
	tests := []struct {
		name      string
		streams   *fakeStreams
		saved     []jetstream.StreamConfig
		expectErr error
	}{
		{
			name:    "creates a missing stream",
			streams: &fakeStreams{lookupErr: jetstream.ErrStreamNotFound},
			saved:   []jetstream.StreamConfig{{Name: "crawler", Subjects: []string{"crawler.scan.*"}}},
		},
		{
			name: "leaves a covering stream alone",
			streams: &fakeStreams{existing: &jetstream.StreamInfo{
				Config: jetstream.StreamConfig{Name: "crawler", Subjects: []string{"crawler.>"}},
			}},
		},
		{
			name: "widens an existing stream",
			streams: &fakeStreams{existing: &jetstream.StreamInfo{
				Config: jetstream.StreamConfig{Name: "crawler", Subjects: []string{"events.>"}},
			}},
			saved: []jetstream.StreamConfig{{Name: "crawler", Subjects: []string{"events.>", "crawler.scan.*"}}},
		},
		{
			name:      "lookup failure",
			streams:   &fakeStreams{lookupErr: errTestFixture},
			expectErr: errTestFixture,
		},
		{
			name:      "create failure",
			streams:   &fakeStreams{lookupErr: nats.ErrNoResponders, saveErr: errTestFixture},
			saved:     []jetstream.StreamConfig{{Name: "crawler", Subjects: []string{"crawler.scan.*"}}},
			expectErr: errTestFixture,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ensureStream(context.Background(), tt.streams, "crawler", "crawler.scan.*")
			if tt.expectErr != nil {
				require.ErrorIs(t, err, tt.expectErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.saved, tt.streams.saved)
		})
	}
}

func TestEnsureSubjectList(t *testing.T) {
	tests := []struct {
		name     string
		subjects []string
		subject  string
		want     []string
	}{
		{"adds subject when list empty", nil, "crawler.scan.*", []string{"crawler.scan.*"}},
		{"keeps list when wildcard matches", []string{"crawler.*.*"}, "crawler.scan.*", []string{"crawler.*.*"}},
		{"keeps list when greater wildcard matches", []string{"crawler.>"}, "crawler.scan.*", []string{"crawler.>"}},
		{"appends when unmatched", []string{"events.>"}, "crawler.scan.*", []string{"events.>", "crawler.scan.*"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ensureSubjectList(append([]string(nil), tt.subjects...), tt.subject))
		})
	}
}

func TestMatchesSubject(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		subject  string
		expected bool
	}{
		{"exact match", "crawler.scan.started", "crawler.scan.started", true},
		{"single wildcard", "crawler.*.started", "crawler.scan.started", true},
		{"greater wildcard", "crawler.>", "crawler.scan.started", true},
		{"greater needs a token", "crawler.scan.>", "crawler.scan", false},
		{"no match length", "crawler.*", "crawler.scan.started", false},
		{"pattern longer than subject", "crawler.scan.started.x", "crawler.scan.started", false},
		{"no match tokens", "events.scan.*", "crawler.scan.started", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matchesSubject(tt.pattern, tt.subject))
		})
	}
}

func TestIsStreamMissingErr(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"jetstream no stream response", jetstream.ErrNoStreamResponse, true},
		{"jetstream stream not found", jetstream.ErrStreamNotFound, true},
		{"nats stream not found", nats.ErrStreamNotFound, true},
		{"nats no responders", nats.ErrNoResponders, true},
		{"other error", errTestFixture, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isStreamMissingErr(tt.err))
		})
	}
}

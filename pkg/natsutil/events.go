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

// Package natsutil publishes scan lifecycle events to NATS JetStream as CloudEvents.
package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/models"
)

var ErrEventNil = errors.New("scan event is nil")

const (
	eventSource     = "brotheri/crawler"
	eventTypePrefix = "org.brotheri.crawler.scan."
)

type publisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// EventPublisher publishes scan events on <prefix>.<event type>.
type EventPublisher struct {
	js            publisher
	subjectPrefix string
	logger        logger.Logger
}

// NewEventPublisher returns a publisher writing to subjects under subjectPrefix.
func NewEventPublisher(js jetstream.JetStream, subjectPrefix string, log logger.Logger) *EventPublisher {
	return &EventPublisher{js: js, subjectPrefix: subjectPrefix, logger: log}
}

// Subject returns the subject an event of the given type is published on.
func (p *EventPublisher) Subject(eventType models.ScanEventType) string {
	return p.subjectPrefix + "." + string(eventType)
}

// PublishScanEvent wraps the event in a CloudEvent envelope and publishes it.
func (p *EventPublisher) PublishScanEvent(ctx context.Context, event *models.ScanEvent) error {
	if event == nil {
		return ErrEventNil
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	subject := p.Subject(event.Type)

	envelope := models.CloudEvent{
		SpecVersion:     models.CloudEventSpecVersion,
		ID:              uuid.New().String(),
		Source:          eventSource,
		Type:            eventTypePrefix + string(event.Type),
		DataContentType: "application/json",
		Subject:         subject,
		Time:            &ts,
		Data:            event,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal scan event: %w", err)
	}

	ack, err := p.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("failed to publish scan event: %w", err)
	}

	p.logger.Debug().
		Str("event_id", envelope.ID).
		Str("subject", subject).
		Uint64("seq", ack.Sequence).
		Msg("Published scan event")

	return nil
}

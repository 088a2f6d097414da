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

package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes worth another attempt. A scan and the monitoring worker
// write the same rows concurrently.
const (
	sqlstateDeadlockDetected    = "40P01"
	sqlstateSerializationFailed = "40001"
)

const (
	maxRetryAttempts = 3
	baseRetryBackoff = 50 * time.Millisecond
)

func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == sqlstateDeadlockDetected || pgErr.Code == sqlstateSerializationFailed
}

func retryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	return baseRetryBackoff * time.Duration(1<<(attempt-1))
}

// withRetry runs fn until it succeeds, fails permanently or runs out of attempts.
func withRetry(ctx context.Context, fn func() error) error {
	var err error

	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		if err = fn(); err == nil || !isTransient(err) {
			return err
		}

		if attempt == maxRetryAttempts {
			break
		}

		timer := time.NewTimer(retryBackoff(attempt))

		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case <-timer.C:
		}
	}

	return err
}

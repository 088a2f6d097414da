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

package mapper

import "errors"

var (
	// ErrDiscoveryStopTimeout occurs when the discoverer fails to stop within the timeout period.
	ErrDiscoveryStopTimeout = errors.New("discoverer stop timed out")
	// ErrScanInProgress is returned when a scan is triggered while another one is running.
	ErrScanInProgress = errors.New("scan already in progress")
	// ErrEntryUnreachable aborts a scan when the entry switch does not answer SNMP.
	ErrEntryUnreachable = errors.New("entry device not reachable via SNMP")
	ErrARPWalkFailed    = errors.New("address translation table walk failed")
	ErrPersistFailed    = errors.New("persisting scan results failed")
	ErrConfigNil        = errors.New("config cannot be nil")
	ErrInvalidWorkers   = errors.New("workers must be greater than 0")
	ErrStoreRequired    = errors.New("device and community stores are required")
	ErrNoPorts          = errors.New("bridge reports no ports")
)

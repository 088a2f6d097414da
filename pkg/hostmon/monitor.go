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

package hostmon

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/models"
	"github.com/brotheri/core/pkg/snmp"
)

// HOST-RESOURCES-MIB columns.
const (
	storageColType  = 2
	storageColDescr = 3
	storageColUnits = 4
	storageColSize  = 5
	storageColUsed  = 6

	swRunColIndex = 1
	swRunColName  = 2
	swRunColType  = 6

	swRunPerfColCPU = 1
	swRunPerfColMem = 2

	swInstalledColName = 2
)

// hrSWRunType values of programs worth reporting.
const (
	swRunTypeUnknown     = 1
	swRunTypeApplication = 4
)

const (
	topPrograms       = 5
	maxConcurrentHost = 32
	kilobyte          = 1024
	ticksPerMinute    = 100 * 60
)

// Monitor refreshes the MonitorData of every online SNMP-enabled host.
type Monitor struct {
	factory   snmp.SessionFactory
	devices   DeviceStore
	blocklist BlocklistStore
	interval  time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// NewMonitor returns a monitor polling every host_interval.
func NewMonitor(
	cfg *models.MonitorConfig,
	factory snmp.SessionFactory,
	devices DeviceStore,
	blocklist BlocklistStore,
	log logger.Logger,
) (*Monitor, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	interval := time.Duration(cfg.HostInterval)
	if interval <= 0 {
		interval = models.DefaultHostInterval
	}

	return &Monitor{
		factory:   factory,
		devices:   devices,
		blocklist: blocklist,
		interval:  interval,
		logger:    log,
		now:       time.Now,
	}, nil
}

// Interval is the time between two collection rounds.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// CollectAll reads and stores monitor data for every eligible host. A host
// that cannot be read is skipped until the next round.
func (m *Monitor) CollectAll(ctx context.Context) error {
	blocked, err := m.blocklist.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBlocklistMissing, err)
	}

	hosts, err := m.devices.FindMany(ctx, models.DeviceFilter{
		Type:        models.TypePtr(models.DeviceTypeHost),
		Online:      models.BoolPtr(true),
		SNMPEnabled: models.BoolPtr(true),
	})
	if err != nil {
		return fmt.Errorf("list snmp hosts: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentHost)

	for _, host := range hosts {
		g.Go(func() error {
			data, err := m.Collect(gctx, host, blocked)
			if err != nil {
				m.logger.Debug().Err(err).Str("device_ip", host.IP).Msg("Host resources unavailable")
				return nil
			}

			if err := m.devices.UpdateMonitorData(gctx, host.ID, data); err != nil {
				m.logger.Warn().Err(err).Str("device_id", host.ID).Msg("Failed to store monitor data")
			}

			return nil
		})
	}

	_ = g.Wait()

	return nil
}

// Collect reads the host resources of one device. Any failed read fails the
// whole collection so partial data never replaces a complete record.
func (m *Monitor) Collect(ctx context.Context, host *models.Device, blocklist []string) (*models.MonitorData, error) {
	sess := m.factory.New(host.IP, host.SNMPCommunity)

	scalars, err := sess.Get(ctx, snmp.OIDHrSystemUptime, snmp.OIDHrMemorySize)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrHostUnreadable, host.IP, err)
	}

	if len(scalars) != 2 || scalars[0].IsMissing() || scalars[1].IsMissing() {
		return nil, fmt.Errorf("%w: %s: no HOST-RESOURCES-MIB", ErrHostUnreadable, host.IP)
	}

	storage, err := sess.Table(ctx, snmp.OIDHrStorageTable,
		storageColType, storageColDescr, storageColUnits, storageColSize, storageColUsed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrHostUnreadable, host.IP, err)
	}

	running, err := sess.Table(ctx, snmp.OIDHrSWRunTable, swRunColIndex, swRunColName, swRunColType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrHostUnreadable, host.IP, err)
	}

	perf, err := sess.Table(ctx, snmp.OIDHrSWRunPerfTable, swRunPerfColCPU, swRunPerfColMem)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrHostUnreadable, host.IP, err)
	}

	installed, err := sess.Table(ctx, snmp.OIDHrSWInstalledTable, swInstalledColName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrHostUnreadable, host.IP, err)
	}

	programs := runningPrograms(running, perf)

	names := make([]string, 0, len(programs)+len(installed))
	for _, p := range programs {
		names = append(names, p.Name)
	}

	for _, index := range installed.SortedIndexes() {
		names = append(names, strings.ToLower(installed[index][swInstalledColName].String()))
	}

	return &models.MonitorData{
		UpTimeMinutes:   float64(scalars[0].Uint64()) / ticksPerMinute,
		RAMBytes:        scalars[1].Uint64() * kilobyte,
		TopCPU:          TopByCPU(programs, topPrograms),
		TopMem:          TopByMemory(programs, topPrograms),
		BlockedPrograms: MatchBlocklist(names, blocklist),
		Partitions:      fixedDisks(storage),
		CollectedAt:     m.now(),
	}, nil
}

func runningPrograms(running, perf snmp.Table) []models.ProgramUsage {
	out := make([]models.ProgramUsage, 0, len(running))

	for _, index := range running.SortedIndexes() {
		row := running[index]

		switch row[swRunColType].Int() {
		case swRunTypeUnknown, swRunTypeApplication:
		default:
			continue
		}

		usage := perf[index]

		out = append(out, models.ProgramUsage{
			Name:       strings.ToLower(row[swRunColName].String()),
			CPUSeconds: float64(usage[swRunPerfColCPU].Uint64()) / 100,
			MemBytes:   usage[swRunPerfColMem].Uint64() * kilobyte,
		})
	}

	return out
}

// TopByCPU returns the n programs with the most CPU time, busiest first.
func TopByCPU(programs []models.ProgramUsage, n int) []models.ProgramUsage {
	return top(programs, n, func(a, b models.ProgramUsage) bool {
		return a.CPUSeconds > b.CPUSeconds
	})
}

// TopByMemory returns the n programs with the largest memory footprint.
func TopByMemory(programs []models.ProgramUsage, n int) []models.ProgramUsage {
	return top(programs, n, func(a, b models.ProgramUsage) bool {
		return a.MemBytes > b.MemBytes
	})
}

func top(programs []models.ProgramUsage, n int, greater func(a, b models.ProgramUsage) bool) []models.ProgramUsage {
	sorted := append([]models.ProgramUsage(nil), programs...)

	sort.SliceStable(sorted, func(i, j int) bool {
		return greater(sorted[i], sorted[j])
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}

// MatchBlocklist returns the distinct names containing any blocklist entry,
// compared case-insensitively, in sorted order.
func MatchBlocklist(names, blocklist []string) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, name := range names {
		lower := strings.ToLower(name)

		for _, blocked := range blocklist {
			blocked = strings.ToLower(strings.TrimSpace(blocked))
			if blocked == "" || !strings.Contains(lower, blocked) {
				continue
			}

			if _, dup := seen[lower]; !dup {
				seen[lower] = struct{}{}
				out = append(out, lower)
			}

			break
		}
	}

	sort.Strings(out)

	return out
}

// fixedDisks turns hrStorageFixedDisk rows into partitions. The name is the
// description up to the first backslash, so "C:\ Label:OS" becomes "C:".
func fixedDisks(storage snmp.Table) []models.Partition {
	out := []models.Partition{}

	for _, index := range storage.SortedIndexes() {
		row := storage[index]

		if strings.TrimPrefix(row[storageColType].String(), ".") != snmp.OIDHrStorageFixedDisk {
			continue
		}

		units := row[storageColUnits].Uint64()
		size := row[storageColSize].Uint64() * units
		used := row[storageColUsed].Uint64() * units

		name, _, _ := strings.Cut(row[storageColDescr].String(), `\`)

		util := 0.0
		if size > 0 {
			util = float64(used) / float64(size) * 100
		}

		out = append(out, models.Partition{
			Name:      strings.TrimSpace(name),
			SizeBytes: size,
			UsedBytes: used,
			Util:      util,
		})
	}

	return out
}

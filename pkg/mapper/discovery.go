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

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/models"
	"github.com/brotheri/core/pkg/snmp"
)

const (
	defaultFallbackTimeout = 10 * time.Second // Fallback timeout for stopping
)

// Progress published at the end of each phase.
const (
	progressARP        = 20
	progressClassified = 40
	progressSwitchData = 60
	progressHostLinks  = 80
	progressVLANs      = 95
	progressDone       = 100
)

// Phase names carried by scan events.
const (
	PhaseARP        = "arp"
	PhaseClassify   = "classify"
	PhaseSwitchData = "switch_data"
	PhaseLinks      = "links"
	PhasePersist    = "persist"
	PhaseVLANs      = "vlans"
)

// Discoverer runs topology scans. Only one scan runs at a time; the last
// successful result stays available through Snapshot until the next one
// completes.
type Discoverer struct {
	cfg         *models.DiscoveryConfig
	factory     snmp.SessionFactory
	prober      *snmp.Prober
	classifier  *Classifier
	devices     DeviceStore
	communities CommunityStore
	publisher   EventPublisher
	recorder    Recorder
	resolver    Resolver
	vendors     VendorLookup
	logger      logger.Logger
	vlanDelay   time.Duration
	staticNets  []netip.Prefix

	running  atomic.Bool
	status   atomic.Pointer[models.ScanStatus]
	snapshot atomic.Pointer[models.ScanSnapshot]

	subMu   sync.Mutex
	subs    map[uint64]chan models.ScanEvent
	nextSub uint64

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

var _ Scanner = (*Discoverer)(nil)

// Option customises a Discoverer.
type Option func(*Discoverer)

// WithPublisher forwards scan events to an event bus.
func WithPublisher(p EventPublisher) Option {
	return func(d *Discoverer) { d.publisher = p }
}

// WithRecorder reports scan measurements.
func WithRecorder(r Recorder) Option {
	return func(d *Discoverer) { d.recorder = r }
}

// WithResolver overrides the reverse DNS resolver.
func WithResolver(r Resolver) Option {
	return func(d *Discoverer) { d.resolver = r }
}

// WithVendorLookup overrides the MAC vendor lookup.
func WithVendorLookup(v VendorLookup) Option {
	return func(d *Discoverer) { d.vendors = v }
}

// NewDiscoverer creates a discoverer that starts every scan from cfg.EntryIP.
func NewDiscoverer(
	cfg *models.DiscoveryConfig,
	factory snmp.SessionFactory,
	devices DeviceStore,
	communities CommunityStore,
	log logger.Logger,
	opts ...Option,
) (*Discoverer, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	if cfg.Workers <= 0 {
		return nil, ErrInvalidWorkers
	}

	if devices == nil || communities == nil {
		return nil, ErrStoreRequired
	}

	staticNets := make([]netip.Prefix, 0, len(cfg.StaticSubnets))

	for _, s := range cfg.StaticSubnets {
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", models.ErrInvalidSubnet, s, err)
		}

		staticNets = append(staticNets, prefix.Masked())
	}

	d := &Discoverer{
		cfg:         cfg,
		factory:     factory,
		prober:      snmp.NewProber(factory, log),
		devices:     devices,
		communities: communities,
		recorder:    noopRecorder{},
		resolver:    net.DefaultResolver,
		vendors:     NewVendorLookup(),
		logger:      log,
		vlanDelay:   time.Duration(cfg.VLANDelay),
		staticNets:  staticNets,
		subs:        make(map[uint64]chan models.ScanEvent),
		done:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.cfg.ScanInterval <= 0 {
		d.cfg.ScanInterval = models.Duration(models.DefaultScanInterval)
	}

	d.classifier = NewClassifier(d.resolver, d.vendors, cfg.APModels, log)
	d.status.Store(&models.ScanStatus{State: models.DiscoveryStateIdle})

	return d, nil
}

// Start runs a scan right away and then on every scan interval.
func (d *Discoverer) Start(ctx context.Context) error {
	ctx, d.cancel = context.WithCancel(ctx)

	d.logger.Info().
		Str("entry_ip", d.cfg.EntryIP).
		Dur("interval", time.Duration(d.cfg.ScanInterval)).
		Int("workers", d.cfg.Workers).
		Msg("Starting discoverer")

	d.wg.Add(1)

	go func() {
		defer d.wg.Done()
		d.schedule(ctx)
	}()

	return nil
}

// Stop cancels any in-flight scan and waits for it to return.
func (d *Discoverer) Stop(ctx context.Context) error {
	var err error

	d.stopOnce.Do(func() {
		d.logger.Info().Msg("Stopping discoverer")

		if d.cancel != nil {
			d.cancel()
		}

		close(d.done)

		waitChan := make(chan struct{})

		go func() {
			d.wg.Wait()
			close(waitChan)
		}()

		select {
		case <-waitChan:
			d.logger.Info().Msg("Discoverer stopped")
		case <-ctx.Done():
			err = ctx.Err()
		case <-time.After(defaultFallbackTimeout):
			err = ErrDiscoveryStopTimeout
		}

		d.closeSubscribers()
	})

	return err
}

func (d *Discoverer) schedule(ctx context.Context) {
	d.trigger(ctx)

	ticker := time.NewTicker(time.Duration(d.cfg.ScanInterval))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.done:
			return
		case <-ticker.C:
			d.trigger(ctx)
		}
	}
}

// trigger starts a scan in the background; a tick that lands while a scan is
// still running is dropped.
func (d *Discoverer) trigger(ctx context.Context) {
	d.wg.Add(1)

	go func() {
		defer d.wg.Done()

		if err := d.Scan(ctx); errors.Is(err, ErrScanInProgress) {
			d.logger.Info().Msg("Previous scan still running, skipping this tick")
		}
	}()
}

// Status returns a copy of the current scan status.
func (d *Discoverer) Status() models.ScanStatus {
	return *d.status.Load()
}

// Snapshot returns the last published scan result.
func (d *Discoverer) Snapshot() *models.ScanSnapshot {
	return d.snapshot.Load()
}

// Scan runs one full scan. Failures leave the previous snapshot in place.
func (d *Discoverer) Scan(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrScanInProgress
	}
	defer d.running.Store(false)

	scanID := uuid.New().String()
	started := time.Now()

	d.status.Store(&models.ScanStatus{
		State:     models.DiscoveryStateRunning,
		ScanID:    scanID,
		StartedAt: started,
	})
	d.recorder.ScanStarted()
	d.emit(ctx, &models.ScanEvent{Type: models.ScanEventStarted, ScanID: scanID}, true)

	d.logger.Info().Str("scan_id", scanID).Str("entry_ip", d.cfg.EntryIP).Msg("Starting topology scan")

	snapshot, links, err := d.runScan(ctx, scanID)
	if err != nil {
		d.logger.Error().Err(err).Str("scan_id", scanID).Msg("Topology scan failed")

		d.status.Store(&models.ScanStatus{
			State:     models.DiscoveryStateIdle,
			ScanID:    scanID,
			StartedAt: started,
			LastError: err.Error(),
		})
		d.recorder.ScanFinished(time.Since(started), 0, 0, err)
		d.emit(ctx, &models.ScanEvent{Type: models.ScanEventFailed, ScanID: scanID, Error: err.Error()}, true)

		return err
	}

	d.snapshot.Store(snapshot)
	d.status.Store(&models.ScanStatus{
		State:     models.DiscoveryStateIdle,
		Progress:  progressDone,
		ScanID:    scanID,
		StartedAt: started,
	})
	d.recorder.ScanFinished(time.Since(started), len(snapshot.Nodes), links, nil)
	d.emit(ctx, &models.ScanEvent{
		Type:     models.ScanEventCompleted,
		ScanID:   scanID,
		Progress: progressDone,
		Devices:  len(snapshot.Nodes),
		Links:    links,
	}, true)

	d.logger.Info().
		Str("scan_id", scanID).
		Int("devices", len(snapshot.Nodes)).
		Int("links", links).
		Int("vlans", len(snapshot.Vlans)).
		Dur("duration", time.Since(started)).
		Msg("Topology scan completed")

	return nil
}

func (d *Discoverer) runScan(ctx context.Context, scanID string) (*models.ScanSnapshot, int, error) {
	communities, err := d.communities.ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listing communities: %w", err)
	}

	entryCommunity, err := d.prober.Probe(ctx, d.cfg.EntryIP, communities)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrEntryUnreachable, err)
	}

	entrySess := d.factory.New(d.cfg.EntryIP, entryCommunity)

	arp, err := readARP(ctx, entrySess)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrARPWalkFailed, err)
	}

	arp = d.withEntry(ctx, entrySess, arp)
	d.advance(ctx, scanID, PhaseARP, progressARP)

	devices := d.classifyAll(ctx, scanID, arp, communities)
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	entry := d.entryDevice(devices, entryCommunity)
	d.markSynonyms(ctx, entrySess, devices)
	d.advance(ctx, scanID, PhaseClassify, progressClassified)

	switches := d.collectAllSwitchData(ctx, scanID, devices)
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	d.advance(ctx, scanID, PhaseSwitchData, progressSwitchData)

	switchLinks := InferSwitchLinks(switches)
	for i := range switchLinks {
		attachSwitchLink(&switchLinks[i])
	}

	hostLinks := d.linkHosts(scanID, devices, switches)
	d.advance(ctx, scanID, PhaseLinks, progressHostLinks)

	markLikelyStatic(devices, d.staticNets)

	if err := d.persist(ctx, devices); err != nil {
		return nil, 0, err
	}

	d.advance(ctx, scanID, PhasePersist, progressHostLinks)

	nodes := BuildNodes(devices)
	vlans := d.aggregateVLANs(ctx, entry, entrySess, nodes)
	d.advance(ctx, scanID, PhaseVLANs, progressVLANs)

	return &models.ScanSnapshot{
		ScanID:    scanID,
		Nodes:     nodes,
		Vlans:     vlans,
		Timestamp: time.Now(),
	}, len(switchLinks) + hostLinks, nil
}

func (d *Discoverer) classifyAll(ctx context.Context, scanID string, arp []arpEntry, communities []string) []*models.Device {
	devices := make([]*models.Device, len(arp))

	var (
		g        errgroup.Group
		finished atomic.Int64
	)

	g.SetLimit(d.cfg.Workers)

	for i, entry := range arp {
		g.Go(func() error {
			devices[i] = d.classifyOne(ctx, entry, communities)

			n := finished.Add(1)
			d.tick(scanID, progressARP+int(n)*(progressClassified-progressARP)/len(arp))

			return nil
		})
	}

	_ = g.Wait()

	return devices
}

// classifyOne probes and classifies one ARP entry. A panic while decoding a
// device's answers degrades it to a plain host.
func (d *Discoverer) classifyOne(ctx context.Context, entry arpEntry, communities []string) (device *models.Device) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Interface("panic", r).Str("device_ip", entry.IP).Msg("Classification panicked")

			device = &models.Device{
				IP:     entry.IP,
				MAC:    entry.MAC,
				Name:   entry.IP,
				Vendor: unknownVendor,
				Type:   models.DeviceTypeHost,
				Online: true,
			}
		}
	}()

	var sess snmp.Session

	if community, err := d.prober.Probe(ctx, entry.IP, communities); err == nil {
		sess = d.factory.New(entry.IP, community)
	}

	return d.classifier.Classify(ctx, sess, entry.IP, entry.MAC)
}

// entryDevice returns the classified entry switch, making sure it carries
// the community that answered the entry probe.
func (d *Discoverer) entryDevice(devices []*models.Device, community string) *models.Device {
	for _, device := range devices {
		if device.IP == d.cfg.EntryIP {
			if device.SNMPCommunity == "" {
				device.SNMPCommunity = community
				device.SNMPEnabled = true
			}

			return device
		}
	}

	return &models.Device{IP: d.cfg.EntryIP, SNMPEnabled: true, SNMPCommunity: community}
}

func (d *Discoverer) markSynonyms(ctx context.Context, sess snmp.Session, devices []*models.Device) {
	owned := make(map[string]struct{})

	vars, err := sess.Walk(ctx, snmp.OIDIPAdEntAddr)
	if err != nil {
		d.logger.Warn().Err(err).Str("entry_ip", d.cfg.EntryIP).Msg("Failed to read entry address table")
	}

	for _, v := range vars {
		ip := v.String()
		if ip == "" && len(v.OID) > len(snmp.OIDIPAdEntAddr)+1 {
			ip = v.OID[len(snmp.OIDIPAdEntAddr)+1:]
		}

		owned[ip] = struct{}{}
	}

	MarkSynonyms(devices, d.cfg.EntryIP, owned)
}

// MarkSynonyms flags alternate addresses of already known devices: every IP
// the entry device owns besides entryIP, and every later IP that shares a MAC
// with an earlier device. The entry device is always the primary.
func MarkSynonyms(devices []*models.Device, entryIP string, entryAddrs map[string]struct{}) {
	primary := make(map[string]struct{}, len(devices))

	for _, device := range devices {
		if device.IP == entryIP && device.MAC != "" {
			primary[device.MAC] = struct{}{}
		}
	}

	for _, device := range devices {
		if device.IP == entryIP {
			continue
		}

		if _, ok := entryAddrs[device.IP]; ok {
			device.IsSynonym = true
			continue
		}

		if device.MAC == "" {
			continue
		}

		if _, ok := primary[device.MAC]; ok {
			device.IsSynonym = true
			continue
		}

		primary[device.MAC] = struct{}{}
	}
}

func (d *Discoverer) collectAllSwitchData(ctx context.Context, scanID string, devices []*models.Device) []*models.Device {
	var switches []*models.Device

	for _, device := range devices {
		if device.Type.IsSwitch() && !device.IsSynonym && device.SNMPEnabled {
			switches = append(switches, device)
		}
	}

	var (
		g        errgroup.Group
		finished atomic.Int64
	)

	g.SetLimit(d.cfg.Workers)

	for _, sw := range switches {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error().Interface("panic", r).Str("switch_ip", sw.IP).Msg("Switch data collection panicked")

					sw.Switch = &models.SwitchData{Interfaces: map[int]models.IfEntry{}, BasePorts: map[int]int{}}
				}
			}()

			sw.Switch = d.collectSwitchData(ctx, sw)
			sw.SupportHC = sw.Switch.SupportHC

			n := finished.Add(1)
			d.tick(scanID, progressClassified+int(n)*(progressSwitchData-progressClassified)/len(switches))

			return nil
		})
	}

	_ = g.Wait()

	return switches
}

func attachSwitchLink(link *models.Link) {
	link.Source.Interfaces = append(link.Source.Interfaces, switchInterface(link.Source, link.SourceIfIndex, link.Target))
	link.Target.Interfaces = append(link.Target.Interfaces, switchInterface(link.Target, link.TargetIfIndex, link.Source))
}

func switchInterface(sw *models.Device, ifIndex int, neighbour *models.Device) models.Interface {
	entry := sw.Switch.Interfaces[ifIndex]

	return models.Interface{
		IfIndex:         ifIndex,
		Description:     entry.Description,
		PhysicalAddress: entry.PhysAddress,
		ConnectedMAC:    neighbour.MAC,
		ConnectedDevice: neighbour,
	}
}

func (d *Discoverer) linkHosts(scanID string, devices, switches []*models.Device) int {
	linker := NewHostLinker(switches)

	var hosts []*models.Device

	for _, device := range devices {
		if device.Type == models.DeviceTypeHost && !device.IsSynonym {
			hosts = append(hosts, device)
		}
	}

	linked := 0

	for i, host := range hosts {
		if link, ok := linker.Link(host); ok {
			host.ConnectedTo = &models.ConnectedTo{IfIndex: link.SourceIfIndex, Switch: link.Source}
			link.Source.Interfaces = append(link.Source.Interfaces, switchInterface(link.Source, link.SourceIfIndex, host))
			linked++
		}

		d.tick(scanID, progressSwitchData+(i+1)*(progressHostLinks-progressSwitchData)/len(hosts))
	}

	d.logger.Debug().Int("hosts", len(hosts)).Int("linked", linked).Msg("Linked hosts to switch ports")

	return linked
}

func markLikelyStatic(devices []*models.Device, nets []netip.Prefix) {
	for _, device := range devices {
		addr, err := netip.ParseAddr(device.IP)
		if err != nil {
			continue
		}

		for _, prefix := range nets {
			if prefix.Contains(addr) {
				device.IsLikelyStatic = true
				break
			}
		}
	}
}

// persist marks every stored device offline, then upserts this scan's
// devices, switches first so hosts can reference their switch row.
func (d *Discoverer) persist(ctx context.Context, devices []*models.Device) error {
	if err := d.devices.MarkAllOffline(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	ordered := make([]*models.Device, 0, len(devices))

	for _, device := range devices {
		if device.Type.IsSwitch() {
			ordered = append(ordered, device)
		}
	}

	for _, device := range devices {
		if !device.Type.IsSwitch() {
			ordered = append(ordered, device)
		}
	}

	stored := 0

	for _, device := range ordered {
		if device.IsSynonym || device.MAC == "" {
			continue
		}

		device.Online = true

		if device.ConnectedTo != nil && device.ConnectedTo.Switch != nil {
			device.ConnectedTo.SwitchID = device.ConnectedTo.Switch.ID
		}

		id, err := d.devices.UpsertByMAC(ctx, device)
		if err != nil {
			d.logger.Warn().Err(err).Str("device_ip", device.IP).Str("device_mac", device.MAC).Msg("Failed to store device")
			continue
		}

		device.ID = id
		stored++
	}

	d.logger.Debug().Int("stored", stored).Msg("Persisted scan devices")

	return nil
}

// BuildNodes turns the scan's devices into published nodes: synonyms are
// left out and working fields are not carried over.
func BuildNodes(devices []*models.Device) []models.SnapshotNode {
	nodes := make([]models.SnapshotNode, 0, len(devices))

	for _, device := range devices {
		if device.IsSynonym {
			continue
		}

		nodes = append(nodes, models.SnapshotNode{
			ID:             len(nodes) + 1,
			StoreID:        device.ID,
			MAC:            device.MAC,
			IP:             device.IP,
			Name:           device.Name,
			Vendor:         device.Vendor,
			Type:           device.Type,
			SNMPEnabled:    device.SNMPEnabled,
			IsSynonym:      device.IsSynonym,
			IsLikelyStatic: device.IsLikelyStatic,
			Monitored: device.Type == models.DeviceTypeHost &&
				(device.ConnectedTo != nil || device.SNMPEnabled),
		})
	}

	return nodes
}

func (d *Discoverer) aggregateVLANs(
	ctx context.Context, entry *models.Device, sess snmp.Session, nodes []models.SnapshotNode) []models.Vlan {
	subnets, err := collectSubnets(ctx, sess)
	if err != nil {
		d.logger.Warn().Err(err).Str("entry_ip", entry.IP).Msg("Failed to read entry subnets")
		return []models.Vlan{}
	}

	members, err := d.collectVLANMembers(ctx, entry, sess)
	if err != nil {
		d.logger.Warn().Err(err).Str("entry_ip", entry.IP).Msg("Failed to read entry VLANs")
		return []models.Vlan{}
	}

	return AggregateVLANs(members, subnets, nodes)
}

// advance marks the end of a phase.
func (d *Discoverer) advance(ctx context.Context, scanID, phase string, progress int) {
	d.setProgress(progress, true)
	d.emit(ctx, &models.ScanEvent{
		Type:     models.ScanEventProgress,
		ScanID:   scanID,
		Phase:    phase,
		Progress: progress,
	}, true)
}

// tick reports progress inside a phase to local subscribers only.
func (d *Discoverer) tick(scanID string, progress int) {
	if !d.setProgress(progress, false) {
		return
	}

	d.emit(context.Background(), &models.ScanEvent{
		Type:     models.ScanEventProgress,
		ScanID:   scanID,
		Progress: progress,
	}, false)
}

// setProgress raises the published progress. Concurrent workers may report
// out of order, so progress only moves backwards when force is set.
func (d *Discoverer) setProgress(progress int, force bool) bool {
	for {
		cur := d.status.Load()
		if !force && progress <= cur.Progress {
			return false
		}

		next := *cur
		next.Progress = progress

		if d.status.CompareAndSwap(cur, &next) {
			d.recorder.ScanProgress(progress)
			return true
		}
	}
}

func (d *Discoverer) emit(ctx context.Context, event *models.ScanEvent, publish bool) {
	event.Timestamp = time.Now()

	d.broadcast(*event)

	if !publish || d.publisher == nil {
		return
	}

	if err := d.publisher.PublishScanEvent(ctx, event); err != nil {
		d.logger.Debug().Err(err).Str("scan_id", event.ScanID).Str("event", string(event.Type)).Msg("Failed to publish scan event")
	}
}

// Subscribe registers for scan events. Events are dropped for subscribers
// whose buffer is full; a scan never waits on a reader.
func (d *Discoverer) Subscribe(buffer int) (<-chan models.ScanEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}

	ch := make(chan models.ScanEvent, buffer)

	d.subMu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = ch
	d.subMu.Unlock()

	return ch, func() {
		d.subMu.Lock()
		defer d.subMu.Unlock()

		if c, ok := d.subs[id]; ok {
			delete(d.subs, id)
			close(c)
		}
	}
}

func (d *Discoverer) broadcast(event models.ScanEvent) {
	d.subMu.Lock()
	defer d.subMu.Unlock()

	for _, ch := range d.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (d *Discoverer) closeSubscribers() {
	d.subMu.Lock()
	defer d.subMu.Unlock()

	for id, ch := range d.subs {
		delete(d.subs, id)
		close(ch)
	}
}

type noopRecorder struct{}

func (noopRecorder) ScanStarted()                                {}
func (noopRecorder) ScanProgress(int)                            {}
func (noopRecorder) ScanFinished(time.Duration, int, int, error) {}

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
	"strings"

	"github.com/brotheri/core/pkg/logger"
	"github.com/brotheri/core/pkg/models"
	"github.com/brotheri/core/pkg/snmp"
)

// sysServices bit values, one per OSI layer (2^(layer-1)).
const (
	servicesL2 = 1 << 1
	servicesL3 = 1 << 2
	servicesL4 = 1 << 3
	servicesL7 = 1 << 6
)

type layers struct {
	L2, L3, L4, L7 bool
}

func decodeServices(services int) layers {
	return layers{
		L2: services&servicesL2 != 0,
		L3: services&servicesL3 != 0,
		L4: services&servicesL4 != 0,
		L7: services&servicesL7 != 0,
	}
}

// Classifier decides the role of a single device.
type Classifier struct {
	resolver Resolver
	vendors  VendorLookup
	apModels []string
	logger   logger.Logger
}

// NewClassifier returns a classifier. apModels are consumer access point model
// names treated as routers when the agent does not report sysServices.
func NewClassifier(resolver Resolver, vendors VendorLookup, apModels []string, log logger.Logger) *Classifier {
	return &Classifier{
		resolver: resolver,
		vendors:  vendors,
		apModels: apModels,
		logger:   log,
	}
}

// Classify builds the device record for (ip, mac). sess is nil when no
// community answered; such devices are hosts known only by presence.
func (c *Classifier) Classify(ctx context.Context, sess snmp.Session, ip, mac string) *models.Device {
	device := &models.Device{
		IP:     ip,
		MAC:    mac,
		Vendor: c.vendors.Vendor(mac),
		Online: true,
		Type:   models.DeviceTypeHost,
	}

	if sess == nil {
		device.Name = c.reverseName(ctx, ip)
		return device
	}

	device.SNMPEnabled = true
	device.SNMPCommunity = sess.Community()

	sysName := ""
	if v, err := snmp.GetOne(ctx, sess, snmp.OIDSysName); err == nil {
		sysName = strings.TrimSpace(v.String())
	}

	device.Name = sysName
	if device.Name == "" {
		device.Name = c.reverseName(ctx, ip)
	}

	device.Type = c.classifyType(ctx, sess, sysName)

	c.logger.Debug().
		Str("device_ip", ip).
		Str("device_mac", mac).
		Str("type", string(device.Type)).
		Msg("Classified device")

	return device
}

func (c *Classifier) classifyType(ctx context.Context, sess snmp.Session, sysName string) models.DeviceType {
	if isPrinter(ctx, sess) {
		return models.DeviceTypePrinter
	}

	services, err := snmp.GetOne(ctx, sess, snmp.OIDSysServices)
	if err != nil {
		c.logger.Debug().Err(err).Str("device_ip", sess.Target()).Msg("sysServices unavailable, using model heuristic")

		return c.fallbackType(sysName)
	}

	l := decodeServices(services.Int())

	switch {
	case l.L2 && l.L3:
		ports, err := bridgePortCount(ctx, sess)
		if err != nil || ports == 0 {
			return routerType(l)
		}

		if hasDuplicatePhysAddress(ctx, sess) {
			return models.DeviceTypeRouter
		}

		return models.DeviceTypeSwitchL3Bridge
	case l.L2:
		ports, err := bridgePortCount(ctx, sess)
		if err != nil || ports == 0 {
			return models.DeviceTypeHost
		}

		return models.DeviceTypeSwitchL2
	case l.L3:
		if l.L4 {
			return models.DeviceTypeSwitchL4
		}

		return routerType(l)
	default:
		return models.DeviceTypeHost
	}
}

func routerType(l layers) models.DeviceType {
	if l.L7 {
		return models.DeviceTypeRouterBridgeL7
	}

	return models.DeviceTypeRouter
}

func (c *Classifier) fallbackType(sysName string) models.DeviceType {
	name := strings.ToLower(sysName)

	for _, model := range c.apModels {
		if model != "" && strings.Contains(name, strings.ToLower(model)) {
			return models.DeviceTypeRouter
		}
	}

	return models.DeviceTypeHost
}

func isPrinter(ctx context.Context, sess snmp.Session) bool {
	_, err := snmp.GetOne(ctx, sess, snmp.OIDPrtGeneralConfig)

	return err == nil
}

func bridgePortCount(ctx context.Context, sess snmp.Session) (int, error) {
	v, err := snmp.GetOne(ctx, sess, snmp.OIDDot1dBaseNumPorts)
	if err != nil {
		return 0, err
	}

	return v.Int(), nil
}

// hasDuplicatePhysAddress reports whether two ethernet interfaces share a
// hardware address, which is how proxies and NAT boxes usually look.
func hasDuplicatePhysAddress(ctx context.Context, sess snmp.Session) bool {
	table, err := sess.Table(ctx, snmp.OIDIfTable, ifColType, ifColPhysAddress)
	if err != nil {
		return false
	}

	seen := make(map[string]struct{}, len(table))

	for _, row := range table {
		if row[ifColType].Int() != snmp.IfTypeEthernet {
			continue
		}

		mac := row[ifColPhysAddress].MAC()
		if mac == "" {
			continue
		}

		if _, ok := seen[mac]; ok {
			return true
		}

		seen[mac] = struct{}{}
	}

	return false
}

func (c *Classifier) reverseName(ctx context.Context, ip string) string {
	if c.resolver == nil {
		return ip
	}

	names, err := c.resolver.LookupAddr(ctx, ip)
	if err != nil || len(names) == 0 {
		return ip
	}

	for i, name := range names {
		names[i] = strings.TrimSuffix(name, ".")
	}

	return strings.Join(names, ", ")
}

//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package mdns

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"sort"
	"sync"
	"time"

	dnscodec "github.com/Sameerbk201/service-discovery"
	"github.com/sirupsen/logrus"
)

// Service is one discovered service instance, assembled from the PTR,
// SRV, TXT, and A records seen for it.
type Service struct {
	// Instance is the full service instance name.
	Instance string

	// Host and Port locate the service, from its SRV record.
	Host string
	Port uint16

	// Addrs holds the IPv4 addresses resolved for Host.
	Addrs []netip.Addr

	// Text holds the TXT attributes for the instance.
	Text map[string]dnscodec.TXTValue

	// LastSeen is when a record for this instance last arrived.
	LastSeen time.Time
}

// Browser sends one discovery query and aggregates the replies into a
// service table keyed by instance name.
//
// Construct using [NewBrowser]. The table survives across Browse calls
// on the same Browser so repeated passes refine earlier answers.
type Browser struct {
	conn *Conn
	log  *logrus.Logger

	mu          sync.Mutex
	services    map[string]*Service
	addrsByHost map[string][]netip.Addr
}

// NewBrowser constructs a [*Browser] reading from conn. A nil log falls
// back to the logrus standard logger.
func NewBrowser(conn *Conn, log *logrus.Logger) *Browser {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Browser{
		conn:        conn,
		log:         log,
		services:    make(map[string]*Service),
		addrsByHost: make(map[string][]netip.Addr),
	}
}

// Browse queries for serviceType (for example "_smart_ip._tcp.local")
// and collects replies until ctx expires, returning the accumulated
// services sorted by instance name.
//
// A malformed reply is logged and dropped; it never aborts the pass.
func (b *Browser) Browse(ctx context.Context, serviceType string) ([]*Service, error) {
	query := dnscodec.NewQuery(serviceType, dnscodec.TypePTR)
	pkt, err := query.Encode()
	if err != nil {
		return nil, err
	}
	if err := b.conn.Send(ctx, pkt); err != nil {
		return nil, err
	}
	b.log.WithFields(logrus.Fields{
		"type":  serviceType,
		"group": b.conn.group.String(),
	}).Info("browsing for services")

	buf := make([]byte, MaxDatagramSize)
	for {
		n, from, err := b.conn.Recv(ctx, buf)
		if err != nil {
			if ctx.Err() != nil || isTimeout(err) {
				break
			}
			return nil, err
		}

		msg, err := dnscodec.ParseMessage(buf[:n])
		if err != nil {
			b.log.WithFields(logrus.Fields{
				"from":  from.String(),
				"error": err,
			}).Debug("dropping malformed datagram")
			continue
		}
		b.observe(serviceType, msg)
	}

	return b.Services(), nil
}

// observe merges one parsed message into the service table.
func (b *Browser) observe(serviceType string, msg *dnscodec.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	for _, rec := range msg.Records {
		switch data := rec.Data.(type) {
		case dnscodec.PTR:
			if rec.Name != serviceType {
				continue
			}
			b.touch(data.Target, now)

		case dnscodec.SRV:
			svc := b.touch(rec.Name, now)
			svc.Host = data.Target
			svc.Port = data.Port

		case dnscodec.TXT:
			svc := b.touch(rec.Name, now)
			for key, value := range data.Attrs {
				svc.Text[key] = value
			}

		case dnscodec.A:
			addrs := b.addrsByHost[rec.Name]
			if !containsAddr(addrs, data.Addr) {
				b.addrsByHost[rec.Name] = append(addrs, data.Addr)
			}
		}
	}
}

// touch returns the table entry for instance, creating it on first sight.
func (b *Browser) touch(instance string, now time.Time) *Service {
	svc, ok := b.services[instance]
	if !ok {
		svc = &Service{
			Instance: instance,
			Text:     make(map[string]dnscodec.TXTValue),
		}
		b.services[instance] = svc
		b.log.WithField("instance", instance).Info("discovered service")
	}
	svc.LastSeen = now
	return svc
}

// Services returns a snapshot of the table sorted by instance name, with
// each service's addresses resolved from the A records seen so far.
func (b *Browser) Services() []*Service {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*Service, 0, len(b.services))
	for _, svc := range b.services {
		clone := *svc
		clone.Addrs = append([]netip.Addr(nil), b.addrsByHost[svc.Host]...)
		clone.Text = make(map[string]dnscodec.TXTValue, len(svc.Text))
		for key, value := range svc.Text {
			clone.Text[key] = value
		}
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Instance < out[j].Instance
	})
	return out
}

func containsAddr(addrs []netip.Addr, addr netip.Addr) bool {
	for _, a := range addrs {
		if a == addr {
			return true
		}
	}
	return false
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package mdns drives service discovery over multicast UDP: a thin
// transport around the mDNS group socket and a Browser that aggregates
// decoded datagrams into a table of discovered services.
package mdns

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/net/ipv4"
)

const (
	// GroupAddr is the IPv4 mDNS multicast group address.
	GroupAddr = "224.0.0.251"

	// Port is the mDNS UDP port.
	Port = 5353
)

// MaxDatagramSize bounds a single received reply; one UDP datagram can
// carry at most 65507 payload bytes.
const MaxDatagramSize = 65507

// Conn is a UDP socket joined to the mDNS multicast group.
//
// Construct using [Dial]. Safe for one sender and one receiver at a time.
type Conn struct {
	udp   *net.UDPConn
	group *net.UDPAddr
}

// Dial opens a multicast UDP socket on the mDNS group and port. A nil
// iface lets the kernel pick the interface.
func Dial(iface *net.Interface) (*Conn, error) {
	group, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", GroupAddr, Port))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mDNS address: %w", err)
	}

	udp, err := net.ListenMulticastUDP("udp4", iface, group)
	if err != nil {
		return nil, fmt.Errorf("failed to join mDNS group: %w", err)
	}

	// RFC 6762 section 11: multicast queries use TTL 255.
	p := ipv4.NewPacketConn(udp)
	if err := p.SetMulticastTTL(255); err != nil {
		udp.Close()
		return nil, fmt.Errorf("failed to set multicast TTL: %w", err)
	}
	if iface != nil {
		if err := p.SetMulticastInterface(iface); err != nil {
			udp.Close()
			return nil, fmt.Errorf("failed to select interface: %w", err)
		}
	}

	return &Conn{udp: udp, group: group}, nil
}

// Send writes one datagram to the multicast group.
func (c *Conn) Send(ctx context.Context, pkt []byte) error {
	if deadline, ok := ctx.Deadline(); ok {
		if err := c.udp.SetWriteDeadline(deadline); err != nil {
			return err
		}
	}
	if _, err := c.udp.WriteToUDP(pkt, c.group); err != nil {
		return fmt.Errorf("failed to send query: %w", err)
	}
	return nil
}

// Recv reads one datagram into buf, honoring the context deadline, and
// returns the payload length and the sender address.
func (c *Conn) Recv(ctx context.Context, buf []byte) (int, *net.UDPAddr, error) {
	deadline := time.Time{}
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := c.udp.SetReadDeadline(deadline); err != nil {
		return 0, nil, err
	}
	return c.udp.ReadFromUDP(buf)
}

// Close releases the socket.
func (c *Conn) Close() error {
	return c.udp.Close()
}

// SPDX-License-Identifier: GPL-3.0-or-later

// Package dnscodec is an mDNS service-discovery message parser and serializer.
//
// [NewQuery] and [*Query.Encode] allow constructing and packing a DNS query
// message with a single question. [ParseMessage] allows unpacking a raw
// response datagram into a header and a flat list of resource records,
// resolving RFC 1035 name compression along the way.
//
// The codec is stateless translation between a byte buffer and a structured
// representation: every call operates only on the buffer passed to it, so
// decodes of distinct datagrams may run concurrently without coordination.
// Transport and service-table bookkeeping live elsewhere (see the mdns
// subpackage).
package dnscodec

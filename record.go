//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package dnscodec

import (
	"encoding/binary"
	"net/netip"
	"strings"
)

// RData is the type-specific payload of a resource record.
//
// The concrete types are [PTR], [SRV], [TXT], [A], and [Opaque], each
// carrying only the fields relevant to its record kind.
type RData interface {
	rdata()
}

// PTR is a pointer record payload: the name of a service instance.
type PTR struct {
	// Target is the decoded service instance name.
	Target string
}

// SRV is a service location record payload.
type SRV struct {
	// Priority and Weight order instances per RFC 2782; mDNS responders
	// usually leave both at zero.
	Priority uint16
	Weight   uint16

	// Port is the service port on Target.
	Port uint16

	// Target is the host providing the service.
	Target string
}

// TXTValue is one TXT attribute: either a string value, or a bare flag
// for entries with no "=" separator.
type TXTValue struct {
	// Value is the attribute value when Flag is false.
	Value string

	// Flag reports a flag-only entry with no value.
	Flag bool
}

// TXT is a text record payload: service metadata as key/value pairs.
//
// Iteration order is not preserved. A key repeated within one record
// keeps the last occurrence.
type TXT struct {
	Attrs map[string]TXTValue
}

// A is an IPv4 address record payload.
type A struct {
	Addr netip.Addr
}

// Opaque is the payload of any record type the codec does not interpret:
// the raw rdata byte span, passed through untouched.
type Opaque struct {
	Data []byte
}

func (PTR) rdata()    {}
func (SRV) rdata()    {}
func (TXT) rdata()    {}
func (A) rdata()      {}
func (Opaque) rdata() {}

// Record is a single decoded resource record.
type Record struct {
	// Name is the record owner name.
	Name string

	// Type is the record type code, such as [TypePTR].
	Type uint16

	// Class is the record class code, normally [ClassINET].
	Class uint16

	// TTL is the record time to live in seconds.
	TTL uint32

	// RDLength is the declared rdata length in bytes.
	RDLength uint16

	// Data is the decoded payload.
	Data RData
}

// decodeRecord reads one resource record from buf starting at off and
// returns it together with the offset of the next record.
//
// The record's declared rdata length is authoritative for advancing the
// cursor: even when the payload embeds a compressed name, the next record
// starts rdlength bytes past the record header.
func decodeRecord(buf []byte, off int) (Record, int, error) {
	name, n, err := decodeName(buf, off)
	if err != nil {
		return Record{}, 0, err
	}
	off += n

	// Fixed record header: type, class, ttl, rdlength.
	if off+10 > len(buf) {
		return Record{}, 0, ErrTruncatedMessage
	}
	rec := Record{
		Name:     name,
		Type:     binary.BigEndian.Uint16(buf[off:]),
		Class:    binary.BigEndian.Uint16(buf[off+2:]),
		TTL:      binary.BigEndian.Uint32(buf[off+4:]),
		RDLength: binary.BigEndian.Uint16(buf[off+8:]),
	}
	off += 10

	end := off + int(rec.RDLength)
	if end > len(buf) {
		return Record{}, 0, ErrTruncatedMessage
	}

	switch rec.Type {
	case TypePTR:
		target, _, err := decodeName(buf, off)
		if err != nil {
			return Record{}, 0, err
		}
		rec.Data = PTR{Target: target}

	case TypeSRV:
		if off+6 > end {
			return Record{}, 0, ErrTruncatedMessage
		}
		target, _, err := decodeName(buf, off+6)
		if err != nil {
			return Record{}, 0, err
		}
		rec.Data = SRV{
			Priority: binary.BigEndian.Uint16(buf[off:]),
			Weight:   binary.BigEndian.Uint16(buf[off+2:]),
			Port:     binary.BigEndian.Uint16(buf[off+4:]),
			Target:   target,
		}

	case TypeTXT:
		attrs, err := decodeTXT(buf[off:end])
		if err != nil {
			return Record{}, 0, err
		}
		rec.Data = TXT{Attrs: attrs}

	case TypeA:
		if rec.RDLength != 4 {
			return Record{}, 0, ErrMalformedARecord
		}
		rec.Data = A{Addr: netip.AddrFrom4([4]byte(buf[off:end]))}

	default:
		rec.Data = Opaque{Data: append([]byte(nil), buf[off:end]...)}
	}

	return rec, end, nil
}

// decodeTXT splits a TXT rdata span into attributes. Each sub-string is a
// length byte followed by that many bytes of UTF-8 text; "key=value"
// entries become values and bare entries become flags. The sub-string
// boundaries must cover the span exactly.
func decodeTXT(span []byte) (map[string]TXTValue, error) {
	attrs := make(map[string]TXTValue)
	for i := 0; i < len(span); {
		n := int(span[i])
		i++
		if i+n > len(span) {
			return nil, ErrMalformedTxtRecord
		}
		s := string(span[i : i+n])
		i += n

		if key, value, ok := strings.Cut(s, "="); ok {
			attrs[key] = TXTValue{Value: value}
		} else {
			attrs[s] = TXTValue{Flag: true}
		}
	}
	return attrs, nil
}

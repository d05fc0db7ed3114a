//
// SPDX-License-Identifier: BSD-3-Clause
//

package dnscodec

import (
	"encoding/binary"
	"strings"
)

// Well-known record type codes consumed by this codec.
const (
	// TypeA is the IPv4 address record type.
	TypeA uint16 = 1

	// TypePTR is the pointer record type, used for service enumeration.
	TypePTR uint16 = 12

	// TypeTXT is the text record type, used for service metadata.
	TypeTXT uint16 = 16

	// TypeSRV is the service location record type.
	TypeSRV uint16 = 33
)

// ClassINET is the Internet class code, the only class this system uses.
const ClassINET uint16 = 1

// Query is a single-question DNS query.
//
// Construct using [NewQuery] or set the fields directly.
type Query struct {
	// Name is the MANDATORY domain name to query, as dot-separated
	// labels. mDNS names are UTF-8 on the wire, so no IDNA conversion
	// is applied.
	Name string

	// Type is the query type, such as [TypePTR].
	Type uint16

	// Class is the query class, normally [ClassINET].
	Class uint16
}

// NewQuery constructs a new [*Query] for the Internet class.
//
// mDNS queries carry a zero transaction ID and zero flags, so there is
// nothing to randomize here.
func NewQuery(name string, qtype uint16) *Query {
	return &Query{
		Name:  name,
		Type:  qtype,
		Class: ClassINET,
	}
}

// Clone returns a deep copy of the query.
func (q *Query) Clone() *Query {
	return &Query{
		Name:  q.Name,
		Type:  q.Type,
		Class: q.Class,
	}
}

// headerSize is the size of the fixed DNS message header.
const headerSize = 12

// maxLabelSize and maxNameSize bound encoded names per RFC 1035 section 2.3.4.
const (
	maxLabelSize = 63
	maxNameSize  = 255
)

// Encode serializes the query into a wire-format datagram: a 12-byte
// header with a question count of one, the length-prefixed labels of the
// name followed by a zero terminator, and the two-byte type and class.
//
// Questions are never compressed on encode.
//
// Returns [ErrInvalidName] if the name has an empty label, a label longer
// than 63 bytes, or encodes to more than 255 bytes.
func (q *Query) Encode() ([]byte, error) {
	buf := make([]byte, 0, headerSize+len(q.Name)+2+4)

	// Header: id=0 and flags=0 for mDNS, one question, no records.
	buf = binary.BigEndian.AppendUint16(buf, 0)
	buf = binary.BigEndian.AppendUint16(buf, 0)
	buf = binary.BigEndian.AppendUint16(buf, 1)
	buf = binary.BigEndian.AppendUint16(buf, 0)
	buf = binary.BigEndian.AppendUint16(buf, 0)
	buf = binary.BigEndian.AppendUint16(buf, 0)

	buf, err := appendName(buf, q.Name)
	if err != nil {
		return nil, err
	}

	buf = binary.BigEndian.AppendUint16(buf, q.Type)
	buf = binary.BigEndian.AppendUint16(buf, q.Class)
	return buf, nil
}

// appendName appends the wire form of a dot-separated name: one length
// byte per label followed by the label bytes, then a zero byte.
func appendName(buf []byte, name string) ([]byte, error) {
	// Accept the fully-qualified spelling too.
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		return nil, ErrInvalidName
	}

	start := len(buf)
	for _, label := range strings.Split(name, ".") {
		if len(label) == 0 || len(label) > maxLabelSize {
			return nil, ErrInvalidName
		}
		buf = append(buf, byte(len(label)))
		buf = append(buf, label...)
	}
	buf = append(buf, 0x00)

	if len(buf)-start > maxNameSize {
		return nil, ErrInvalidName
	}
	return buf, nil
}

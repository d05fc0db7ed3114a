//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package dnscodec

import "encoding/binary"

// Header is the fixed 12-byte DNS message header.
type Header struct {
	// ID is the transaction ID; always zero in mDNS.
	ID uint16

	// Flags holds the QR/opcode/AA/rcode bit fields, uninterpreted.
	Flags uint16

	// QDCount, ANCount, NSCount, and ARCount are the section sizes.
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// Message is a decoded DNS datagram: the header plus the answer,
// authority, and additional records concatenated in that order.
//
// Questions are consumed but discarded. No per-section boundary is kept
// beyond record order; callers needing it can split Records using the
// header counts.
type Message struct {
	Header  Header
	Records []Record
}

// ParseMessage decodes a raw datagram into a [*Message].
//
// Any malformed field anywhere aborts the whole decode with the first
// error encountered and no partial result: the caller should treat the
// datagram as unusable and continue listening for the next one.
func ParseMessage(buf []byte) (*Message, error) {
	if len(buf) < headerSize {
		return nil, ErrTruncatedMessage
	}
	header := Header{
		ID:      binary.BigEndian.Uint16(buf[0:]),
		Flags:   binary.BigEndian.Uint16(buf[2:]),
		QDCount: binary.BigEndian.Uint16(buf[4:]),
		ANCount: binary.BigEndian.Uint16(buf[6:]),
		NSCount: binary.BigEndian.Uint16(buf[8:]),
		ARCount: binary.BigEndian.Uint16(buf[10:]),
	}
	off := headerSize

	// Skip the question section: each question is a name followed by
	// four bytes of type and class we do not interpret.
	for i := 0; i < int(header.QDCount); i++ {
		_, n, err := decodeName(buf, off)
		if err != nil {
			return nil, err
		}
		off += n
		if off+4 > len(buf) {
			return nil, ErrTruncatedMessage
		}
		off += 4
	}

	total := int(header.ANCount) + int(header.NSCount) + int(header.ARCount)
	records := make([]Record, 0, total)
	for i := 0; i < total; i++ {
		rec, next, err := decodeRecord(buf, off)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
		off = next
	}

	return &Message{Header: header, Records: records}, nil
}

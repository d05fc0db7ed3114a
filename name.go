//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package dnscodec

import (
	"encoding/binary"
	"strings"
)

// pointerMask marks the top two bits of a length byte that turn it, with
// the following byte, into a 14-bit compression pointer.
const pointerMask = 0xC0

// maxPointerHops bounds compression pointer chains so that a malicious or
// corrupt datagram with a pointer loop cannot keep the decoder busy
// forever.
const maxPointerHops = 128

// nameState tracks whether the cursor is still in the original record
// stream or has jumped through a compression pointer.
type nameState int

const (
	// nameLinear: no pointer followed yet; consumed bytes track the
	// cursor directly.
	nameLinear nameState = iota

	// nameFollowing: a pointer was followed; consumed bytes were frozen
	// at the position of the first pointer plus its two bytes.
	nameFollowing
)

// decodeName reads a possibly compressed domain name from buf starting at
// off and returns the dot-joined labels plus the number of bytes the name
// occupies in the original record stream.
//
// While no pointer has been followed, the count is the distance from off
// to just past the zero terminator. Once any pointer is followed, the
// count freezes at the offset of that first pointer plus two, no matter
// how far decoding wanders through the jumped-to region: that is where
// the name ends as far as the caller's cursor is concerned.
//
// Returns [ErrTruncatedMessage] when a length byte, label, or pointer
// extends past the buffer, and [ErrCompressionLoop] when the pointer
// chain exceeds the hop bound.
func decodeName(buf []byte, off int) (string, int, error) {
	var labels []string
	state := nameLinear
	consumed := 0
	cur := off
	hops := 0

	for {
		if cur >= len(buf) {
			return "", 0, ErrTruncatedMessage
		}
		b := buf[cur]

		switch {
		case b == 0x00:
			if state == nameLinear {
				consumed = cur + 1 - off
			}
			return strings.Join(labels, "."), consumed, nil

		case b&pointerMask == pointerMask:
			if cur+1 >= len(buf) {
				return "", 0, ErrTruncatedMessage
			}
			if state == nameLinear {
				consumed = cur + 2 - off
				state = nameFollowing
			}
			hops++
			if hops > maxPointerHops {
				return "", 0, ErrCompressionLoop
			}
			// The pointer target is an absolute offset into the
			// same buffer; label reading never resumes at the
			// original location afterward.
			cur = int(binary.BigEndian.Uint16(buf[cur:]) &^ (pointerMask << 8))

		default:
			end := cur + 1 + int(b)
			if end > len(buf) {
				return "", 0, ErrTruncatedMessage
			}
			labels = append(labels, string(buf[cur+1:end]))
			cur = end
		}
	}
}

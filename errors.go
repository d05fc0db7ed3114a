//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package dnscodec

import "errors"

// Errors returned while encoding or decoding a datagram. Every decode
// error is local to the datagram that produced it: the caller should drop
// the datagram and keep processing subsequent ones.
var (
	// ErrTruncatedMessage means the buffer is too short for a declared
	// field or length.
	ErrTruncatedMessage = errors.New("truncated DNS message")

	// ErrCompressionLoop means a name compression pointer chain exceeded
	// the hop bound and cannot terminate.
	ErrCompressionLoop = errors.New("DNS name compression loop")

	// ErrMalformedTxtRecord means the TXT sub-string boundaries do not
	// sum to the record's declared rdata length.
	ErrMalformedTxtRecord = errors.New("malformed TXT record")

	// ErrMalformedARecord means an A record's rdata is not exactly four
	// bytes long.
	ErrMalformedARecord = errors.New("malformed A record")

	// ErrInvalidName means a query name contains an empty label, a label
	// longer than 63 bytes, or exceeds 255 bytes once encoded.
	ErrInvalidName = errors.New("invalid DNS name")
)

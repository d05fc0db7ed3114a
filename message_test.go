// SPDX-License-Identifier: GPL-3.0-or-later

package dnscodec

import (
	"net"
	"net/netip"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

// smartPTRResponse is a hand-built reply to a _smart_ip._tcp.local PTR
// query: the question name spelled out at offset 12, and one answer whose
// name is a pointer to the question and whose rdata prepends a label to
// another pointer.
var smartPTRResponse = []byte{
	// header: id=0, flags=response+authoritative, qdcount=1, ancount=1
	0x00, 0x00, 0x84, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
	// question: _smart_ip._tcp.local PTR IN
	0x09, '_', 's', 'm', 'a', 'r', 't', '_', 'i', 'p',
	0x04, '_', 't', 'c', 'p',
	0x05, 'l', 'o', 'c', 'a', 'l',
	0x00,
	0x00, 0x0c, 0x00, 0x01,
	// answer name: pointer to offset 12
	0xC0, 0x0C,
	// type=PTR, class=IN, ttl=4500, rdlength=11
	0x00, 0x0c, 0x00, 0x01, 0x00, 0x00, 0x11, 0x94, 0x00, 0x0b,
	// rdata: Device-A + pointer to offset 12
	0x08, 'D', 'e', 'v', 'i', 'c', 'e', '-', 'A', 0xC0, 0x0C,
}

func TestParseMessageCompressedPTR(t *testing.T) {
	msg, err := ParseMessage(smartPTRResponse)
	require.NoError(t, err)

	require.Equal(t, uint16(0), msg.Header.ID)
	require.Equal(t, uint16(0x8400), msg.Header.Flags)
	require.Equal(t, uint16(1), msg.Header.QDCount)
	require.Equal(t, uint16(1), msg.Header.ANCount)

	require.Len(t, msg.Records, 1)
	rec := msg.Records[0]
	require.Equal(t, "_smart_ip._tcp.local", rec.Name)
	require.Equal(t, TypePTR, rec.Type)
	require.Equal(t, ClassINET, rec.Class)
	require.Equal(t, uint32(4500), rec.TTL)
	require.Equal(t, PTR{Target: "Device-A._smart_ip._tcp.local"}, rec.Data)
}

func TestParseMessageTruncation(t *testing.T) {
	// Cutting the message at any byte boundary before the last record's
	// end must fail with a truncation error, never parse partially.
	for i := 0; i < len(smartPTRResponse); i++ {
		_, err := ParseMessage(smartPTRResponse[:i])
		require.ErrorIs(t, err, ErrTruncatedMessage, "truncated at %d", i)
	}
}

func TestParseMessageReferenceCodec(t *testing.T) {
	// Pack a full discovery reply with an independent codec, with name
	// compression enabled, and decode it with ours.
	reply := new(dns.Msg)
	reply.Response = true
	reply.Authoritative = true
	reply.Compress = true
	reply.Answer = []dns.RR{&dns.PTR{
		Hdr: dns.RR_Header{
			Name:   "_smart_ip._tcp.local.",
			Rrtype: dns.TypePTR,
			Class:  dns.ClassINET,
			Ttl:    4500,
		},
		Ptr: "Device-A._smart_ip._tcp.local.",
	}}
	reply.Extra = []dns.RR{
		&dns.SRV{
			Hdr: dns.RR_Header{
				Name:   "Device-A._smart_ip._tcp.local.",
				Rrtype: dns.TypeSRV,
				Class:  dns.ClassINET,
				Ttl:    120,
			},
			Priority: 0,
			Weight:   0,
			Port:     8080,
			Target:   "device-a.local.",
		},
		&dns.TXT{
			Hdr: dns.RR_Header{
				Name:   "Device-A._smart_ip._tcp.local.",
				Rrtype: dns.TypeTXT,
				Class:  dns.ClassINET,
				Ttl:    4500,
			},
			Txt: []string{"ver=1.0", "flag"},
		},
		&dns.A{
			Hdr: dns.RR_Header{
				Name:   "device-a.local.",
				Rrtype: dns.TypeA,
				Class:  dns.ClassINET,
				Ttl:    120,
			},
			A: net.IPv4(192, 168, 1, 42),
		},
	}

	raw, err := reply.Pack()
	require.NoError(t, err)

	msg, err := ParseMessage(raw)
	require.NoError(t, err)

	require.Equal(t, uint16(1), msg.Header.ANCount)
	require.Equal(t, uint16(0), msg.Header.NSCount)
	require.Equal(t, uint16(3), msg.Header.ARCount)
	require.Len(t, msg.Records, 4)

	require.Equal(t, "_smart_ip._tcp.local", msg.Records[0].Name)
	require.Equal(t, PTR{Target: "Device-A._smart_ip._tcp.local"}, msg.Records[0].Data)

	require.Equal(t, "Device-A._smart_ip._tcp.local", msg.Records[1].Name)
	require.Equal(t, SRV{
		Priority: 0,
		Weight:   0,
		Port:     8080,
		Target:   "device-a.local",
	}, msg.Records[1].Data)

	require.Equal(t, TXT{Attrs: map[string]TXTValue{
		"ver":  {Value: "1.0"},
		"flag": {Flag: true},
	}}, msg.Records[2].Data)

	require.Equal(t, "device-a.local", msg.Records[3].Name)
	require.Equal(t, A{Addr: netip.AddrFrom4([4]byte{192, 168, 1, 42})}, msg.Records[3].Data)
}

func TestParseMessageHeaderOnly(t *testing.T) {
	msg, err := ParseMessage(make([]byte, headerSize))
	require.NoError(t, err)
	require.Equal(t, Header{}, msg.Header)
	require.Empty(t, msg.Records)
}

func TestParseMessageTooShortForHeader(t *testing.T) {
	_, err := ParseMessage([]byte{0x00, 0x00, 0x84})
	require.ErrorIs(t, err, ErrTruncatedMessage)
}

func TestParseMessageQuestionCutShort(t *testing.T) {
	// A question name that decodes fine but leaves no room for the
	// four-byte type and class tail.
	buf := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x03, 'f', 'o', 'o', 0x00,
		0x00, 0x0c,
	}
	_, err := ParseMessage(buf)
	require.ErrorIs(t, err, ErrTruncatedMessage)
}

func TestParseMessageCompressionLoop(t *testing.T) {
	// One answer whose name is a pointer to itself.
	buf := []byte{
		0x00, 0x00, 0x84, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
		0xC0, 0x0C,
	}
	_, err := ParseMessage(buf)
	require.ErrorIs(t, err, ErrCompressionLoop)
}

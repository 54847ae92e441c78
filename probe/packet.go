package probe

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/BurkeyCode/routecheck/addr"
)

// embeddedEcho is the part of our original echo request quoted inside a
// TimeExceeded or DestinationUnreachable message: the quoted IPv4 header's
// destination plus the echo ID and sequence number.
type embeddedEcho struct {
	Dst addr.Addr
	ID  uint16
	Seq uint16
}

// parseEmbeddedEcho decodes the quoted IPv4 packet carried in an ICMP error
// payload. Routers are required to quote the original IP header plus at
// least the first 8 bytes of its payload, which for an echo request is the
// full ICMP header.
func parseEmbeddedEcho(data []byte) (embeddedEcho, error) {
	var ip4 layers.IPv4
	if err := ip4.DecodeFromBytes(data, gopacket.NilDecodeFeedback); err != nil {
		return embeddedEcho{}, fmt.Errorf("failed to decode quoted IPv4 header: %w", err)
	}
	if ip4.Protocol != layers.IPProtocolICMPv4 {
		return embeddedEcho{}, fmt.Errorf("quoted packet is not ICMP (protocol %d)", ip4.Protocol)
	}

	dst, ok := addr.FromSlice(ip4.DstIP)
	if !ok {
		return embeddedEcho{}, fmt.Errorf("quoted packet has invalid destination %s", ip4.DstIP)
	}

	// ICMP header layout: Type(1) Code(1) Checksum(2) ID(2) Seq(2)
	icmpBytes := ip4.Payload
	if len(icmpBytes) < 8 {
		return embeddedEcho{}, fmt.Errorf("quoted ICMP header too short: %d bytes", len(icmpBytes))
	}
	if icmpBytes[0] != uint8(layers.ICMPv4TypeEchoRequest) {
		return embeddedEcho{}, fmt.Errorf("quoted ICMP is not an echo request (type %d)", icmpBytes[0])
	}

	return embeddedEcho{
		Dst: dst,
		ID:  uint16(icmpBytes[4])<<8 | uint16(icmpBytes[5]),
		Seq: uint16(icmpBytes[6])<<8 | uint16(icmpBytes[7]),
	}, nil
}

package probe

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"os"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"

	"github.com/BurkeyCode/routecheck/addr"
	"github.com/BurkeyCode/routecheck/log"
)

const (
	recvBufferSize = 1500
	// protocolICMP is the IANA protocol number for ICMPv4, which
	// icmp.ParseMessage wants.
	protocolICMP = 1
)

var echoPayload = []byte("ROUTECHECK")

// ICMPProber implements Prober over a raw ip4:icmp socket. It is not safe
// for concurrent use; a trace issues one probe at a time.
type ICMPProber struct {
	conn *icmp.PacketConn

	// identifier ties replies back to this prober's echo requests
	identifier uint16
	// seqBase is randomized per prober; the sequence increments per probe
	seqBase uint16
	seq     uint16

	buffer []byte
}

var _ Prober = &ICMPProber{}

// NewICMPProber acquires the raw ICMP socket. Failures, including EPERM and
// EACCES when the process lacks raw-socket privilege, come back as
// *ResourceError.
func NewICMPProber() (*ICMPProber, error) {
	conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
			return nil, &ResourceError{Err: fmt.Errorf("raw ICMP socket requires elevated privileges: %w", err)}
		}
		return nil, &ResourceError{Err: err}
	}

	return &ICMPProber{
		conn:       conn,
		identifier: uint16(rand.Uint32()),
		seqBase:    uint16(rand.Uint32()),
		buffer:     make([]byte, recvBufferSize),
	}, nil
}

// Probe sends one echo request with the given TTL and waits up to timeout
// for a matching reply.
func (p *ICMPProber) Probe(ctx context.Context, dest addr.Addr, ttl int, timeout time.Duration) (Outcome, error) {
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	p.seq++
	seq := p.seqBase + p.seq

	if err := p.conn.IPv4PacketConn().SetTTL(ttl); err != nil {
		return Outcome{}, fmt.Errorf("failed to set TTL=%d: %w", ttl, err)
	}

	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Body: &icmp.Echo{
			ID:   int(p.identifier),
			Seq:  int(seq),
			Data: echoPayload,
		},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to marshal echo request: %w", err)
	}

	log.Tracef("sending echo probe to %s with ttl=%d seq=%d", dest, ttl, seq)
	if _, err := p.conn.WriteTo(wb, &net.IPAddr{IP: dest.NetIP()}); err != nil {
		return Outcome{}, fmt.Errorf("failed to send echo request to %s: %w", dest, err)
	}

	return p.awaitReply(dest, seq, deadline)
}

// awaitReply reads from the socket until a packet matching our echo arrives
// or the deadline passes. Unrelated ICMP traffic is skipped.
func (p *ICMPProber) awaitReply(dest addr.Addr, seq uint16, deadline time.Time) (Outcome, error) {
	for {
		if err := p.conn.SetReadDeadline(deadline); err != nil {
			return Outcome{}, fmt.Errorf("failed to set read deadline: %w", err)
		}

		n, peer, err := p.conn.ReadFrom(p.buffer)
		if err != nil {
			if os.IsTimeout(err) {
				return Outcome{}, nil
			}
			return Outcome{}, fmt.Errorf("failed to read from ICMP socket: %w", err)
		}

		responder, ok := p.matchReply(dest, seq, peer, p.buffer[:n])
		if !ok {
			continue
		}
		return Outcome{Replied: true, Responder: responder}, nil
	}
}

// matchReply decides whether a received packet answers the probe identified
// by seq, and if so returns the responding address.
func (p *ICMPProber) matchReply(dest addr.Addr, seq uint16, peer net.Addr, packet []byte) (addr.Addr, bool) {
	responder, ok := addrFromNetAddr(peer)
	if !ok {
		return addr.Addr{}, false
	}

	msg, err := icmp.ParseMessage(protocolICMP, packet)
	if err != nil {
		log.Tracef("ignoring unparseable ICMP packet from %s: %s", peer, err)
		return addr.Addr{}, false
	}

	switch msg.Type {
	case ipv4.ICMPTypeEchoReply:
		echo, ok := msg.Body.(*icmp.Echo)
		if !ok {
			return addr.Addr{}, false
		}
		if uint16(echo.ID) != p.identifier || uint16(echo.Seq) != seq {
			log.Tracef("ignoring echo reply with id=%d seq=%d from %s", echo.ID, echo.Seq, peer)
			return addr.Addr{}, false
		}
		return responder, true

	case ipv4.ICMPTypeTimeExceeded, ipv4.ICMPTypeDestinationUnreachable:
		var data []byte
		switch body := msg.Body.(type) {
		case *icmp.TimeExceeded:
			data = body.Data
		case *icmp.DstUnreach:
			data = body.Data
		default:
			return addr.Addr{}, false
		}

		embedded, err := parseEmbeddedEcho(data)
		if err != nil {
			log.Tracef("ignoring ICMP error from %s: %s", peer, err)
			return addr.Addr{}, false
		}
		if embedded.ID != p.identifier || embedded.Seq != seq {
			return addr.Addr{}, false
		}
		if embedded.Dst != dest {
			log.Tracef("ignoring ICMP error quoting a packet for %s, want %s", embedded.Dst, dest)
			return addr.Addr{}, false
		}
		return responder, true

	default:
		return addr.Addr{}, false
	}
}

// Close releases the raw socket.
func (p *ICMPProber) Close() error {
	return p.conn.Close()
}

func addrFromNetAddr(a net.Addr) (addr.Addr, bool) {
	ipAddr, ok := a.(*net.IPAddr)
	if !ok {
		return addr.Addr{}, false
	}
	return addr.FromSlice(ipAddr.IP)
}

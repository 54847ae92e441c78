// Package addr holds the 4-byte IPv4 address value type the rest of the
// module traffics in. Addresses compare by value; two nodes with the same
// Addr are the same network location whatever their labels say.
package addr

import (
	"fmt"
	"net"
	"net/netip"
)

// Addr is an IPv4 address in network byte order. The zero value is 0.0.0.0.
type Addr [4]byte

// InvalidAddressError reports text that is not a well-formed dotted-decimal
// IPv4 literal.
type InvalidAddressError struct {
	Text string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid IPv4 address: %q", e.Text)
}

// Parse converts a dotted-decimal IPv4 literal to an Addr. Anything else,
// including IPv6 and IPv4-mapped IPv6 literals, fails with
// *InvalidAddressError.
func Parse(text string) (Addr, error) {
	ip, err := netip.ParseAddr(text)
	if err != nil || !ip.Is4() {
		return Addr{}, &InvalidAddressError{Text: text}
	}
	return Addr(ip.As4()), nil
}

// MustParse is Parse for literals known to be valid; it panics otherwise.
func MustParse(text string) Addr {
	a, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return a
}

// FromSlice converts a 4-byte slice (or an IPv4-in-IPv6 16-byte slice, as
// returned by some net APIs) to an Addr.
func FromSlice(b []byte) (Addr, bool) {
	ip, ok := netip.AddrFromSlice(b)
	if !ok {
		return Addr{}, false
	}
	ip = ip.Unmap()
	if !ip.Is4() {
		return Addr{}, false
	}
	return Addr(ip.As4()), true
}

// String returns the canonical dotted-decimal form. Total: every Addr
// formats, and Parse(a.String()) == a.
func (a Addr) String() string {
	return netip.AddrFrom4(a).String()
}

// NetIP returns the address as a net.IP for APIs that want one.
func (a Addr) NetIP() net.IP {
	return net.IPv4(a[0], a[1], a[2], a[3])
}

// MarshalText implements encoding.TextMarshaler so Addr fields serialize as
// dotted-decimal strings in JSON results.
func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Addr) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

//go:build !linux

package gateway

// DefaultGateways is only implemented on Linux; elsewhere callers must name
// their gateways explicitly.
func DefaultGateways() ([]Gateway, error) {
	return nil, ErrUnsupported
}

// Package publicip figures out the probing host's public IP so runs can be
// attributed to the right egress when checks from several sites are
// compared.
package publicip

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/BurkeyCode/routecheck/cache"
	"github.com/BurkeyCode/routecheck/log"
)

const defaultPublicIPCacheExpiration = 2 * time.Hour

// Fetcher returns the host's public IP.
type Fetcher interface {
	GetIP(ctx context.Context) (net.IP, error)
}

// PublicIPFetcher queries a set of well-known IP checker services, falling
// back to an external-ip consensus, and caches the answer.
type PublicIPFetcher struct {
	client *http.Client
}

var _ Fetcher = &PublicIPFetcher{}

// NewPublicIPFetcher returns a Fetcher with a default HTTP client.
func NewPublicIPFetcher() *PublicIPFetcher {
	return &PublicIPFetcher{
		client: &http.Client{},
	}
}

// GetIP returns the cached public IP, fetching it on a miss.
func (p *PublicIPFetcher) GetIP(ctx context.Context) (net.IP, error) {
	myIP, err := cache.GetWithExpiration("source_public_ip", func() ([]byte, error) {
		ip, err := GetPublicIP(ctx, p.client)
		if err != nil {
			return nil, err
		}
		log.Debugf("public IP fetched: %s", ip.String())
		return ip, nil
	}, defaultPublicIPCacheExpiration)

	if err != nil {
		return nil, err
	}

	return myIP, nil
}

package publicip

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	externalip "github.com/glendc/go-external-ip"

	"github.com/BurkeyCode/routecheck/log"
)

// ipCheckers list of reliable public IP checkers
var ipCheckers = []string{
	"https://icanhazip.com/",
	"https://ipinfo.io/ip",
	"https://checkip.amazonaws.com/",
	"https://api.ipify.org/",
	"https://whatismyip.akamai.com/",
}

// GetPublicIP tries the checkers in order and falls back to an external-ip
// consensus when none of them answers.
func GetPublicIP(ctx context.Context, client *http.Client) (net.IP, error) {
	for _, ipChecker := range ipCheckers {
		ip, err := doGetPublicIP(ctx, client, ipChecker)
		if err != nil {
			log.Debugf("error fetching from %s: %s", ipChecker, err.Error())
			continue
		}
		return ip, nil
	}
	return getPublicIPConsensus()
}

func doGetPublicIP(ctx context.Context, client *http.Client, dest string) (net.IP, error) {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 500 * time.Millisecond
	expBackoff.MaxInterval = 3 * time.Second

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dest, nil)
	if err != nil {
		return nil, errors.New("failed to create new request: " + err.Error())
	}

	operation := func() (net.IP, error) {
		resp, err := client.Do(req)
		if err != nil {
			return nil, errors.New("failed to fetch req: " + err.Error())
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.New("failed to read content: " + err.Error())
		}

		// Client errors won't heal on retry.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(errors.New("request rejected: " + resp.Status))
		}

		tb := strings.TrimSpace(string(body))
		ip := net.ParseIP(tb)
		if ip == nil {
			return nil, errors.New("IP address not valid: " + tb)
		}
		return ip, nil
	}
	result, err := backoff.Retry(ctx, operation, backoff.WithBackOff(expBackoff), backoff.WithMaxTries(3))
	if err != nil {
		return nil, errors.New("backoff retry error: " + err.Error())
	}

	return result, nil
}

// getPublicIPConsensus asks several voters and takes the majority answer.
func getPublicIPConsensus() (net.IP, error) {
	consensus := externalip.DefaultConsensus(nil, nil)
	consensus.UseIPProtocol(4)

	ip, err := consensus.ExternalIP()
	if err != nil {
		return nil, errors.New("public IP consensus failed: " + err.Error())
	}
	return ip, nil
}

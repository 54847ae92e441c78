// Package server exposes the route check over a small HTTP API.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/BurkeyCode/routecheck/log"
	"github.com/BurkeyCode/routecheck/runner"
	"github.com/BurkeyCode/routecheck/trace"
)

// Server is the HTTP server for the route check API.
type Server struct {
	rc        *runner.RouteCheck
	startTime time.Time
}

// NewServer creates a new HTTP server with an initialized RouteCheck instance.
func NewServer() *Server {
	return &Server{
		rc:        runner.NewRouteCheck(),
		startTime: time.Now(),
	}
}

// RouteCheckHandler handles GET /routecheck requests.
func (s *Server) RouteCheckHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params, err := parseRouteCheckParams(r.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	results, err := s.rc.Run(r.Context(), params)
	if err != nil {
		status := http.StatusInternalServerError
		if runner.ClassifyError(err).Code == runner.ErrCodeInvalidRequest {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
}

// HealthHandler handles GET and HEAD /health requests.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodHead {
		return
	}

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
	}
}

// parseRouteCheckParams extracts and validates query parameters from the
// request URL.
func parseRouteCheckParams(u *url.URL) (runner.Params, error) {
	query := u.Query()

	destination := query.Get("destination")
	if destination == "" {
		return runner.Params{}, fmt.Errorf("missing required parameter destination: %w", runner.ErrMissingDestination)
	}

	maxHops := getIntParam(query, "max-ttl", trace.DefaultMaxHops)
	timeoutMs := getIntParam(query, "timeout", int(trace.DefaultTimeout.Milliseconds()))
	autoGateway := getBoolParam(query, "auto-gateway", false)
	collectSourcePublicIP := getBoolParam(query, "source-public-ip", false)

	return runner.Params{
		Destination:           destination,
		Gateways:              query["gateway"],
		MaxHops:               maxHops,
		Timeout:               time.Duration(timeoutMs) * time.Millisecond,
		AutoGateway:           autoGateway,
		CollectSourcePublicIP: collectSourcePublicIP,
	}, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	classified := runner.ClassifyError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(runner.ErrorResponse{
		Code:    classified.Code,
		Message: classified.Message,
	}); err != nil {
		log.Errorf("failed to encode error response: %s", err)
	}
}

// Handler returns the API routes for embedding in an http.Server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/routecheck", s.RouteCheckHandler)
	mux.HandleFunc("/health", s.HealthHandler)
	return mux
}

// Start serves the API on addr until the listener fails.
func (s *Server) Start(addr string) error {
	log.Debugf("Starting HTTP server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

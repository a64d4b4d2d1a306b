package gam

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// apiScope is the OAuth scope covering the whole Ad Manager API.
const apiScope = "https://www.googleapis.com/auth/dfp"

// Session is an authenticated handle to a single Ad Manager network.
// It is read-only after construction and safe to share across sequential
// calls; it performs no internal locking for concurrent use.
type Session struct {
	httpClient      *http.Client
	endpoint        string
	networkCode     string
	applicationName string
}

// NewSession exchanges the configured service-account credential for an
// authenticated session scoped to cfg.NetworkCode.
//
// The credential bytes are handed to the oauth2 library directly; no
// transient key file is written. A malformed credential or a token endpoint
// rejection is reported as *AuthError.
func NewSession(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.NetworkCode == "" {
		return nil, fmt.Errorf("network code is required")
	}

	raw, err := credentialBytes(cfg)
	if err != nil {
		return nil, err
	}

	jwtConfig, err := google.JWTConfigFromJSON(raw, apiScope)
	if err != nil {
		return nil, &AuthError{Reason: "decoding credentials", Err: err}
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Fetch a token eagerly so a rejected credential fails here rather than
	// on the first API call.
	source := jwtConfig.TokenSource(ctx)
	if _, err := source.Token(); err != nil {
		return nil, &AuthError{Reason: "fetching token", Err: err}
	}

	httpClient := oauth2.NewClient(ctx, source)
	httpClient.Timeout = timeoutDuration

	return &Session{
		httpClient:      httpClient,
		endpoint:        strings.TrimSuffix(cfg.Endpoint, "/"),
		networkCode:     cfg.NetworkCode,
		applicationName: cfg.ApplicationName,
	}, nil
}

// NetworkCode returns the network this session is bound to.
func (s *Session) NetworkCode() string {
	return s.networkCode
}

// Targeting returns the custom targeting service backed by this session.
func (s *Session) Targeting() TargetingService {
	return &restTargetingService{session: s}
}

// Reports returns the report service backed by this session.
func (s *Session) Reports() ReportService {
	return &restReportService{session: s}
}

// credentialBytes resolves the configured credential source. Inline JSON
// wins over a file path.
func credentialBytes(cfg Config) ([]byte, error) {
	if cfg.CredentialsJSON != "" {
		return []byte(cfg.CredentialsJSON), nil
	}
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("no credentials configured: set credentials_file or credentials_json")
	}
	raw, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, &AuthError{Reason: "reading credentials file", Err: err}
	}
	return raw, nil
}

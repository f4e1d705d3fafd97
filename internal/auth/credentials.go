package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/lojasmm/rbm/internal/rbm"
)

// Scope is the single OAuth scope the RBM agent API needs.
const Scope = "https://www.googleapis.com/auth/rcsbusinessmessaging"

// ServiceAccount is a loaded service-account key, scoped for RBM.
type ServiceAccount struct {
	ProjectID   string
	ClientEmail string
	tokens      oauth2.TokenSource
}

// LoadServiceAccount reads a service-account key file. Token exchange is
// lazy: nothing is fetched until the first API call.
func LoadServiceAccount(ctx context.Context, path string) (*ServiceAccount, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: service account key file not set", rbm.ErrConfiguration)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading service account key: %v", rbm.ErrConfiguration, err)
	}
	return ParseServiceAccount(ctx, data)
}

// ParseServiceAccount is LoadServiceAccount for key material already in memory.
func ParseServiceAccount(ctx context.Context, data []byte) (*ServiceAccount, error) {
	var key struct {
		Type        string `json:"type"`
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("%w: decoding service account key: %v", rbm.ErrConfiguration, err)
	}
	if key.Type != "service_account" {
		return nil, fmt.Errorf("%w: key type %q is not service_account", rbm.ErrConfiguration, key.Type)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: loading credentials: %v", rbm.ErrConfiguration, err)
	}

	return &ServiceAccount{
		ProjectID:   creds.ProjectID,
		ClientEmail: key.ClientEmail,
		tokens:      oauth2.ReuseTokenSource(nil, creds.TokenSource),
	}, nil
}

// NewHTTPClient returns a client that attaches a bearer token to every request.
// The client is safe for concurrent use and should be shared.
func (sa *ServiceAccount) NewHTTPClient(ctx context.Context, timeout time.Duration) *http.Client {
	client := oauth2.NewClient(ctx, sa.tokens)
	client.Timeout = timeout
	return client
}

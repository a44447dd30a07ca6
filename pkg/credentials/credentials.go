// Package credentials supplies authentication for the git transport.
// The sync engine never looks inside what a Provider returns; it only
// hands it to go-git.
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/zalando/go-keyring"
)

// A Provider returns the auth method to use for a remote.  A nil
// method with a nil error means anonymous access.
type Provider interface {
	CredentialsFor(remoteURL string) (transport.AuthMethod, error)
}

// None always uses anonymous access.
type None struct{}

// CredentialsFor implements Provider.
func (None) CredentialsFor(string) (transport.AuthMethod, error) {
	return nil, nil
}

// Static uses one username and token for every remote.
type Static struct {
	Username string
	Token    string
}

// CredentialsFor implements Provider.
func (s Static) CredentialsFor(string) (transport.AuthMethod, error) {
	return basicAuth(s.Username, s.Token), nil
}

// Keyring looks tokens up in the OS credential store.  Tokens are
// stored under Service with the remote's host as the account, so a
// single service can hold tokens for several hosting providers.
type Keyring struct {
	Service  string
	Username string
}

// CredentialsFor implements Provider.
func (k Keyring) CredentialsFor(remoteURL string) (transport.AuthMethod, error) {
	host, err := hostOf(remoteURL)
	if err != nil || host == "" {
		// Local paths have no host to key a token on.
		return nil, err
	}
	token, err := keyring.Get(k.Service, host)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("reading token for %s from credential store: %w", host, err)
	}
	return basicAuth(k.Username, token), nil
}

// Store saves a token for host in the credential store.
func (k Keyring) Store(host, token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.Set(k.Service, host, token); err != nil {
		return fmt.Errorf("storing token in credential store: %w", err)
	}
	return nil
}

func basicAuth(username, token string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	if username == "" {
		// GitHub and friends accept any non-empty username
		// alongside a personal access token.
		username = "token"
	}
	return &http.BasicAuth{Username: username, Password: token}
}

func hostOf(remoteURL string) (string, error) {
	ep, err := transport.NewEndpoint(remoteURL)
	if err != nil {
		return "", fmt.Errorf("parsing remote url: %w", err)
	}
	return ep.Host, nil
}

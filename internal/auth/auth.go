// Package auth provides session token lookup for the earn site.
// It implements a simple interface with multiple providers following the
// "deep modules" principle - simple interface, complex implementation hidden.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keyring service name the session token lives under.
const KeyringService = "earn"

// KeyringAccount is the keyring account used for the session token.
const KeyringAccount = "session-token"

// TokenEnv is the environment variable consulted when the keyring is empty.
const TokenEnv = "EARN_SESSION_TOKEN"

// ErrNoToken indicates no provider could supply a session token.
// Callers treat it as "signed out", not as a failure.
var ErrNoToken = errors.New("no session token")

// TokenProvider defines the interface for obtaining a session token.
// Implementations may use different sources (OS keyring, environment variables, etc).
type TokenProvider interface {
	GetToken() (string, error)
}

// KeyringProvider reads the token stored by `earn login` in the OS keyring.
type KeyringProvider struct {
	Service string
	Account string
}

// NewKeyringProvider returns a provider for the default service/account pair.
func NewKeyringProvider() *KeyringProvider {
	return &KeyringProvider{Service: KeyringService, Account: KeyringAccount}
}

// GetToken fetches the token from the keyring.
// Returns ErrNoToken if the entry is missing or empty.
func (k *KeyringProvider) GetToken() (string, error) {
	token, err := keyring.Get(k.Service, k.Account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("keyring lookup failed: %w", err)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// EnvProvider obtains tokens from the EARN_SESSION_TOKEN environment variable.
type EnvProvider struct{}

// GetToken reads the EARN_SESSION_TOKEN environment variable.
func (e *EnvProvider) GetToken() (string, error) {
	token := strings.TrimSpace(os.Getenv(TokenEnv))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Chain tries each provider in order and returns the first token found.
type Chain []TokenProvider

// GetToken returns the first available token. Provider errors other than
// ErrNoToken are skipped so a broken keyring still falls through to the env var.
func (c Chain) GetToken() (string, error) {
	for _, p := range c {
		token, err := p.GetToken()
		if err == nil {
			return token, nil
		}
	}
	return "", ErrNoToken
}

// DefaultChain is the lookup order used by the application:
// 1. OS keyring (written by `earn login`)
// 2. EARN_SESSION_TOKEN environment variable
func DefaultChain() Chain {
	return Chain{NewKeyringProvider(), &EnvProvider{}}
}

// SaveToken stores a session token in the OS keyring.
func SaveToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("session token is empty")
	}
	return keyring.Set(KeyringService, KeyringAccount, token)
}

// DeleteToken removes the stored session token. Deleting a missing token is not an error.
func DeleteToken() error {
	err := keyring.Delete(KeyringService, KeyringAccount)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete failed: %w", err)
	}
	return nil
}

package config

import (
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "vendorpull"
	keyringTokenID = "github-token"
)

// ResolveToken returns the GitHub token to use for API calls. The
// GITHUB_TOKEN environment variable takes precedence; otherwise the OS
// keyring is consulted. An empty string means no token is available.
func ResolveToken() string {
	if token := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); token != "" {
		return token
	}

	token, err := keyring.Get(keyringService, keyringTokenID)
	if err != nil {
		// No keyring entry (or no keyring backend); proceed unauthenticated.
		return ""
	}
	return strings.TrimSpace(token)
}

// StoreToken saves the GitHub token in the OS keyring.
func StoreToken(token string) error {
	return keyring.Set(keyringService, keyringTokenID, token)
}

// DeleteToken removes the GitHub token from the OS keyring.
func DeleteToken() error {
	return keyring.Delete(keyringService, keyringTokenID)
}

package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// TokenProvider supplies OAuth tokens per account.
type TokenProvider interface {
	// GetTokenForAccount retrieves an OAuth token for the specified account
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)

	// HasTokenForAccount checks if a token exists for the specified account
	HasTokenForAccount(account string) bool
}

var accountNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateAccountName rejects names that could escape the token directory.
func ValidateAccountName(account string) error {
	if !accountNamePattern.MatchString(account) {
		return fmt.Errorf("invalid account name %q: use letters, digits, '-' or '_'", account)
	}
	return nil
}

// FileTokenProvider reads tokens from <dir>/google-<account>.token. Tokens
// are obtained out of band; the provider never writes them.
type FileTokenProvider struct {
	dir string
}

// NewFileTokenProvider creates a provider reading from dir. An empty dir
// means DefaultTokenDir().
func NewFileTokenProvider(dir string) *FileTokenProvider {
	if dir == "" {
		dir = DefaultTokenDir()
	}
	return &FileTokenProvider{dir: dir}
}

// Dir returns the token directory.
func (p *FileTokenProvider) Dir() string {
	return p.dir
}

// GetTokenForAccount reads and decodes the token file for account.
func (p *FileTokenProvider) GetTokenForAccount(_ context.Context, account string) (*oauth2.Token, error) {
	if err := ValidateAccountName(account); err != nil {
		return nil, err
	}

	path := TokenFilePath(p.dir, account)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no Google token for account %q; expected %s", account, path)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	token, err := parseToken(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", path, err)
	}
	return token, nil
}

// HasTokenForAccount reports whether a token file exists for account.
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	if ValidateAccountName(account) != nil {
		return false
	}
	_, err := os.Stat(TokenFilePath(p.dir, account))
	return err == nil
}

// parseToken accepts either an oauth2.Token JSON document or the legacy
// "<access> <refresh>" two-field format.
func parseToken(data []byte) (*oauth2.Token, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var token oauth2.Token
		if err := json.Unmarshal([]byte(trimmed), &token); err != nil {
			return nil, err
		}
		if token.AccessToken == "" && token.RefreshToken == "" {
			return nil, fmt.Errorf("token has neither access nor refresh token")
		}
		return &token, nil
	}

	fields := strings.Fields(trimmed)
	if len(fields) != 2 {
		return nil, fmt.Errorf("invalid token format")
	}
	return &oauth2.Token{
		AccessToken:  fields[0],
		TokenType:    "Bearer",
		RefreshToken: fields[1],
		// Forces a refresh on first use.
		Expiry: time.Unix(1, 0),
	}, nil
}

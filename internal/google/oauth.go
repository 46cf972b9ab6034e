package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
)

// Scopes requested for calendar access. Writing is only needed for focus
// time blocks.
var Scopes = []string{
	calendar.CalendarScope,
}

// Credentials identify the OAuth client used to refresh stored tokens.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Validate checks that both fields are set.
func (c Credentials) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return errors.New("google client id and secret are required; set google.client_id and google.client_secret")
	}
	return nil
}

// OAuthConfig returns the oauth2 configuration for creds.
func OAuthConfig(creds Credentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       Scopes,
	}
}

// NewHTTPClient returns an HTTP client that authenticates with token and
// refreshes it through conf. The client speaks HTTP/1.1 only; the calendar
// API intermittently resets HTTP/2 streams on long paged listings.
func NewHTTPClient(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) *http.Client {
	base := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: base})
	return oauth2.NewClient(ctx, conf.TokenSource(ctx, token))
}

// DefaultTokenDir returns the directory searched for token files when none
// is configured.
func DefaultTokenDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "timewise")
}

// TokenFilePath returns the token file for account inside dir.
func TokenFilePath(dir, account string) string {
	return filepath.Join(dir, fmt.Sprintf("google-%s.token", account))
}

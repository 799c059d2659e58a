// Package http provides HTTP-based implementations of docbase.Fetcher and
// docbase.SitemapService for crawling documentation and community sites.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/mkowalski/docbase"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent identifies the crawler to origin servers.
const DefaultUserAgent = "docbase-crawler/1.0"

// Ensure Fetcher implements docbase.Fetcher at compile time.
var _ docbase.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content over plain HTTP. Redirects are not
// followed: documentation sites serve pages directly, and a redirect on a
// protected page is a login wall, which must surface as an auth error
// rather than a scraped login form.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	credentials docbase.CredentialProvider
	authMode    docbase.AuthMode
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header on outgoing requests.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithCredentials attaches a credential provider for targets that require
// authentication. The provider decorates each request for the given mode.
func WithCredentials(p docbase.CredentialProvider, mode docbase.AuthMode) Option {
	return func(f *Fetcher) {
		f.credentials = p
		f.authMode = mode
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		authMode:  docbase.AuthNone,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return f
}

// Fetch retrieves the HTML content from the given URL. 401 responses and
// redirects map to EUNAUTHORIZED, other non-200 statuses to EUNAVAILABLE.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", docbase.Errorf(docbase.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	if f.credentials != nil {
		if err := f.credentials.Apply(req, f.authMode); err != nil {
			return "", docbase.Errorf(docbase.EUNAUTHORIZED, "applying credentials for %s: %v", url, err)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", docbase.Errorf(docbase.EUNAVAILABLE, "fetching %s: %v", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusMovedPermanently,
		resp.StatusCode == http.StatusFound,
		resp.StatusCode == http.StatusSeeOther,
		resp.StatusCode == http.StatusTemporaryRedirect:
		return "", docbase.Errorf(docbase.EUNAUTHORIZED, "authentication required for %s (HTTP %d)", url, resp.StatusCode)
	default:
		return "", docbase.Errorf(docbase.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", docbase.Errorf(docbase.EUNAVAILABLE, "reading %s: %v", url, err)
	}

	return string(body), nil
}

// Close releases resources. A no-op for the plain HTTP fetcher.
func (f *Fetcher) Close() error {
	return nil
}

// StaticCredentials is a CredentialProvider backed by a fixed username and
// password pair. Kerberos and NTLM negotiation happen out of band; for form
// and basic auth the pair is attached directly.
type StaticCredentials struct {
	Username string
	Password string
}

var _ docbase.CredentialProvider = (*StaticCredentials)(nil)

// Apply decorates the request according to the auth mode.
func (c *StaticCredentials) Apply(req *http.Request, mode docbase.AuthMode) error {
	switch mode {
	case docbase.AuthNone:
		return nil
	case docbase.AuthForm, docbase.AuthNTLM, docbase.AuthKerberos:
		if c.Username == "" {
			return docbase.Errorf(docbase.EUNAUTHORIZED, "credentials required for auth mode %q", mode)
		}
		req.SetBasicAuth(c.Username, c.Password)
		return nil
	default:
		return docbase.Errorf(docbase.EINVALID, "unknown auth mode %q", mode)
	}
}

package docbase

import (
	"context"
	"net/http"
)

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch performs a single GET and returns the response body.
	// Returns EUNAUTHORIZED when the target demands authentication
	// (401, or a redirect to a login page) and EUNAVAILABLE for other
	// non-200 statuses. The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// CredentialProvider attaches credentials to outgoing requests. The concrete
// negotiation (Kerberos, NTLM, form login) is outside this package; the
// provider only needs to decorate the request for the target's auth mode.
type CredentialProvider interface {
	Apply(req *http.Request, mode AuthMode) error
}

// DomainLimiter enforces the politeness delay between fetches to a domain.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// SitemapService discovers URLs from a site's sitemap, used to pre-seed the
// crawl frontier for documentation targets that publish one.
type SitemapService interface {
	// DiscoverURLs returns the sitemap URLs under baseURL's path prefix.
	// Returns an empty slice when the site has no sitemap.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}

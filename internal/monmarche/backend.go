// Package monmarche implements the authenticated catalog and cart client for
// the Mon Marché grocery backend: login, product search with concurrent
// detail enrichment, and cart mutations.
package monmarche

import (
	"context"
	"strings"

	"github.com/monmarche/monmarche-cli/internal/common/httpclient"
)

// Backend is the capability contract seen by callers. The API client below
// is one implementation; a UI-driving implementation must honor the same
// inputs, results and errors.
type Backend interface {
	Login(ctx context.Context, creds Credentials) (Status, error)
	Search(ctx context.Context, query string) ([]ItemDetail, error)
	AddItem(ctx context.Context, id string, quantity int) (CartAck, error)
	ListCart(ctx context.Context) ([]CartLineItem, error)
	ClearCart(ctx context.Context) (Status, error)
}

// SessionChecker reports whether a session credential is persisted.
type SessionChecker interface {
	Has() bool
}

// Backend endpoints, relative to the configured base URL.
const (
	pathSignIn        = "api/auth/sign-in"
	pathSearch        = "api/search"
	pathArticleBySlug = "api/articles/slug"
	pathCartProduct   = "api/cart/product"
	pathCart          = "api/cart"

	searchKindProduct = "product"
	productLinkPath   = "/produit/"
)

// Options tunes the API client.
type Options struct {
	// SiteURL prefixes product links.
	SiteURL string
	// MaxConcurrency bounds the detail lookups in flight during a search.
	// Zero runs one lookup per search hit at once.
	MaxConcurrency int
	// IsolateItemFailures replaces a failed detail lookup with a placeholder
	// item instead of failing the whole search.
	IsolateItemFailures bool
}

// Client talks to the backend's JSON API through the gateway.
type Client struct {
	gateway  httpclient.HTTPClientInterface
	sessions SessionChecker
	opts     Options
}

var _ Backend = (*Client)(nil)

// NewClient creates an API client.
func NewClient(gateway httpclient.HTTPClientInterface, sessions SessionChecker, opts Options) *Client {
	opts.SiteURL = strings.TrimRight(opts.SiteURL, "/")
	if opts.MaxConcurrency < 0 {
		opts.MaxConcurrency = 0
	}
	return &Client{
		gateway:  gateway,
		sessions: sessions,
		opts:     opts,
	}
}

func (c *Client) productLink(slug string) string {
	return c.opts.SiteURL + productLinkPath + slug
}

package httpclient

import "context"

// HTTPClientInterface is the gateway contract consumed by the catalog and
// cart operations.
type HTTPClientInterface interface {
	// DoRequest performs one call and returns the raw body.
	DoRequest(ctx context.Context, opts RequestOptions) (*Response, error)

	// Call performs one call and decodes the body into out.
	Call(ctx context.Context, opts RequestOptions, out any) (*Response, error)
}

var _ HTTPClientInterface = &HTTPClient{}

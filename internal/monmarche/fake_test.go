package monmarche

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/monmarche/monmarche-cli/internal/common/httpclient"
)

type fakeSessions struct{ has bool }

func (s fakeSessions) Has() bool { return s.has }

type fakeReply struct {
	body   string
	err    error
	issued bool
}

// fakeGateway answers calls from a table keyed by "METHOD path" and records
// every request it sees.
type fakeGateway struct {
	mu       sync.Mutex
	replies  map[string]fakeReply
	requests []httpclient.RequestOptions
}

func newFakeGateway(replies map[string]fakeReply) *fakeGateway {
	return &fakeGateway{replies: replies}
}

func (g *fakeGateway) DoRequest(_ context.Context, opts httpclient.RequestOptions) (*httpclient.Response, error) {
	g.mu.Lock()
	g.requests = append(g.requests, opts)
	reply, ok := g.replies[opts.Method+" "+opts.Path]
	g.mu.Unlock()
	if !ok {
		return nil, &httpclient.HTTPError{StatusCode: http.StatusNotFound}
	}
	if reply.err != nil {
		return nil, reply.err
	}
	return &httpclient.Response{
		StatusCode:    http.StatusOK,
		Body:          []byte(reply.body),
		SessionIssued: reply.issued,
	}, nil
}

func (g *fakeGateway) Call(ctx context.Context, opts httpclient.RequestOptions, out any) (*httpclient.Response, error) {
	resp, err := g.DoRequest(ctx, opts)
	if err != nil {
		return nil, err
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return nil, httpclient.ErrDecode
		}
	}
	return resp, nil
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

func (g *fakeGateway) last() httpclient.RequestOptions {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests[len(g.requests)-1]
}

func newTestClient(g *fakeGateway, loggedIn bool, opts Options) *Client {
	if opts.SiteURL == "" {
		opts.SiteURL = "https://shop.test"
	}
	return NewClient(g, fakeSessions{has: loggedIn}, opts)
}

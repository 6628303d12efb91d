package monmarche

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/monmarche/monmarche-cli/internal/common/httpclient"
	"github.com/monmarche/monmarche-cli/internal/common/logtrace"
)

// Search runs a catalog search and enriches every hit with its product
// detail. Detail lookups run concurrently; the result keeps the search order.
//
// By default one failed lookup fails the whole search. With
// Options.IsolateItemFailures the failed hit is returned as a placeholder
// carrying the error instead.
func (c *Client) Search(ctx context.Context, query string) ([]ItemDetail, error) {
	ctx = logtrace.StartOperation(ctx, "search")
	logger := logtrace.Logger(ctx)

	if !c.sessions.Has() {
		return nil, ErrNotAuthenticated
	}
	in := SearchInput{Query: strings.TrimSpace(norm.NFC.String(query))}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var res searchResponse
	_, err := c.gateway.Call(ctx, httpclient.RequestOptions{
		Method: http.MethodGet,
		Path:   pathSearch,
		QueryParams: map[string]string{
			"term": in.Query,
			"type": searchKindProduct,
		},
	}, &res)
	if err != nil {
		logger.Error().Err(err).Msg("search call failed")
		return nil, remoteFailure("search failed", err)
	}
	if len(res.Items) == 0 {
		logger.Info().Msg("no search results")
		return []ItemDetail{}, nil
	}
	for i, item := range res.Items {
		if !usableSlug(item.Slug) {
			return nil, ErrShapeMismatch.New(fmt.Sprintf("search result %d has no usable slug", i))
		}
	}

	items, err := c.enrich(ctx, res.Items)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("results", len(items)).Msg("search completed")
	return items, nil
}

func (c *Client) enrich(ctx context.Context, hits []searchItem) ([]ItemDetail, error) {
	results := make([]ItemDetail, len(hits))

	g, gctx := errgroup.WithContext(ctx)
	if c.opts.MaxConcurrency > 0 {
		g.SetLimit(c.opts.MaxConcurrency)
	}
	for i, hit := range hits {
		g.Go(func() error {
			detail, err := c.fetchDetail(gctx, hit.Slug)
			if err != nil {
				if !c.opts.IsolateItemFailures {
					return err
				}
				logtrace.Logger(ctx).Warn().Err(err).Str("slug", hit.Slug).Msg("detail lookup failed, keeping placeholder")
				results[i] = ItemDetail{
					ID:    hit.ID,
					Link:  c.productLink(hit.Slug),
					Error: ToErrorRecord(err).Error,
				}
				return nil
			}
			results[i] = detail
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) fetchDetail(ctx context.Context, slug string) (ItemDetail, error) {
	var d articleDetail
	_, err := c.gateway.Call(ctx, httpclient.RequestOptions{
		Method: http.MethodGet,
		Path:   path.Join(pathArticleBySlug, slug),
	}, &d)
	if err != nil {
		return ItemDetail{}, remoteFailure(fmt.Sprintf("detail lookup failed for %q", slug), err)
	}
	if d.ID == "" || d.Name == "" {
		return ItemDetail{}, ErrShapeMismatch.New(fmt.Sprintf("detail for %q has no id or name", slug))
	}
	if !usableSlug(d.Slug) {
		d.Slug = slug
	}

	description := optionalString(d.Description)
	if description == nil {
		description = optionalString(d.ShortDescription)
	}
	return ItemDetail{
		ID:             d.ID,
		Name:           d.Name,
		Description:    description,
		PricePerPiece:  formatPrice(d.Pricing.perPiece()),
		PricePerWeight: formatWeightPrice(d.Pricing.perWeightUnit()),
		Weight:         formatWeight(d.ItemDefinition),
		Link:           c.productLink(d.Slug),
	}, nil
}

// usableSlug reports whether slug can be appended to the detail path as a
// single segment without changing the endpoint.
func usableSlug(slug string) bool {
	return slug != "" && slug != "." && slug != ".." && !strings.ContainsAny(slug, `/\`)
}

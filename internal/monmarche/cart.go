package monmarche

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/monmarche/monmarche-cli/internal/common/httpclient"
	"github.com/monmarche/monmarche-cli/internal/common/logtrace"
)

// AddItem sets quantity units of product id in the cart and returns the
// backend's acknowledgement as is.
func (c *Client) AddItem(ctx context.Context, id string, quantity int) (CartAck, error) {
	ctx = logtrace.StartOperation(ctx, "add_item")
	logger := logtrace.Logger(ctx)

	if !c.sessions.Has() {
		return nil, ErrNotAuthenticated
	}
	if err := validateInput(AddItemInput{ID: id, Quantity: quantity}); err != nil {
		return nil, err
	}

	body, err := sjson.SetBytes([]byte(`{}`), "product.id", id)
	if err == nil {
		body, err = sjson.SetBytes(body, "product.quantity", quantity)
	}
	if err != nil {
		return nil, remoteFailure("add to cart failed", err)
	}

	resp, err := c.gateway.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodPatch,
		Path:   pathCartProduct,
		Body:   body,
	})
	if err != nil {
		logger.Error().Err(err).Str("product", id).Msg("add to cart call failed")
		return nil, remoteFailure("add to cart failed", err)
	}
	if err := checkTruthy(resp.Body); err != nil {
		return nil, remoteFailure("add to cart failed", err)
	}

	logger.Info().Str("product", id).Int("quantity", quantity).Msg("product added to cart")
	return CartAck(bytes.Clone(resp.Body)), nil
}

// ListCart returns the products of the remote cart with their line prices.
func (c *Client) ListCart(ctx context.Context) ([]CartLineItem, error) {
	ctx = logtrace.StartOperation(ctx, "list_cart")

	if !c.sessions.Has() {
		return nil, ErrNotAuthenticated
	}

	var cart cartResponse
	if _, err := c.gateway.Call(ctx, httpclient.RequestOptions{
		Method: http.MethodGet,
		Path:   pathCart,
	}, &cart); err != nil {
		logtrace.Logger(ctx).Error().Err(err).Msg("cart call failed")
		return nil, remoteFailure("cart listing failed", err)
	}

	lines := make([]CartLineItem, 0, len(cart.Products))
	for i, p := range cart.Products {
		if p.ID == "" {
			return nil, ErrShapeMismatch.New(fmt.Sprintf("cart product %d has no id", i))
		}
		quantity := 0
		if p.Quotation != nil {
			quantity = p.Quotation.Count
		}
		lines = append(lines, CartLineItem{
			ID:       p.ID,
			Name:     p.Name,
			Quantity: quantity,
			Price:    formatLinePrice(p.Pricing.perPiece(), quantity),
			Link:     c.productLink(p.Slug),
		})
	}
	return lines, nil
}

// ClearCart empties the remote cart. Clearing an empty cart succeeds.
func (c *Client) ClearCart(ctx context.Context) (Status, error) {
	ctx = logtrace.StartOperation(ctx, "clear_cart")

	if !c.sessions.Has() {
		return Status{}, ErrNotAuthenticated
	}

	resp, err := c.gateway.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodDelete,
		Path:   pathCart,
	})
	if err != nil {
		logtrace.Logger(ctx).Error().Err(err).Msg("clear cart call failed")
		return Status{}, remoteFailure("clearing cart failed", err)
	}
	if err := checkTruthy(resp.Body); err != nil {
		return Status{}, remoteFailure("clearing cart failed", err)
	}

	logtrace.Logger(ctx).Info().Msg("cart cleared")
	return Status{Status: "Cart cleared"}, nil
}

var errEmptyAck = errors.New("backend returned an empty acknowledgement")

// checkTruthy rejects bodies that decode to nothing usable: no body, null,
// false, 0 or "". Invalid JSON is a decode failure.
func checkTruthy(body []byte) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return errEmptyAck
	}
	if !gjson.ValidBytes(body) {
		return httpclient.ErrDecode
	}
	r := gjson.ParseBytes(body)
	switch r.Type {
	case gjson.Null, gjson.False:
		return errEmptyAck
	case gjson.Number:
		if r.Num == 0 {
			return errEmptyAck
		}
	case gjson.String:
		if r.Str == "" {
			return errEmptyAck
		}
	}
	return nil
}

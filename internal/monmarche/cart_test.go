package monmarche

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monmarche/monmarche-cli/internal/common/httpclient"
)

func TestCartOperationsRequireSession(t *testing.T) {
	g := newFakeGateway(nil)
	c := newTestClient(g, false, Options{})
	ctx := context.Background()

	_, err := c.AddItem(ctx, "SKU123", 1)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = c.AddItem(ctx, "", 0)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = c.ListCart(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = c.ClearCart(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	assert.Zero(t, g.calls())
}

func TestAddItem(t *testing.T) {
	ack := `{"id":"cart-1","products":[{"id":"SKU123"}]}`
	g := newFakeGateway(map[string]fakeReply{
		"PATCH " + pathCartProduct: {body: ack},
	})
	c := newTestClient(g, true, Options{})

	got, err := c.AddItem(context.Background(), "SKU123", 2)
	require.NoError(t, err)
	assert.JSONEq(t, ack, string(got))
	assert.JSONEq(t, `{"product":{"id":"SKU123","quantity":2}}`, string(g.last().Body))
}

func TestAddItemInvalidInput(t *testing.T) {
	g := newFakeGateway(nil)
	c := newTestClient(g, true, Options{})

	_, err := c.AddItem(context.Background(), "", 1)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "id is required")

	_, err = c.AddItem(context.Background(), "SKU123", 0)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "quantity must be at least 1")

	assert.Zero(t, g.calls())
}

func TestAddItemFalsyAck(t *testing.T) {
	for _, body := range []string{"", "null", "false", "0", `""`} {
		g := newFakeGateway(map[string]fakeReply{
			"PATCH " + pathCartProduct: {body: body},
		})
		c := newTestClient(g, true, Options{})
		_, err := c.AddItem(context.Background(), "SKU123", 1)
		assert.ErrorIs(t, err, ErrRemoteCall, "body %q", body)
	}
}

func TestListCart(t *testing.T) {
	g := newFakeGateway(map[string]fakeReply{
		"GET " + pathCart: {body: `{"id":"cart-1","products":[
			{"id":"P1","name":"Milk","slug":"milk","quotation":{"count":3},
			 "pricing":{"sellPrices":{"perPiece":{"net":500}}}},
			{"id":"P2","name":"Salt","slug":"salt","quotation":{"count":1}}]}`},
	})
	c := newTestClient(g, true, Options{})

	lines, err := c.ListCart(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "P1", lines[0].ID)
	assert.Equal(t, 3, lines[0].Quantity)
	require.NotNil(t, lines[0].Price)
	assert.Equal(t, "15 €", *lines[0].Price)
	assert.Equal(t, "https://shop.test/produit/milk", lines[0].Link)

	assert.Nil(t, lines[1].Price)
}

func TestListCartEmpty(t *testing.T) {
	g := newFakeGateway(map[string]fakeReply{
		"GET " + pathCart: {body: `{"id":"cart-1","products":[]}`},
	})
	c := newTestClient(g, true, Options{})

	lines, err := c.ListCart(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestListCartShapeMismatch(t *testing.T) {
	g := newFakeGateway(map[string]fakeReply{
		"GET " + pathCart: {body: `{"products":[{"name":"Milk"}]}`},
	})
	c := newTestClient(g, true, Options{})

	_, err := c.ListCart(context.Background())
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestClearCartTwice(t *testing.T) {
	g := newFakeGateway(map[string]fakeReply{
		"DELETE " + pathCart: {body: `{"id":"cart-1","products":[]}`},
	})
	c := newTestClient(g, true, Options{})

	for i := 0; i < 2; i++ {
		status, err := c.ClearCart(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Cart cleared", status.Status)
	}
	assert.Equal(t, 2, g.calls())
}

func TestClearCartRemoteFailure(t *testing.T) {
	g := newFakeGateway(map[string]fakeReply{
		"DELETE " + pathCart: {err: &httpclient.HTTPError{StatusCode: http.StatusServiceUnavailable}},
	})
	c := newTestClient(g, true, Options{})

	_, err := c.ClearCart(context.Background())
	require.ErrorIs(t, err, ErrRemoteCall)
}

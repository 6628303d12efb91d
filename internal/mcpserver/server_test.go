package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/monmarche/monmarche-cli/internal/monmarche"
)

type fakeBackend struct {
	items   []monmarche.ItemDetail
	lines   []monmarche.CartLineItem
	err     error
	query   string
	added   monmarche.AddItemInput
	creds   monmarche.Credentials
	cleared int
}

func (f *fakeBackend) Login(_ context.Context, creds monmarche.Credentials) (monmarche.Status, error) {
	f.creds = creds
	if f.err != nil {
		return monmarche.Status{}, f.err
	}
	return monmarche.Status{Status: "ok"}, nil
}

func (f *fakeBackend) Search(_ context.Context, query string) ([]monmarche.ItemDetail, error) {
	f.query = query
	return f.items, f.err
}

func (f *fakeBackend) AddItem(_ context.Context, id string, quantity int) (monmarche.CartAck, error) {
	f.added = monmarche.AddItemInput{ID: id, Quantity: quantity}
	if f.err != nil {
		return nil, f.err
	}
	return monmarche.CartAck(`{"ok":true}`), nil
}

func (f *fakeBackend) ListCart(context.Context) ([]monmarche.CartLineItem, error) {
	return f.lines, f.err
}

func (f *fakeBackend) ClearCart(context.Context) (monmarche.Status, error) {
	f.cleared++
	if f.err != nil {
		return monmarche.Status{}, f.err
	}
	return monmarche.Status{Status: "Cart cleared"}, nil
}

func newServer(t *testing.T, backend *fakeBackend) *Server {
	t.Helper()
	s, err := New(backend, func() (string, string) { return "env@b.c", "env-secret" })
	require.NoError(t, err)
	initMsg := `{"jsonrpc":"2.0","id":0,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`
	s.HandleMessage(context.Background(), json.RawMessage(initMsg))
	return s
}

// callTool sends a tools/call and returns the result object.
func callTool(t *testing.T, s *Server, name string, args any) gjson.Result {
	t.Helper()
	params, err := json.Marshal(map[string]any{"name": name, "arguments": args})
	require.NoError(t, err)
	msg := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":%s}`, params)

	resp := s.HandleMessage(context.Background(), json.RawMessage(msg))
	out, err := json.Marshal(resp)
	require.NoError(t, err)
	result := gjson.GetBytes(out, "result")
	require.True(t, result.Exists(), string(out))
	return result
}

func TestNewRequiresBackend(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrBackend)
}

func TestListTools(t *testing.T) {
	s := newServer(t, &fakeBackend{})
	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))
	out, err := json.Marshal(resp)
	require.NoError(t, err)

	var names []string
	for _, tool := range gjson.GetBytes(out, "result.tools").Array() {
		names = append(names, tool.Get("name").String())
	}
	assert.ElementsMatch(t, []string{"searchProduct", "addProduct", "getCartList", "clearCart", "login"}, names)
}

func TestSearchProductTool(t *testing.T) {
	backend := &fakeBackend{items: []monmarche.ItemDetail{
		{ID: "A", Name: "Apples", Link: "https://shop.test/produit/apples"},
		{ID: "X"},
	}}
	s := newServer(t, backend)

	res := callTool(t, s, "searchProduct", map[string]any{"query": map[string]any{"name": "apples"}})
	assert.False(t, res.Get("isError").Bool())
	assert.Equal(t, "apples", backend.query)

	text := res.Get("content.0.text").String()
	items := gjson.Parse(text).Array()
	require.Len(t, items, 1)
	assert.Equal(t, "Apples", items[0].Get("name").String())
}

func TestSearchProductToolNoResults(t *testing.T) {
	s := newServer(t, &fakeBackend{items: []monmarche.ItemDetail{}})

	res := callTool(t, s, "searchProduct", map[string]any{"query": map[string]any{"name": "durian"}})
	assert.False(t, res.Get("isError").Bool())
	assert.Equal(t, `No products found matching "durian". Try a different search term.`, res.Get("content.0.text").String())
}

func TestToolErrorCarriesCode(t *testing.T) {
	s := newServer(t, &fakeBackend{err: monmarche.ErrNotAuthenticated})

	res := callTool(t, s, "getCartList", map[string]any{})
	assert.True(t, res.Get("isError").Bool())
	text := res.Get("content.0.text").String()
	assert.Contains(t, text, "Error retrieving cart list")
	assert.Contains(t, text, `"code":"not_authenticated"`)
}

func TestAddProductTool(t *testing.T) {
	backend := &fakeBackend{}
	s := newServer(t, backend)

	res := callTool(t, s, "addProduct", map[string]any{"product": map[string]any{"id": "SKU123", "quantity": 2}})
	assert.False(t, res.Get("isError").Bool())
	assert.Equal(t, monmarche.AddItemInput{ID: "SKU123", Quantity: 2}, backend.added)
	assert.Equal(t, `Product added to cart: {"id":"SKU123","quantity":2}`, res.Get("content.0.text").String())
}

func TestAddProductToolBadArguments(t *testing.T) {
	backend := &fakeBackend{}
	s := newServer(t, backend)

	res := callTool(t, s, "addProduct", map[string]any{"product": "not an object"})
	assert.True(t, res.Get("isError").Bool())
	assert.Contains(t, res.Get("content.0.text").String(), "invalid_input")
	assert.Empty(t, backend.added.ID)
}

func TestAddProductToolRejectsFractionalQuantity(t *testing.T) {
	backend := &fakeBackend{}
	s := newServer(t, backend)

	res := callTool(t, s, "addProduct", map[string]any{"product": map[string]any{"id": "SKU1", "quantity": 2.7}})
	assert.True(t, res.Get("isError").Bool())
	text := res.Get("content.0.text").String()
	assert.Contains(t, text, "invalid_input")
	assert.Contains(t, text, "addProduct: invalid tool arguments")
	assert.Empty(t, backend.added.ID)

	res = callTool(t, s, "addProduct", map[string]any{"product": map[string]any{"id": "SKU1", "quantity": 3.0}})
	assert.False(t, res.Get("isError").Bool())
	assert.Equal(t, 3, backend.added.Quantity)
}

func TestAddProductSchemaDeclaresIntegerQuantity(t *testing.T) {
	s := newServer(t, &fakeBackend{})
	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":3,"method":"tools/list"}`))
	out, err := json.Marshal(resp)
	require.NoError(t, err)

	tool := gjson.GetBytes(out, `result.tools.#(name=="addProduct")`)
	require.True(t, tool.Exists())
	assert.Equal(t, "integer", tool.Get("inputSchema.properties.product.properties.quantity.type").String())
}

func TestCartTools(t *testing.T) {
	price := "15 €"
	backend := &fakeBackend{}
	s := newServer(t, backend)

	res := callTool(t, s, "getCartList", map[string]any{})
	assert.Equal(t, "Your shopping cart is empty.", res.Get("content.0.text").String())

	backend.lines = []monmarche.CartLineItem{{ID: "P1", Name: "Milk", Quantity: 3, Price: &price}}
	res = callTool(t, s, "getCartList", map[string]any{})
	assert.Equal(t, "15 €", gjson.Parse(res.Get("content.0.text").String()).Get("0.price").String())

	res = callTool(t, s, "clearCart", map[string]any{})
	assert.Equal(t, "Shopping cart cleared.", res.Get("content.0.text").String())
	assert.Equal(t, 1, backend.cleared)
}

func TestLoginToolFallsBackToEnvironment(t *testing.T) {
	backend := &fakeBackend{}
	s := newServer(t, backend)

	res := callTool(t, s, "login", map[string]any{})
	assert.False(t, res.Get("isError").Bool())
	assert.Equal(t, monmarche.Credentials{Email: "env@b.c", Password: "env-secret"}, backend.creds)

	callTool(t, s, "login", map[string]any{"email": "a@b.c", "password": "pw"})
	assert.Equal(t, monmarche.Credentials{Email: "a@b.c", Password: "pw"}, backend.creds)
}

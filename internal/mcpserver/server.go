// Package mcpserver exposes the grocery operations as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"math"
	"reflect"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"

	"github.com/monmarche/monmarche-cli/internal/common/logtrace"
	"github.com/monmarche/monmarche-cli/internal/config"
	"github.com/monmarche/monmarche-cli/internal/monmarche"
)

const serverName = "monmarche-server"

// CredentialsFunc supplies login credentials when the login tool is called
// without them.
type CredentialsFunc func() (email, password string)

// Server wraps an MCP server whose tools call a monmarche.Backend.
type Server struct {
	backend     monmarche.Backend
	credentials CredentialsFunc
	mcp         *server.MCPServer
}

// New builds the MCP server and registers every tool.
func New(backend monmarche.Backend, credentials CredentialsFunc) (*Server, error) {
	if backend == nil {
		return nil, ErrBackend
	}
	if credentials == nil {
		credentials = func() (string, string) { return "", "" }
	}
	s := &Server{
		backend:     backend,
		credentials: credentials,
		mcp: server.NewMCPServer(
			serverName,
			config.Version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
	}
	s.loadTools()
	return s, nil
}

// HandleMessage processes one JSON-RPC message.
func (s *Server) HandleMessage(ctx context.Context, raw json.RawMessage) mcp.JSONRPCMessage {
	return s.mcp.HandleMessage(ctx, raw)
}

// ServeStdio serves MCP over the given streams until ctx is done or in is
// closed. Diagnostics go to the logger, never to out.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(stdlog.New(log.Logger, "", 0))
	log.Info().Str("server", serverName).Msg("MCP server running on stdio")
	return stdio.Listen(ctx, in, out)
}

func (s *Server) loadTools() {
	s.mcp.AddTool(mcp.NewTool("searchProduct",
		mcp.WithTitleAnnotation("Search Product"),
		mcp.WithDescription("Search for a product on Mon Marché"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithObject("query",
			mcp.Required(),
			mcp.Properties(map[string]any{
				"name": map[string]any{
					"type":        "string",
					"minLength":   1,
					"maxLength":   100,
					"description": "Name of the product to search",
				},
			}),
		),
	), s.searchProduct)

	s.mcp.AddTool(mcp.NewTool("addProduct",
		mcp.WithTitleAnnotation("Add Product"),
		mcp.WithDescription("Add a product to the Mon Marché shopping cart"),
		mcp.WithObject("product",
			mcp.Required(),
			mcp.Properties(map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "ID of the product to add",
				},
				"quantity": map[string]any{
					"type":        "integer",
					"minimum":     1,
					"description": "Quantity of the product to add",
				},
			}),
		),
	), s.addProduct)

	s.mcp.AddTool(mcp.NewTool("getCartList",
		mcp.WithTitleAnnotation("Get Cart List"),
		mcp.WithDescription("Retrieve the list of products in the Mon Marché shopping cart"),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.getCartList)

	s.mcp.AddTool(mcp.NewTool("clearCart",
		mcp.WithTitleAnnotation("Clear Cart"),
		mcp.WithDescription("Clear all products from the Mon Marché shopping cart"),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	), s.clearCart)

	s.mcp.AddTool(mcp.NewTool("login",
		mcp.WithTitleAnnotation("Login"),
		mcp.WithDescription("Log in to Mon Marché. Without arguments the MON_MARCHE_EMAIL and MON_MARCHE_PASSWORD environment variables are used."),
		mcp.WithString("email", mcp.Description("Account email")),
		mcp.WithString("password", mcp.Description("Account password")),
	), s.login)
}

type searchArgs struct {
	Query struct {
		Name string `mapstructure:"name"`
	} `mapstructure:"query"`
}

func (s *Server) searchProduct(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchArgs
	if err := decodeArgs(req, &args); err != nil {
		return toolError("Error searching for product", err), nil
	}
	logtrace.Logger(ctx).Info().Str("tool", req.Params.Name).Msg("tool call")

	items, err := s.backend.Search(ctx, args.Query.Name)
	if err != nil {
		return toolError("Error searching for product", err), nil
	}

	found := make([]monmarche.ItemDetail, 0, len(items))
	for _, item := range items {
		if item.Name != "" || item.Error != "" {
			found = append(found, item)
		}
	}
	if len(found) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No products found matching %q. Try a different search term.", args.Query.Name)), nil
	}
	return jsonResult(found)
}

type addArgs struct {
	Product monmarche.AddItemInput `mapstructure:"product"`
}

func (s *Server) addProduct(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addArgs
	if err := decodeArgs(req, &args); err != nil {
		return toolError("Error adding product", err), nil
	}
	logtrace.Logger(ctx).Info().Str("tool", req.Params.Name).Str("product", args.Product.ID).Msg("tool call")

	if _, err := s.backend.AddItem(ctx, args.Product.ID, args.Product.Quantity); err != nil {
		return toolError("Error adding product", err), nil
	}
	product, _ := json.Marshal(args.Product)
	return mcp.NewToolResultText("Product added to cart: " + string(product)), nil
}

func (s *Server) getCartList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logtrace.Logger(ctx).Info().Str("tool", req.Params.Name).Msg("tool call")

	lines, err := s.backend.ListCart(ctx)
	if err != nil {
		return toolError("Error retrieving cart list", err), nil
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("Your shopping cart is empty."), nil
	}
	return jsonResult(lines)
}

func (s *Server) clearCart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logtrace.Logger(ctx).Info().Str("tool", req.Params.Name).Msg("tool call")

	if _, err := s.backend.ClearCart(ctx); err != nil {
		return toolError("Error clearing cart", err), nil
	}
	return mcp.NewToolResultText("Shopping cart cleared."), nil
}

func (s *Server) login(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var creds monmarche.Credentials
	if err := decodeArgs(req, &creds); err != nil {
		return toolError("Error logging in", err), nil
	}
	if creds.Email == "" && creds.Password == "" {
		creds.Email, creds.Password = s.credentials()
	}
	logtrace.Logger(ctx).Info().Str("tool", req.Params.Name).Msg("tool call")

	status, err := s.backend.Login(ctx, creds)
	if err != nil {
		return toolError("Error logging in", err), nil
	}
	return jsonResult(status)
}

func decodeArgs(req mcp.CallToolRequest, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		TagName:    "mapstructure",
		DecodeHook: wholeNumberHook,
	})
	if err != nil {
		return ErrInvalidArguments.Err(err).Prefix(req.Params.Name)
	}
	if err := decoder.Decode(req.GetArguments()); err != nil {
		return ErrInvalidArguments.Err(err).Prefix(req.Params.Name)
	}
	return nil
}

// wholeNumberHook refuses to truncate JSON numbers into integer fields.
func wholeNumberHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float64 || to.Kind() != reflect.Int {
		return data, nil
	}
	if f := data.(float64); f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not a whole number", f)
	}
	return data, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}

// toolError renders an operation error as an MCP error result. The text
// carries the error record so agents can branch on its code.
func toolError(prefix string, err error) *mcp.CallToolResult {
	body, _ := json.Marshal(monmarche.ToErrorRecord(err))
	return mcp.NewToolResultError(prefix + ": " + string(body))
}

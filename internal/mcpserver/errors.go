package mcpserver

import (
	"github.com/monmarche/monmarche-cli/internal/common/apperrors"
)

var (
	// ErrMCPServiceError is the base error for the tool layer.
	ErrMCPServiceError apperrors.Error = apperrors.New("mcp service error").SetCode("mcp_error")

	// ErrBackend is returned when the server is built without a backend.
	ErrBackend apperrors.Error = ErrMCPServiceError.New("backend is nil")

	// ErrInvalidArguments is returned when tool arguments cannot be decoded
	// into the tool's input shape.
	ErrInvalidArguments apperrors.Error = ErrMCPServiceError.New("invalid tool arguments").SetCode("invalid_input")
)

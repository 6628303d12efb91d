package logtrace

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type opIDKey struct{}

// StartOperation returns a context carrying a child logger tagged with the
// operation name and a fresh time-ordered id. The id is also retrievable
// with OperationID so outbound calls can forward it.
func StartOperation(ctx context.Context, op string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	id := newID()
	logger := log.Ctx(ctx).With().Str("op", op).Str("op_id", id).Logger()
	ctx = context.WithValue(ctx, opIDKey{}, id)
	return logger.WithContext(ctx)
}

// OperationID extracts the operation id from the context.
// Returns an empty string if the context is nil or carries no id.
func OperationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, ok := ctx.Value(opIDKey{}).(string)
	if !ok {
		return ""
	}
	return id
}

// Logger returns the context logger, falling back to the global one.
func Logger(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &log.Logger
	}
	return log.Ctx(ctx)
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

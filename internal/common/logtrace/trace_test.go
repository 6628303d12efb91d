package logtrace

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestStartOperationTagsLogger(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(Options{Level: "debug", Out: &buf})

	ctx := StartOperation(context.Background(), "search")
	id := OperationID(ctx)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	Logger(ctx).Debug().Msg("hello")

	line := buf.Bytes()
	assert.Equal(t, "search", gjson.GetBytes(line, "op").String())
	assert.Equal(t, id, gjson.GetBytes(line, "op_id").String())
	assert.Equal(t, "hello", gjson.GetBytes(line, "message").String())
}

func TestOperationIDMissing(t *testing.T) {
	assert.Empty(t, OperationID(context.Background()))
	//nolint:staticcheck
	assert.Empty(t, OperationID(nil))
}

func TestInitLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(Options{Level: "warn", Out: &buf})
	Logger(context.Background()).Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	InitLogger(Options{Level: "bogus", Out: &buf})
	Logger(context.Background()).Info().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

package sink

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/oracle-plus/internal/core/ports"
	portsmocks "github.com/olusolaa/oracle-plus/internal/core/ports/mocks"
)

func TestRouter(t *testing.T) {
	ctx := context.Background()
	local := new(portsmocks.Sink)
	remote := new(portsmocks.Sink)
	local.On("Write", ctx, "out/report.md", []byte("a")).Return(nil)
	remote.On("Write", ctx, "s3://b/k.md", []byte("b")).Return(nil)

	builds := 0
	r := NewRouter(local, func(context.Context) (ports.Sink, error) {
		builds++
		return remote, nil
	})

	require.NoError(t, r.Write(ctx, "out/report.md", []byte("a")))
	assert.Equal(t, 0, builds)

	require.NoError(t, r.Write(ctx, "s3://b/k.md", []byte("b")))
	require.NoError(t, r.Write(ctx, "s3://b/k.md", []byte("b")))
	assert.Equal(t, 1, builds)

	local.AssertExpectations(t)
	remote.AssertNumberOfCalls(t, "Write", 2)
}

func TestRouter_RemoteBuildFailure(t *testing.T) {
	r := NewRouter(new(portsmocks.Sink), func(context.Context) (ports.Sink, error) {
		return nil, stderrors.New("no credentials")
	})
	assert.EqualError(t, r.Write(context.Background(), "s3://b/k", nil), "no credentials")
}

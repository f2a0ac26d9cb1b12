package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuanphamchezzi/skydeckai-code/internal/workspace"
)

func TestNewServerContext(t *testing.T) {
	ws := workspace.NewAt(t.TempDir())
	sc, err := NewServerContext(context.Background(), ws)
	require.NoError(t, err)

	assert.Same(t, ws, sc.Workspace())
	assert.False(t, sc.IsShutdown())
	require.NoError(t, sc.Context().Err())
}

func TestServerContextShutdown(t *testing.T) {
	sc, err := NewServerContext(context.Background(), workspace.NewAt(t.TempDir()))
	require.NoError(t, err)

	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.Error(t, sc.Context().Err())

	// Shutdown is idempotent
	require.NoError(t, sc.Shutdown())
}

func TestServerContextMetricsFallback(t *testing.T) {
	sc, err := NewServerContext(context.Background(), workspace.NewAt(t.TempDir()))
	require.NoError(t, err)

	// No instrumentation attached: recorder must be a usable no-op
	m := sc.Metrics()
	require.NotNil(t, m)
	m.RecordToolInvocation(context.Background(), "read_file", "success", 0)

	assert.Nil(t, sc.AuditLogger())
}

func TestServerContextVersion(t *testing.T) {
	sc, err := NewServerContext(context.Background(), workspace.NewAt(t.TempDir()))
	require.NoError(t, err)

	assert.Empty(t, sc.Version())
	sc.SetVersion("0.2.0")
	assert.Equal(t, "0.2.0", sc.Version())
}

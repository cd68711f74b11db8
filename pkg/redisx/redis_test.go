package redisx

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/storefront/pkg/logger"
)

func TestPingSingleNode(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb := New(Config{Addr: mr.Addr()}, logger.Discard())
	t.Cleanup(func() { _ = rdb.Close() })

	require.NoError(t, Ping(context.Background(), rdb, 3, logger.Discard()))
}

func TestPingGivesUpWhenContextDone(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	rdb := New(Config{Addr: addr}, logger.Discard())
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, Ping(ctx, rdb, 5, logger.Discard()))
}

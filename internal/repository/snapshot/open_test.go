package snapshot

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"luxe-atelier/internal/config"
)

func TestOpen_Memory(t *testing.T) {
	repo, closeFn, err := Open(context.Background(), config.Config{SnapshotBackend: config.BackendMemory})
	require.NoError(t, err)
	defer closeFn()
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, _, err := Open(context.Background(), config.Config{SnapshotBackend: "etcd"})
	assert.ErrorContains(t, err, `unknown snapshot backend "etcd"`)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	_, _, err := Open(context.Background(), config.Config{SnapshotBackend: config.BackendRedis, RedisAddr: "127.0.0.1:1"})
	assert.ErrorContains(t, err, "failed to ping redis")
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	repo, closeFn, err := Open(context.Background(), config.Config{SnapshotBackend: config.BackendRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, repo.Set(context.Background(), "luxe-atelier-cart:s1", []byte(`{"version":1}`)))
	assert.True(t, mr.Exists("luxe-atelier-cart:s1"))
}

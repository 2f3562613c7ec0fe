package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"luxe-atelier/internal/domain"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (Repository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, ttl), mr
}

func TestRedis_GetMissing(t *testing.T) {
	repo, _ := setupTestRedis(t, 0)
	_, err := repo.Get(context.Background(), "luxe-atelier-cart:none")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedis_SetThenGet(t *testing.T) {
	repo, mr := setupTestRedis(t, 0)
	ctx := context.Background()
	doc := `{"version":1,"state":{"items":[],"isOpen":true}}`

	require.NoError(t, repo.Set(ctx, "luxe-atelier-cart:s1", []byte(doc)))

	stored, err := mr.Get("luxe-atelier-cart:s1")
	require.NoError(t, err)
	assert.Equal(t, doc, stored)
	assert.Equal(t, time.Duration(0), mr.TTL("luxe-atelier-cart:s1"))

	got, err := repo.Get(ctx, "luxe-atelier-cart:s1")
	require.NoError(t, err)
	assert.Equal(t, doc, string(got))
}

func TestRedis_SetWithTTL(t *testing.T) {
	repo, mr := setupTestRedis(t, 30*24*time.Hour)
	require.NoError(t, repo.Set(context.Background(), "k", []byte(`{}`)))
	assert.Equal(t, 30*24*time.Hour, mr.TTL("k"))
}

func TestRedis_Overwrite(t *testing.T) {
	repo, _ := setupTestRedis(t, 0)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "k", []byte(`{"version":1}`)))
	require.NoError(t, repo.Set(ctx, "k", []byte(`{"version":2}`)))
	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"version":2}`, string(got))
}

func TestRedis_ServerDown(t *testing.T) {
	repo, mr := setupTestRedis(t, 0)
	mr.Close()
	ctx := context.Background()

	_, err := repo.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorContains(t, repo.Set(ctx, "k", []byte(`{}`)), "redis set failed")
	assert.Error(t, repo.Ping(ctx))
}

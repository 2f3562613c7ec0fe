package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"luxe-atelier/internal/domain"
)

func TestMemory_GetMissing(t *testing.T) {
	repo := NewMemory()
	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemory_SetCopiesValue(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	value := []byte(`{"version":1}`)
	require.NoError(t, repo.Set(ctx, "k", value))
	value[0] = 'X'

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(got))

	got[0] = 'Y'
	again, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(again))
	assert.NoError(t, repo.Ping(ctx))
}

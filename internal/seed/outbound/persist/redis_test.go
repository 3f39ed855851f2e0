package persist

import (
	"bytes"
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedis_SaveLoad(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()
	r := NewRedis(client, "test:seed", instrument.NewNoop())

	_, err := r.Load(ctx)
	require.ErrorIs(t, err, goerror.ErrNotFound)

	seed := bytes.Repeat([]byte{0x0f}, 32)
	require.NoError(t, r.Save(ctx, seed))

	raw, err := client.Get(ctx, "test:seed").Result()
	require.NoError(t, err)
	assert.Equal(t, string(bytes.Repeat([]byte("0f"), 32)), raw)

	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed, got)
}

func TestRedis_DefaultKey(t *testing.T) {
	t.Parallel()

	r := NewRedis(nil, "", instrument.NewNoop())
	assert.Equal(t, "seedotp:seed", r.key)
}

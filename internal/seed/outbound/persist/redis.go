package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/seedotp/internal/pkg/codec"
	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"go.opentelemetry.io/otel/trace"
)

// Redis stores the seed hex under a single key. SET replaces the value
// atomically on the server.
type Redis struct {
	client *redis.Client
	key    string
	tracer trace.Tracer
}

func NewRedis(client *redis.Client, key string, ins instrument.Instrumentation) *Redis {
	if key == "" {
		key = "seedotp:seed"
	}

	return &Redis{
		client: client,
		key:    key,
		tracer: ins.Tracer("seed.outbound.persist.redis"),
	}
}

func (r *Redis) Load(ctx context.Context) (_ []byte, err error) {
	ctx, span := r.tracer.Start(ctx, "Load")
	defer func() { endSpan(span, err) }()

	val, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get seed: %w", err)
	}

	return codec.HexToBytes(val)
}

func (r *Redis) Save(ctx context.Context, seed []byte) (err error) {
	ctx, span := r.tracer.Start(ctx, "Save")
	defer func() { endSpan(span, err) }()

	if err := r.client.Set(ctx, r.key, codec.BytesToHex(seed), 0).Err(); err != nil {
		return fmt.Errorf("redis set seed: %w", err)
	}

	return nil
}

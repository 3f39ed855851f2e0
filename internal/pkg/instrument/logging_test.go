package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestNewHandler_MasksAndCorrelates(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, "seedotp", nil, []string{"seed_hex", " Public_Key "}, "info"))

	ctx := SetCorrelationID(context.Background(), "cid-1")
	log.InfoContext(ctx, "seed stored",
		"seed_hex", "000102",
		"body", map[string]any{"public_key": "pem", "ok": true},
		"raw", `{"seed_hex":"ff","n":1}`,
	)

	line := decodeLine(t, &buf)
	assert.Equal(t, "seed stored", line["msg"])
	assert.Equal(t, "INFO", line["severity"])
	assert.Equal(t, "cid-1", line["_cID"])
	assert.Equal(t, "seedotp", line["service"])
	assert.Equal(t, MaskedValue, line["seed_hex"])
	assert.Equal(t, map[string]any{"public_key": MaskedValue, "ok": true}, line["body"])
	assert.JSONEq(t, `{"seed_hex":"***","n":1}`, line["raw"].(string))
	assert.Contains(t, line, "ts")
}

func TestNewHandler_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, "", nil, nil, "warn"))

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	line := decodeLine(t, &buf)
	assert.Equal(t, "WARN", line["severity"])
	assert.NotContains(t, line, "service")
}

func TestNewHandler_WithAttrsMasked(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, "", nil, []string{"encrypted_seed"}, "")).With("encrypted_seed", "QUJD")

	log.Info("x")
	assert.Equal(t, MaskedValue, decodeLine(t, &buf)["encrypted_seed"])
}

func TestCorrelationID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "abc", GetCorrelationID(SetCorrelationID(context.Background(), "abc")))
}

func TestNew_Disabled(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	ins, err := New(context.Background(), &Config{Enabled: false, ServiceName: "seedotp"})
	require.NoError(t, err)
	assert.NotNil(t, ins.Tracer("t"))
	assert.NotNil(t, ins.Meter("m"))
	require.NoError(t, ins.Shutdown(context.Background()))
}

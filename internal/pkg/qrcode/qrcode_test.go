package qrcode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shandysiswandi/seedotp/internal/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestGenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		size    int
		wantErr error
	}{
		{name: "ok", content: "otpauth://totp/SeedOTP:alice?secret=AAAQEAYE&issuer=SeedOTP", size: 128},
		{name: "default size", content: "hello", size: 0},
		{name: "empty", content: "", wantErr: ErrEmptyContent},
		{name: "whitespace", content: "  \t", wantErr: ErrEmptyContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			png, err := Generate(tt.content, tt.size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, png)
				return
			}
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(png, pngMagic))
		})
	}
}

func TestDataURI(t *testing.T) {
	t.Parallel()

	uri, err := DataURI("otpauth://totp/x", 64)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	raw, err := codec.DecodeBase64(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, pngMagic))

	_, err = DataURI(" ", 64)
	assert.ErrorIs(t, err, ErrEmptyContent)
}

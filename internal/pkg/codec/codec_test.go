package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{name: "lowercase", in: "00ff10", want: []byte{0x00, 0xff, 0x10}},
		{name: "uppercase", in: "00FF10", want: []byte{0x00, 0xff, 0x10}},
		{name: "empty", in: "", want: []byte{}},
		{name: "odd length", in: "abc", wantErr: true},
		{name: "non hex", in: "zz", wantErr: true},
		{name: "whitespace", in: "00 1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := HexToBytes(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedInput)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBytesToHex_Lowercase(t *testing.T) {
	t.Parallel()

	b, err := HexToBytes("DEADBEEF")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", BytesToHex(b))
}

func TestBase32_RoundTrip(t *testing.T) {
	t.Parallel()

	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}

	b32 := BytesToBase32(seed)
	assert.Equal(t, "AAAQEAYEAUDAOCAJBIFQYDIOB4IBCEQTCQKRMFYYDENBWHA5DYPQ", b32)
	assert.NotContains(t, b32, "=")

	back, err := Base32ToBytes(b32)
	require.NoError(t, err)
	assert.Equal(t, seed, back)

	back, err = Base32ToBytes(b32 + "====")
	require.NoError(t, err)
	assert.Equal(t, seed, back)
}

func TestBase32ToBytes_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Base32ToBytes("!!!!")
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestDecodeBase64(t *testing.T) {
	t.Parallel()

	got, err := DecodeBase64(EncodeBase64([]byte("seed")))
	require.NoError(t, err)
	assert.Equal(t, []byte("seed"), got)

	_, err = DecodeBase64("not base64!")
	require.ErrorIs(t, err, ErrMalformedInput)

	_, err = DecodeBase64("")
	require.ErrorIs(t, err, ErrMalformedInput)
}

package codec

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrMalformedInput is returned when text cannot be decoded into bytes.
var ErrMalformedInput = errors.New("codec: malformed input")

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// HexToBytes decodes a hex string. Both upper and lower case digits are
// accepted; odd lengths and non-hex characters are rejected.
func HexToBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, ErrMalformedInput
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Join(ErrMalformedInput, err)
	}

	return b, nil
}

// BytesToHex returns the lowercase hex form of b.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// BytesToBase32 returns the unpadded RFC 4648 base32 form of b.
func BytesToBase32(b []byte) string {
	return b32.EncodeToString(b)
}

// Base32ToBytes decodes base32 text, with or without padding, in any case.
func Base32ToBytes(s string) ([]byte, error) {
	s = strings.TrimRight(strings.ToUpper(s), "=")

	b, err := b32.DecodeString(s)
	if err != nil {
		return nil, errors.Join(ErrMalformedInput, err)
	}

	return b, nil
}

// EncodeBase64 returns the standard, single line base64 form of b.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBase64 decodes standard base64 text.
func DecodeBase64(s string) ([]byte, error) {
	if s == "" {
		return nil, ErrMalformedInput
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Join(ErrMalformedInput, err)
	}

	return b, nil
}

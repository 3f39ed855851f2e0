// Package codec converts secrets between their binary, hex, base32 and base64
// text forms.
//
// Hex input is accepted in either case but BytesToHex always emits lowercase,
// which is the canonical stored form. Base32 output follows RFC 4648 without
// padding, as authenticator apps expect for TOTP secrets.
package codec

package rsakit

import "errors"

var (
	// ErrInvalidKey is returned when PEM text cannot be parsed into an RSA key.
	ErrInvalidKey = errors.New("rsakit: invalid key")
	// ErrPlaintextTooLarge is returned when a payload does not fit in one OAEP block.
	ErrPlaintextTooLarge = errors.New("rsakit: plaintext too large")
	// ErrDecryptionFailed covers every decryption rejection. It carries no detail.
	ErrDecryptionFailed = errors.New("rsakit: decryption failed")
	// ErrVerificationFailed is returned when a signature does not match.
	ErrVerificationFailed = errors.New("rsakit: verification failed")
)

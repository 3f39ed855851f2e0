package rsakit

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
)

// Sign produces an RSASSA-PSS signature over the SHA-256 digest of message.
// The salt is as long as the key allows, so repeated calls over the same
// message return different bytes.
func Sign(message []byte, priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil {
		return nil, ErrInvalidKey
	}

	digest := sha256.Sum256(message)

	return rsa.SignPSS(rand.Reader, priv, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
		Hash:       crypto.SHA256,
	})
}

// Verify checks a PSS/SHA-256 signature. The salt length is recovered from
// the signature, so any length up to the maximum is accepted.
func Verify(message, signature []byte, pub *rsa.PublicKey) error {
	if pub == nil {
		return ErrInvalidKey
	}

	digest := sha256.Sum256(message)

	err := rsa.VerifyPSS(pub, crypto.SHA256, digest[:], signature, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
		Hash:       crypto.SHA256,
	})
	if err != nil {
		return ErrVerificationFailed
	}

	return nil
}

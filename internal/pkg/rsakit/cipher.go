package rsakit

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
)

// hashLen is the SHA-256 output size used by OAEP.
const hashLen = sha256.Size

// MaxPlaintextSize is the largest payload Encrypt accepts for pub.
func MaxPlaintextSize(pub *rsa.PublicKey) int {
	if pub == nil {
		return 0
	}

	return pub.Size() - 2*hashLen - 2
}

// Encrypt seals plaintext for the holder of pub using RSA-OAEP with SHA-256
// as both the label hash and the MGF1 hash. The ciphertext is exactly
// pub.Size() bytes long.
func Encrypt(plaintext []byte, pub *rsa.PublicKey) ([]byte, error) {
	if pub == nil {
		return nil, ErrInvalidKey
	}

	if len(plaintext) > MaxPlaintextSize(pub) {
		return nil, ErrPlaintextTooLarge
	}

	return rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plaintext, nil)
}

// Decrypt opens an RSA-OAEP/SHA-256 ciphertext. A missing key, a ciphertext
// whose length differs from the modulus size and a padding failure are all
// reported as ErrDecryptionFailed.
func Decrypt(ciphertext []byte, priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil || len(ciphertext) != priv.Size() {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := rsa.DecryptOAEP(sha256.New(), nil, priv, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

package rsakit

import (
	"crypto/rsa"
	"fmt"
)

// Keyring bundles the owner's private key with the public key of the party
// that receives commit proofs.
type Keyring struct {
	owner    *rsa.PrivateKey
	verifier *rsa.PublicKey
	ownerPEM string
}

// NewKeyring parses the owner private key and, when given, the verifier
// public key. An empty verifierPEM leaves the keyring unable to encrypt
// proofs; Seal then fails with ErrInvalidKey.
//
// The verifier key must be able to seal one owner signature in a single OAEP
// block, otherwise ErrPlaintextTooLarge is returned.
func NewKeyring(ownerPEM, verifierPEM string) (*Keyring, error) {
	owner, err := ParsePrivateKey(ownerPEM)
	if err != nil {
		return nil, err
	}

	pub, err := EncodePublicKey(&owner.PublicKey)
	if err != nil {
		return nil, err
	}

	kr := &Keyring{owner: owner, ownerPEM: pub}
	if verifierPEM == "" {
		return kr, nil
	}

	kr.verifier, err = ParsePublicKey(verifierPEM)
	if err != nil {
		return nil, err
	}

	if limit := MaxPlaintextSize(kr.verifier); limit < owner.Size() {
		return nil, fmt.Errorf("%w: %d bit verifier key seals at most %d bytes, owner signatures are %d bytes",
			ErrPlaintextTooLarge, kr.verifier.N.BitLen(), limit, owner.Size())
	}

	return kr, nil
}

// HasVerifier reports whether Seal has a key to encrypt for.
func (k *Keyring) HasVerifier() bool {
	return k.verifier != nil
}

// ModulusSize is the owner key size in bytes, which is also the only valid
// ciphertext length for Open.
func (k *Keyring) ModulusSize() int {
	return k.owner.Size()
}

// PublicPEM is the owner public key in PKIX PEM form.
func (k *Keyring) PublicPEM() string {
	return k.ownerPEM
}

// Open decrypts a ciphertext addressed to the owner.
func (k *Keyring) Open(ciphertext []byte) ([]byte, error) {
	return Decrypt(ciphertext, k.owner)
}

// Sign signs message with the owner key.
func (k *Keyring) Sign(message []byte) ([]byte, error) {
	return Sign(message, k.owner)
}

// Verify checks a signature made by the owner key.
func (k *Keyring) Verify(message, signature []byte) error {
	return Verify(message, signature, &k.owner.PublicKey)
}

// Seal encrypts plaintext for the verifier.
func (k *Keyring) Seal(plaintext []byte) ([]byte, error) {
	if k.verifier == nil {
		return nil, ErrInvalidKey
	}

	return Encrypt(plaintext, k.verifier)
}

package inbound

import "github.com/shandysiswandi/seedotp/internal/seed/entity"

type HealthResponse struct {
	Provisioned bool `json:"provisioned"`
}

func (HealthResponse) Message() string {
	return "ok"
}

// DecryptSeedRequest accepts the ciphertext under either key. When both are
// present encrypted_seed wins.
type DecryptSeedRequest struct {
	EncryptedSeed entity.EncryptedSeed `json:"encrypted_seed"`
	Value         entity.EncryptedSeed `json:"value"`
}

type DecryptSeedResponse struct {
	SeedLength int    `json:"seed_length"`
	SeedHex    string `json:"seed_hex"`
}

func (DecryptSeedResponse) Message() string {
	return "Seed decrypted and stored"
}

type Generate2FAResponse struct {
	Code     string `json:"code"`
	ValidFor int    `json:"valid_for"`
}

type Verify2FARequest struct {
	Code   string `json:"code"`
	Window *int   `json:"window"`
}

type Verify2FAResponse struct {
	Valid bool `json:"valid"`
}

type CommitProofRequest struct {
	CommitHash string `json:"commit_hash"`
}

type CommitProofResponse struct {
	CommitHash         string `json:"commit_hash"`
	EncryptedSignature string `json:"encrypted_signature"`
}

type ProvisioningURIResponse struct {
	URI    string `json:"uri"`
	QRCode string `json:"qr_code"`
}

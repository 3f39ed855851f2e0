package inbound

import (
	"github.com/shandysiswandi/seedotp/internal/pkg/router"
	"github.com/shandysiswandi/seedotp/internal/seed/usecase"
)

// HTTPEndpoint exposes HTTP handlers for seed provisioning and TOTP.
type HTTPEndpoint struct {
	uc uc
}

// Health reports whether a seed is loaded.
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} router.successResponse{data=HealthResponse}
// @Router /health [get]
func (h *HTTPEndpoint) Health(r *router.Request) (any, error) {
	resp := h.uc.Status(r.Context())

	return HealthResponse{Provisioned: resp.Provisioned}, nil
}

// DecryptSeed decrypts an RSA-OAEP encrypted seed and stores it.
// @Summary Decrypt and store seed
// @Description Accepts the ciphertext as a string, an array of fragments, a {"value": ...} wrapper or an index keyed object.
// @Tags Seed
// @Accept json
// @Produce json
// @Param request body DecryptSeedRequest true "Encrypted seed"
// @Success 200 {object} router.successResponse{data=DecryptSeedResponse}
// @Failure 400 {object} router.errorResponse "Malformed encrypted seed"
// @Failure 422 {object} router.errorResponse "Decryption failed"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /decrypt-seed [post]
func (h *HTTPEndpoint) DecryptSeed(r *router.Request) (any, error) {
	var req DecryptSeedRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	payload := req.EncryptedSeed
	if payload.IsZero() {
		payload = req.Value
	}

	resp, err := h.uc.DecryptSeed(r.Context(), usecase.DecryptSeedInput{Payload: payload})
	if err != nil {
		return nil, err
	}

	return DecryptSeedResponse{SeedLength: resp.SeedLength, SeedHex: resp.SeedHex}, nil
}

// Generate2FA returns the current code and the seconds it stays valid.
// @Summary Generate TOTP code
// @Tags TOTP
// @Produce json
// @Success 200 {object} router.successResponse{data=Generate2FAResponse}
// @Failure 404 {object} router.errorResponse "Seed not provisioned"
// @Router /generate-2fa [get]
func (h *HTTPEndpoint) Generate2FA(r *router.Request) (any, error) {
	resp, err := h.uc.GenerateCode(r.Context())
	if err != nil {
		return nil, err
	}

	return Generate2FAResponse{Code: resp.Code, ValidFor: resp.ValidFor}, nil
}

// Verify2FA checks a code against the stored seed.
// @Summary Verify TOTP code
// @Tags TOTP
// @Accept json
// @Produce json
// @Param request body Verify2FARequest true "Code and optional window"
// @Success 200 {object} router.successResponse{data=Verify2FAResponse}
// @Failure 404 {object} router.errorResponse "Seed not provisioned"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /verify-2fa [post]
func (h *HTTPEndpoint) Verify2FA(r *router.Request) (any, error) {
	var req Verify2FARequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyCode(r.Context(), usecase.VerifyCodeInput{
		Code:   req.Code,
		Window: req.Window,
	})
	if err != nil {
		return nil, err
	}

	return Verify2FAResponse{Valid: resp.Valid}, nil
}

// CommitProof signs a commit hash and encrypts the signature for the verifier.
// @Summary Build commit proof
// @Tags Seed
// @Accept json
// @Produce json
// @Param request body CommitProofRequest true "Commit hash"
// @Success 200 {object} router.successResponse{data=CommitProofResponse}
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /commit-proof [post]
func (h *HTTPEndpoint) CommitProof(r *router.Request) (any, error) {
	var req CommitProofRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CommitProof(r.Context(), usecase.CommitProofInput{CommitHash: req.CommitHash})
	if err != nil {
		return nil, err
	}

	return CommitProofResponse{
		CommitHash:         resp.CommitHash,
		EncryptedSignature: resp.EncryptedSignature,
	}, nil
}

// ProvisioningURI returns the otpauth URI and a QR code for the stored seed.
// @Summary TOTP provisioning URI
// @Tags TOTP
// @Produce json
// @Param account query string true "Account name shown in the authenticator"
// @Success 200 {object} router.successResponse{data=ProvisioningURIResponse}
// @Failure 404 {object} router.errorResponse "Disabled or seed not provisioned"
// @Router /provisioning-uri [get]
func (h *HTTPEndpoint) ProvisioningURI(r *router.Request) (any, error) {
	resp, err := h.uc.ProvisioningURI(r.Context(), usecase.ProvisioningURIInput{
		AccountName: r.GetQuery("account"),
	})
	if err != nil {
		return nil, err
	}

	return ProvisioningURIResponse{URI: resp.URI, QRCode: resp.QRCode}, nil
}

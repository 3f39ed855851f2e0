package inbound

import (
	"context"

	"github.com/shandysiswandi/seedotp/internal/pkg/router"
	"github.com/shandysiswandi/seedotp/internal/seed/usecase"
)

type uc interface {
	Status(ctx context.Context) *usecase.StatusOutput
	DecryptSeed(ctx context.Context, in usecase.DecryptSeedInput) (*usecase.DecryptSeedOutput, error)
	GenerateCode(ctx context.Context) (*usecase.GenerateCodeOutput, error)
	VerifyCode(ctx context.Context, in usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error)
	CommitProof(ctx context.Context, in usecase.CommitProofInput) (*usecase.CommitProofOutput, error)
	ProvisioningURI(ctx context.Context, in usecase.ProvisioningURIInput) (*usecase.ProvisioningURIOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/health", end.Health)

	// Seed provisioning
	r.POST("/decrypt-seed", end.DecryptSeed)
	r.POST("/commit-proof", end.CommitProof)

	// TOTP
	r.GET("/generate-2fa", end.Generate2FA)
	r.POST("/verify-2fa", end.Verify2FA)
	r.GET("/provisioning-uri", end.ProvisioningURI) // disabled unless totp.provisioning_uri.enabled
}

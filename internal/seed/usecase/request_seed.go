package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/seedotp/internal/pkg/codec"
	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/seed/entity"
	"github.com/shandysiswandi/seedotp/internal/seed/outbound/issuer"
)

type RequestSeedInput struct {
	AccountID     string `validate:"required,max=64"`
	RepositoryURL string `validate:"required,url"`
}

type RequestSeedOutput struct {
	EncryptedSeed string
	SeedLength    int
	SeedHex       string
}

func (s *Usecase) RequestSeed(ctx context.Context, in RequestSeedInput) (*RequestSeedOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestSeed")
	defer span.End()

	in.AccountID = strings.TrimSpace(in.AccountID)
	in.RepositoryURL = strings.TrimSpace(in.RepositoryURL)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	encrypted, err := s.issuer.RequestSeed(ctx, entity.SeedRequest{
		AccountID:     in.AccountID,
		RepositoryURL: in.RepositoryURL,
		PublicKey:     s.keys.PublicPEM(),
	})
	if err != nil {
		return nil, issuerError(ctx, "failed to request seed from issuer", err)
	}

	seed, err := s.openAndStore(ctx, entity.NewEncryptedSeed(encrypted))
	if err != nil {
		return nil, err
	}

	return &RequestSeedOutput{
		EncryptedSeed: encrypted,
		SeedLength:    len(seed),
		SeedHex:       codec.BytesToHex(seed),
	}, nil
}

func issuerError(ctx context.Context, msg string, err error) error {
	if errors.Is(err, issuer.ErrNotConfigured) {
		slog.WarnContext(ctx, msg, "error", err)
		return goerror.NewBusiness("Issuer is not configured", goerror.CodeDisabled)
	}

	slog.ErrorContext(ctx, msg, "error", err)
	return goerror.NewUpstream(err)
}

package usecase

import (
	"context"

	"github.com/shandysiswandi/seedotp/internal/pkg/codec"
	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/seed/entity"
)

type DecryptSeedInput struct {
	Payload entity.EncryptedSeed
}

type DecryptSeedOutput struct {
	SeedLength int
	SeedHex    string
}

func (s *Usecase) DecryptSeed(ctx context.Context, in DecryptSeedInput) (*DecryptSeedOutput, error) {
	ctx, span := s.startSpan(ctx, "DecryptSeed")
	defer span.End()

	if in.Payload.IsZero() {
		return nil, goerror.NewInvalidInput(nil, "encrypted_seed", "Encrypted seed is a required field")
	}

	seed, err := s.openAndStore(ctx, in.Payload)
	if err != nil {
		return nil, err
	}

	return &DecryptSeedOutput{
		SeedLength: len(seed),
		SeedHex:    codec.BytesToHex(seed),
	}, nil
}

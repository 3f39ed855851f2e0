package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
)

type GenerateCodeOutput struct {
	Code     string
	ValidFor int
}

func (s *Usecase) GenerateCode(ctx context.Context) (*GenerateCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "GenerateCode")
	defer span.End()

	seed, err := s.loadSeed(ctx)
	if err != nil {
		return nil, err
	}

	code, err := s.totp.GenerateNow(seed)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &GenerateCodeOutput{Code: code.Value, ValidFor: code.SecondsRemaining}, nil
}

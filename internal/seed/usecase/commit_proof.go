package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/seedotp/internal/pkg/codec"
	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/seed/entity"
)

type CommitProofInput struct {
	CommitHash string `validate:"required,commithash"`
}

type CommitProofOutput struct {
	CommitHash         string
	EncryptedSignature string
}

func (s *Usecase) CommitProof(ctx context.Context, in CommitProofInput) (*CommitProofOutput, error) {
	ctx, span := s.startSpan(ctx, "CommitProof")
	defer span.End()

	in.CommitHash = strings.TrimSpace(in.CommitHash)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	encrypted, err := s.sealProof(ctx, in.CommitHash)
	if err != nil {
		return nil, err
	}

	return &CommitProofOutput{CommitHash: in.CommitHash, EncryptedSignature: encrypted}, nil
}

// sealProof signs the ASCII commit hash and encrypts the signature for the
// verifier. The result is single line base64.
func (s *Usecase) sealProof(ctx context.Context, commitHash string) (string, error) {
	sig, err := s.keys.Sign([]byte(commitHash))
	if err != nil {
		slog.ErrorContext(ctx, "failed to sign commit hash", "commit_hash", commitHash, "error", err)
		return "", goerror.NewServer(err)
	}

	proof := entity.CommitProof{CommitHash: commitHash, Signature: sig}

	sealed, err := s.keys.Seal(proof.Signature)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt commit signature", "commit_hash", proof.CommitHash, "error", err)
		return "", goerror.NewServer(err)
	}

	return codec.EncodeBase64(sealed), nil
}

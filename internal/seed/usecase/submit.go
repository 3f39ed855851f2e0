package usecase

import (
	"context"
	"strings"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/seed/entity"
)

type SubmitInput struct {
	AccountID     string `validate:"required,max=64"`
	RepositoryURL string `validate:"required,url"`
	CommitHash    string `validate:"required,commithash"`
	EncryptedSeed string `validate:"required"`
}

type SubmitOutput struct {
	CommitHash         string
	EncryptedSignature string
	StatusCode         int
	Body               string
}

// Submit builds a fresh commit proof and sends it to the issuer together
// with the encrypted seed it handed out earlier.
func (s *Usecase) Submit(ctx context.Context, in SubmitInput) (*SubmitOutput, error) {
	ctx, span := s.startSpan(ctx, "Submit")
	defer span.End()

	in.AccountID = strings.TrimSpace(in.AccountID)
	in.RepositoryURL = strings.TrimSpace(in.RepositoryURL)
	in.CommitHash = strings.TrimSpace(in.CommitHash)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	encryptedSeed, err := entity.NewEncryptedSeed(in.EncryptedSeed).Normalize()
	if err != nil {
		return nil, goerror.NewInvalidFormat("Malformed encrypted seed")
	}

	encryptedSig, err := s.sealProof(ctx, in.CommitHash)
	if err != nil {
		return nil, err
	}

	receipt, err := s.issuer.Submit(ctx, entity.Submission{
		AccountID:          in.AccountID,
		RepositoryURL:      in.RepositoryURL,
		CommitHash:         in.CommitHash,
		EncryptedSignature: encryptedSig,
		EncryptedSeed:      encryptedSeed,
		PublicKey:          s.keys.PublicPEM(),
	})
	if err != nil {
		return nil, issuerError(ctx, "failed to submit commit proof", err)
	}

	return &SubmitOutput{
		CommitHash:         in.CommitHash,
		EncryptedSignature: encryptedSig,
		StatusCode:         receipt.StatusCode,
		Body:               receipt.Body,
	}, nil
}

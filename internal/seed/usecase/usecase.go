package usecase

import (
	"context"
	"errors"
	"log/slog"

	pqotp "github.com/pquerna/otp"
	"github.com/shandysiswandi/seedotp/internal/pkg/codec"
	"github.com/shandysiswandi/seedotp/internal/pkg/config"
	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/otp"
	"github.com/shandysiswandi/seedotp/internal/pkg/validator"
	"github.com/shandysiswandi/seedotp/internal/seed/entity"
	"github.com/shandysiswandi/seedotp/internal/seed/store"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type keyring interface {
	ModulusSize() int
	PublicPEM() string
	Open(ciphertext []byte) ([]byte, error)
	Sign(message []byte) ([]byte, error)
	Seal(plaintext []byte) ([]byte, error)
}

type seedStore interface {
	Set(ctx context.Context, seed []byte) error
	Get() ([]byte, error)
	Provisioned() bool
}

type totpEngine interface {
	GenerateNow(secret []byte) (otp.Code, error)
	Verify(secret []byte, code string, window uint) bool
	ProvisioningKey(secret []byte, accountName string) (*pqotp.Key, error)
}

type repoIssuer interface {
	RequestSeed(ctx context.Context, req entity.SeedRequest) (string, error)
	Submit(ctx context.Context, sub entity.Submission) (*entity.SubmissionReceipt, error)
}

type Usecase struct {
	keys      keyring
	store     seedStore
	totp      totpEngine
	issuer    repoIssuer
	validator validator.Validator
	cfg       config.Config
	ins       instrument.Instrumentation

	verifications metric.Int64Counter
}

type Dependency struct {
	Keyring    keyring
	Store      seedStore
	Totp       totpEngine
	Issuer     repoIssuer
	Validator  validator.Validator
	Config     config.Config
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	if dep.Instrument == nil {
		dep.Instrument = instrument.NewNoop()
	}

	verifications, err := dep.Instrument.Meter("seed.usecase").Int64Counter("seed.totp.verifications",
		metric.WithDescription("Number of TOTP verification attempts"))
	if err != nil {
		slog.Error("failed to create totp verification counter", "error", err)
	}

	return &Usecase{
		keys:          dep.Keyring,
		store:         dep.Store,
		totp:          dep.Totp,
		issuer:        dep.Issuer,
		validator:     dep.Validator,
		cfg:           dep.Config,
		ins:           dep.Instrument,
		verifications: verifications,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("seed.usecase").Start(ctx, name)
}

// loadSeed reads the current seed, mapping an empty store to a 404.
func (s *Usecase) loadSeed(ctx context.Context) ([]byte, error) {
	seed, err := s.store.Get()
	if errors.Is(err, store.ErrSeedNotProvisioned) {
		slog.WarnContext(ctx, "seed requested before provisioning")
		return nil, goerror.NewBusiness("Seed not provisioned", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to read seed from store", "error", err)
		return nil, goerror.NewServer(err)
	}

	return seed, nil
}

// openAndStore runs the shared inbound path: normalize, base64 decode,
// length check against the key modulus, decrypt, then store.
func (s *Usecase) openAndStore(ctx context.Context, payload entity.EncryptedSeed) ([]byte, error) {
	text, err := payload.Normalize()
	if err != nil {
		slog.WarnContext(ctx, "encrypted seed payload is malformed", "shape", payload.Shape().String(), "error", err)
		return nil, goerror.NewInvalidFormat("Malformed encrypted seed")
	}

	ciphertext, err := codec.DecodeBase64(text)
	if err != nil {
		slog.WarnContext(ctx, "encrypted seed is not valid base64", "error", err)
		return nil, goerror.NewInvalidFormat("Malformed encrypted seed")
	}

	if size := s.keys.ModulusSize(); len(ciphertext) != size {
		slog.WarnContext(ctx, "encrypted seed length does not match key size", "length", len(ciphertext), "expected", size)
		return nil, goerror.NewInvalidFormat("Malformed encrypted seed")
	}

	seed, err := s.keys.Open(ciphertext)
	if err != nil {
		slog.WarnContext(ctx, "failed to decrypt seed")
		return nil, goerror.NewBusinessCause(err, "Decryption failed", goerror.CodeInvalidInput)
	}

	if err := s.store.Set(ctx, seed); err != nil {
		if errors.Is(err, store.ErrInvalidSecretLength) {
			slog.ErrorContext(ctx, "decrypted seed has unexpected length", "length", len(seed), "error", err)
			return nil, goerror.NewServer(err)
		}

		slog.ErrorContext(ctx, "failed to store seed", "error", err)
		return nil, goerror.NewServer(err)
	}

	return seed, nil
}

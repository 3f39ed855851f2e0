package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/qrcode"
)

type ProvisioningURIInput struct {
	AccountName string `validate:"required,max=64"`
}

type ProvisioningURIOutput struct {
	URI    string
	QRCode string
}

func (s *Usecase) ProvisioningURI(ctx context.Context, in ProvisioningURIInput) (*ProvisioningURIOutput, error) {
	ctx, span := s.startSpan(ctx, "ProvisioningURI")
	defer span.End()

	if s.cfg == nil || !s.cfg.GetBool("totp.provisioning_uri.enabled") {
		return nil, goerror.NewBusiness("endpoint not found", goerror.CodeDisabled)
	}

	in.AccountName = strings.TrimSpace(in.AccountName)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	seed, err := s.loadSeed(ctx)
	if err != nil {
		return nil, err
	}

	key, err := s.totp.ProvisioningKey(seed, in.AccountName)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build provisioning key", "account", in.AccountName, "error", err)
		return nil, goerror.NewServer(err)
	}

	qr, err := qrcode.DataURI(key.URL(), s.cfg.GetInt("totp.provisioning_uri.qr_size"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to render provisioning qr code", "account", in.AccountName, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ProvisioningURIOutput{URI: key.URL(), QRCode: qr}, nil
}

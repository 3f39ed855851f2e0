package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultWindow    = 1
	defaultMaxWindow = 10
)

type VerifyCodeInput struct {
	Code   string `validate:"required"`
	Window *int
}

type VerifyCodeOutput struct {
	Valid bool
}

func (s *Usecase) VerifyCode(ctx context.Context, in VerifyCodeInput) (*VerifyCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	in.Code = strings.TrimSpace(in.Code)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	window, err := s.resolveWindow(in.Window)
	if err != nil {
		return nil, err
	}

	seed, err := s.loadSeed(ctx)
	if err != nil {
		return nil, err
	}

	valid := s.totp.Verify(seed, in.Code, uint(window))

	if s.verifications != nil {
		s.verifications.Add(ctx, 1, metric.WithAttributes(attribute.Bool("valid", valid)))
	}

	return &VerifyCodeOutput{Valid: valid}, nil
}

func (s *Usecase) resolveWindow(w *int) (int, error) {
	maxWindow := defaultMaxWindow
	if s.cfg != nil && s.cfg.IsSet("totp.max_window") {
		maxWindow = s.cfg.GetInt("totp.max_window")
	}

	if w == nil {
		if s.cfg != nil && s.cfg.IsSet("totp.window") {
			return min(max(s.cfg.GetInt("totp.window"), 0), maxWindow), nil
		}
		return min(defaultWindow, maxWindow), nil
	}

	if *w < 0 || *w > maxWindow {
		return 0, goerror.NewInvalidInput(nil, "window", "Window must be between 0 and "+strconv.Itoa(maxWindow))
	}

	return *w, nil
}

package seed

import (
	"context"

	"github.com/shandysiswandi/seedotp/internal/pkg/clock"
	"github.com/shandysiswandi/seedotp/internal/pkg/config"
	"github.com/shandysiswandi/seedotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/otp"
	"github.com/shandysiswandi/seedotp/internal/pkg/router"
	"github.com/shandysiswandi/seedotp/internal/pkg/rsakit"
	"github.com/shandysiswandi/seedotp/internal/pkg/validator"
	"github.com/shandysiswandi/seedotp/internal/seed/inbound"
	"github.com/shandysiswandi/seedotp/internal/seed/job"
	"github.com/shandysiswandi/seedotp/internal/seed/outbound/issuer"
	"github.com/shandysiswandi/seedotp/internal/seed/store"
	"github.com/shandysiswandi/seedotp/internal/seed/usecase"
)

type Dependency struct {
	Ctx        context.Context
	Keyring    *rsakit.Keyring            `validate:"required"`
	Store      *store.Store               `validate:"required"`
	Totp       *otp.Engine                `validate:"required"`
	Issuer     *issuer.Client             `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Router     *router.Router
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	if dep.Ctx == nil {
		dep.Ctx = context.Background()
	}

	uc := usecase.New(usecase.Dependency{
		Keyring:    dep.Keyring,
		Store:      dep.Store,
		Totp:       dep.Totp,
		Issuer:     dep.Issuer,
		Validator:  dep.Validator,
		Config:     dep.Config,
		Instrument: dep.Instrument,
	})

	if dep.Router != nil {
		inbound.RegisterHTTPEndpoint(dep.Router, uc)
	}

	if dep.Config.GetBool("modules.seed.code_log.enabled") {
		cl := job.NewCodeLogger(job.CodeLogConfig{
			Path:     dep.Config.GetString("modules.seed.code_log.path"),
			Interval: dep.Config.GetSecond("modules.seed.code_log.interval_seconds"),
		}, dep.Store, dep.Totp, dep.Clock)
		cl.Start(dep.Ctx, dep.Goroutine)
	}

	return nil
}

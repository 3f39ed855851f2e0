package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/seedotp/internal/seed"
)

func (a *App) initModules() {
	if err := seed.New(seed.Dependency{
		Ctx:        a.ctx,
		Keyring:    a.keyring,
		Store:      a.seedStore,
		Totp:       a.totp,
		Issuer:     a.issuer,
		Goroutine:  a.goroutine,
		Config:     a.config,
		Instrument: a.ins,
		Clock:      a.clock,
		Validator:  a.validator,
		Router:     a.router,
	}); err != nil {
		slog.Error("failed to init module seed", "error", err)
		os.Exit(1)
	}
}

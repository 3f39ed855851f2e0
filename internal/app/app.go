package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/seedotp/internal/pkg/clock"
	"github.com/shandysiswandi/seedotp/internal/pkg/config"
	"github.com/shandysiswandi/seedotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/otp"
	"github.com/shandysiswandi/seedotp/internal/pkg/router"
	"github.com/shandysiswandi/seedotp/internal/pkg/rsakit"
	"github.com/shandysiswandi/seedotp/internal/pkg/uid"
	"github.com/shandysiswandi/seedotp/internal/pkg/validator"
	"github.com/shandysiswandi/seedotp/internal/seed/outbound/issuer"
	"github.com/shandysiswandi/seedotp/internal/seed/store"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.StringID
	totp      *otp.Engine

	// resources
	keyring   *rsakit.Keyring
	cacheConn *redis.Client
	seedStore *store.Store
	issuer    *issuer.Client

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New loads the configuration from disk and wires the application.
func New() *App {
	app := newApp()
	app.initConfig()
	app.bootstrap()

	return app
}

// NewWithConfig wires the application from an already loaded configuration.
func NewWithConfig(cfg config.Config) *App {
	app := newApp()
	app.config = cfg
	app.bootstrap()

	return app
}

func newApp() *App {
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		ctx:    ctx,
		cancel: cancel,
	}
}

func (a *App) bootstrap() {
	a.initInstrument()
	a.initLibraries()
	a.initKeys()
	a.initSeedStore()
	a.initIssuer()
	a.initHTTPServer()
	a.initModules()
	a.initClosers()
}

package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	"github.com/shandysiswandi/seedotp/internal/pkg/clock"
	"github.com/shandysiswandi/seedotp/internal/pkg/config"
	"github.com/shandysiswandi/seedotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/otp"
	"github.com/shandysiswandi/seedotp/internal/pkg/router"
	"github.com/shandysiswandi/seedotp/internal/pkg/uid"
	"github.com/shandysiswandi/seedotp/internal/pkg/validator"
	"github.com/shandysiswandi/seedotp/internal/seed/outbound/issuer"
	"github.com/shandysiswandi/seedotp/internal/seed/setup"
	"github.com/shandysiswandi/seedotp/internal/seed/store"
)

const defaultMaxBodyBytes = 1 << 20

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	totpCfg, err := setup.TotpConfig(a.config)
	if err != nil {
		slog.Error("failed to init totp engine", "error", err)
		os.Exit(1)
	}
	a.totp = otp.New(totpCfg, a.clock)
}

func (a *App) initKeys() {
	kr, err := setup.Keyring(a.config)
	if err != nil {
		slog.Error("failed to init keyring", "error", err)
		os.Exit(1)
	}
	if !kr.HasVerifier() {
		slog.Warn("verifier public key is not configured, commit proofs will fail")
	}

	a.keyring = kr
}

func (a *App) initSeedStore() {
	ss, err := setup.NewSeedStore(a.ctx, a.config, a.ins)
	if err != nil {
		slog.Error("failed to init seed store", "error", err)
		os.Exit(1)
	}

	a.seedStore = ss.Store
	a.cacheConn = ss.Redis
	driver, size := ss.Driver, ss.Size

	err = a.seedStore.Restore(a.ctx)
	switch {
	case err == nil:
		slog.Info("seed restored from persistence", "driver", driver)
	case errors.Is(err, store.ErrSeedNotProvisioned):
		slog.Info("no persisted seed, waiting for provisioning", "driver", driver)
	case errors.Is(err, store.ErrInvalidSecretLength):
		slog.Error("persisted seed has invalid length, ignoring it", "driver", driver, "expected", size)
	default:
		slog.Error("failed to restore persisted seed", "driver", driver, "error", err)
	}
}

func (a *App) initIssuer() {
	a.issuer = issuer.New(issuer.Config{
		URL:        a.config.GetString("issuer.url"),
		Timeout:    a.config.GetSecond("issuer.timeout_seconds"),
		MaxRetries: a.config.GetUint64("issuer.max_retries"),
		Backoff:    time.Duration(a.config.GetInt("issuer.backoff_millis")) * time.Millisecond,
	}, a.ins)
}

func (a *App) initHTTPServer() {
	maxBody := int64(a.config.GetInt("app.server.http.max_body_bytes"))
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	a.router = router.NewRouter(router.Config{
		Config:       a.config,
		UUID:         a.uuid,
		Instrument:   a.ins,
		Welcome:      "Welcome to API SeedOTP",
		MaxBodyBytes: maxBody,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}

				return a.cacheConn.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}

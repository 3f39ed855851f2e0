// Package job holds the background tasks of the seed module.
package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shandysiswandi/seedotp/internal/pkg/clock"
	"github.com/shandysiswandi/seedotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedotp/internal/pkg/otp"
	"github.com/shandysiswandi/seedotp/internal/seed/store"
	"go.uber.org/atomic"
)

const codeLogTimeLayout = "2006-01-02 15:04:05"

type seedReader interface {
	Get() ([]byte, error)
}

type codeGenerator interface {
	GenerateNow(secret []byte) (otp.Code, error)
}

type CodeLogConfig struct {
	Path     string
	Interval time.Duration
}

// CodeLogger appends the current code to a file on every tick, once per
// time step.
type CodeLogger struct {
	path     string
	interval time.Duration
	seeds    seedReader
	codes    codeGenerator
	clock    clock.Clocker

	lastStep *atomic.Uint64
	logged   *atomic.Bool
}

func NewCodeLogger(cfg CodeLogConfig, seeds seedReader, codes codeGenerator, clk clock.Clocker) *CodeLogger {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}

	if clk == nil {
		clk = clock.New()
	}

	return &CodeLogger{
		path:     cfg.Path,
		interval: cfg.Interval,
		seeds:    seeds,
		codes:    codes,
		clock:    clk,
		lastStep: atomic.NewUint64(0),
		logged:   atomic.NewBool(false),
	}
}

// Start schedules the logger on gm. It runs until ctx is canceled.
func (c *CodeLogger) Start(ctx context.Context, gm *goroutine.Manager) bool {
	return gm.Go(ctx, "seed.codelog", c.run)
}

func (c *CodeLogger) run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "code log job started", "path", c.path, "interval", c.interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "code log job stopped")
			return nil
		case <-ticker.C:
			if err := c.Tick(ctx); err != nil {
				slog.ErrorContext(ctx, "code log job failed to write", "path", c.path, "error", err)
			}
		}
	}
}

// Tick writes one line for the current step. It is a no-op when no seed is
// provisioned yet or the step was already logged.
func (c *CodeLogger) Tick(ctx context.Context) error {
	seed, err := c.seeds.Get()
	if errors.Is(err, store.ErrSeedNotProvisioned) {
		slog.DebugContext(ctx, "code log skipped, seed not provisioned")
		return nil
	}
	if err != nil {
		return err
	}

	code, err := c.codes.GenerateNow(seed)
	if err != nil {
		return err
	}

	if c.logged.Load() && c.lastStep.Load() == code.Step {
		return nil
	}

	line := fmt.Sprintf("%s UTC - 2FA Code: %s\n", c.clock.Now().UTC().Format(codeLogTimeLayout), code.Value)
	if err := appendLine(c.path, line); err != nil {
		return err
	}

	c.lastStep.Store(code.Step)
	c.logged.Store(true)

	return nil
}

func appendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

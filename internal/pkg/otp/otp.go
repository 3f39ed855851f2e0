package otp

import (
	"crypto/subtle"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
	"github.com/pquerna/otp/totp"
	"github.com/shandysiswandi/seedotp/internal/pkg/clock"
	"github.com/shandysiswandi/seedotp/internal/pkg/codec"
)

// Config is the fixed TOTP parameter set of an Engine.
type Config struct {
	Issuer    string
	Period    uint
	Digits    otp.Digits
	Algorithm otp.Algorithm
}

// Code is a generated code together with its position in time.
type Code struct {
	Value            string
	Step             uint64
	SecondsRemaining int
}

// Engine generates and verifies TOTP codes.
type Engine struct {
	cfg   Config
	clock clock.Clocker
}

// New constructs an Engine.
//
// A zero period falls back to 30 seconds and digits other than 6 or 8 fall
// back to 6. The algorithm defaults to SHA1 (its zero value).
func New(cfg Config, clk clock.Clocker) *Engine {
	if cfg.Digits != otp.DigitsSix && cfg.Digits != otp.DigitsEight {
		cfg.Digits = otp.DigitsSix
	}

	if cfg.Period == 0 {
		cfg.Period = 30
	}

	if clk == nil {
		clk = clock.New()
	}

	return &Engine{cfg: cfg, clock: clk}
}

// Config returns the engine parameters.
func (e *Engine) Config() Config {
	return e.cfg
}

// StepIndex is the number of whole periods elapsed since the UNIX epoch at t.
func (e *Engine) StepIndex(t time.Time) uint64 {
	return uint64(t.Unix()) / uint64(e.cfg.Period)
}

// Generate returns the zero padded code for secret at the given step.
func (e *Engine) Generate(secret []byte, step uint64) (string, error) {
	return hotp.GenerateCodeCustom(codec.BytesToBase32(secret), step, hotp.ValidateOpts{
		Digits:    e.cfg.Digits,
		Algorithm: e.cfg.Algorithm,
	})
}

// GenerateNow returns the code for the current step and the number of
// seconds it stays current, in the range (0, period].
func (e *Engine) GenerateNow(secret []byte) (Code, error) {
	now := e.clock.Now()
	step := e.StepIndex(now)

	value, err := e.Generate(secret, step)
	if err != nil {
		return Code{}, err
	}

	period := int64(e.cfg.Period)

	return Code{
		Value:            value,
		Step:             step,
		SecondsRemaining: int(period - now.Unix()%period),
	}, nil
}

// Verify reports whether code matches the secret at any step within window
// steps of the current one. The match is an exact string comparison, so
// "81804" never matches "081804".
func (e *Engine) Verify(secret []byte, code string, window uint) bool {
	if len(code) != e.cfg.Digits.Length() {
		return false
	}

	current := int64(e.StepIndex(e.clock.Now()))
	w := int64(window)

	for k := -w; k <= w; k++ {
		step := current + k
		if step < 0 {
			continue
		}

		want, err := e.Generate(secret, uint64(step))
		if err != nil {
			return false
		}

		if subtle.ConstantTimeCompare([]byte(want), []byte(code)) == 1 {
			return true
		}
	}

	return false
}

// ProvisioningKey builds the otpauth:// key an authenticator app can import
// for secret.
func (e *Engine) ProvisioningKey(secret []byte, accountName string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      e.cfg.Issuer,
		AccountName: accountName,
		Period:      e.cfg.Period,
		Secret:      secret,
		Digits:      e.cfg.Digits,
		Algorithm:   e.cfg.Algorithm,
	})
}

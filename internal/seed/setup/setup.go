// Package setup builds the seed module's config-driven dependencies. The
// HTTP server and seedctl both go through it so they read keys, TOTP
// parameters and the persisted seed the same way.
package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	pqotp "github.com/pquerna/otp"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/seedotp/internal/pkg/config"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/otp"
	"github.com/shandysiswandi/seedotp/internal/pkg/rsakit"
	"github.com/shandysiswandi/seedotp/internal/seed/outbound/persist"
	"github.com/shandysiswandi/seedotp/internal/seed/store"
)

const (
	DefaultSeedSize = 32
	DefaultSeedPath = "data/seed.txt"
)

var (
	ErrOwnerKeyMissing      = errors.New("owner private key is not configured")
	ErrUnsupportedAlgorithm = errors.New("unsupported totp algorithm")
	ErrUnsupportedDriver    = errors.New("unsupported seed persist driver")
)

// ReadKey prefers the inline <prefix>_pem value and falls back to reading
// <prefix>_path. Both empty yields an empty string.
func ReadKey(cfg config.Config, prefix string) (string, error) {
	if v := strings.TrimSpace(cfg.GetString(prefix + "_pem")); v != "" {
		return v, nil
	}

	path := strings.TrimSpace(cfg.GetString(prefix + "_path"))
	if path == "" {
		return "", nil
	}

	// #nosec G304 -- path is from trusted config file.
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Keyring loads keys.private_key and keys.verifier_public_key. The owner key
// is mandatory; a missing verifier leaves Keyring.HasVerifier false.
func Keyring(cfg config.Config) (*rsakit.Keyring, error) {
	ownerPEM, err := ReadKey(cfg, "keys.private_key")
	if err != nil {
		return nil, fmt.Errorf("read owner private key: %w", err)
	}
	if ownerPEM == "" {
		return nil, ErrOwnerKeyMissing
	}

	verifierPEM, err := ReadKey(cfg, "keys.verifier_public_key")
	if err != nil {
		return nil, fmt.Errorf("read verifier public key: %w", err)
	}

	kr, err := rsakit.NewKeyring(ownerPEM, verifierPEM)
	if err != nil {
		return nil, fmt.Errorf("load keys: %w", err)
	}

	return kr, nil
}

// TotpConfig reads the totp.* section.
func TotpConfig(cfg config.Config) (otp.Config, error) {
	algorithm := pqotp.AlgorithmSHA1
	raw := cfg.GetString("totp.algorithm")
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "SHA1":
	case "SHA256":
		algorithm = pqotp.AlgorithmSHA256
	case "SHA512":
		algorithm = pqotp.AlgorithmSHA512
	default:
		return otp.Config{}, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, raw)
	}

	return otp.Config{
		Issuer:    cfg.GetString("totp.issuer"),
		Period:    cfg.GetUint("totp.period"),
		Digits:    pqotp.Digits(cfg.GetInt("totp.digits")),
		Algorithm: algorithm,
	}, nil
}

// SeedStore is the store selected by seed.persist.driver. Redis is set only
// for the redis driver and must be closed by the caller.
type SeedStore struct {
	Store  *store.Store
	Driver string
	Size   int
	Redis  *redis.Client
}

// NewSeedStore builds the store for the configured driver without restoring
// it.
func NewSeedStore(ctx context.Context, cfg config.Config, ins instrument.Instrumentation) (*SeedStore, error) {
	size := cfg.GetInt("seed.size_bytes")
	if size <= 0 {
		size = DefaultSeedSize
	}

	driver := strings.TrimSpace(cfg.GetString("seed.persist.driver"))
	if driver == "" {
		driver = "file"
	}

	ss := &SeedStore{Driver: driver, Size: size}

	switch driver {
	case "file":
		path := strings.TrimSpace(cfg.GetString("seed.persist.file.path"))
		if path == "" {
			path = DefaultSeedPath
		}
		ss.Store = store.New(size, persist.NewFile(path, ins))
	case "redis":
		rdb, err := dialRedis(ctx, cfg.GetString("seed.persist.redis.url"))
		if err != nil {
			return nil, err
		}
		ss.Redis = rdb
		ss.Store = store.New(size, persist.NewRedis(rdb, cfg.GetString("seed.persist.redis.key"), ins))
	case "memory":
		ss.Store = store.New(size, nil)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	return ss, nil
}

func dialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/shandysiswandi/seedotp/internal/pkg/clock"
	"github.com/shandysiswandi/seedotp/internal/pkg/config"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/otp"
	"github.com/shandysiswandi/seedotp/internal/pkg/validator"
	"github.com/shandysiswandi/seedotp/internal/seed/entity"
	"github.com/shandysiswandi/seedotp/internal/seed/outbound/issuer"
	"github.com/shandysiswandi/seedotp/internal/seed/setup"
	"github.com/shandysiswandi/seedotp/internal/seed/store"
	"github.com/shandysiswandi/seedotp/internal/seed/usecase"
)

const usageText = `seedctl - seed provisioning and TOTP tool

Usage:
  seedctl request-seed --account <id> --repo <url> [--out encrypted_seed.txt]
  seedctl decrypt-seed [--in encrypted_seed.txt]   (reads stdin when --in is "-")
  seedctl generate [--at <RFC3339>]
  seedctl verify --code <code> [--window <n>] [--at <RFC3339>]
  seedctl commit-proof [--commit <sha>] [--out encrypted_commit_proof.txt]
  seedctl submit --account <id> --repo <url> [--commit <sha>] [--seed-file encrypted_seed.txt]

Every command accepts --config <path>. It defaults to $CONFIG_PATH, then
./config/config.yaml.`

type command func(ctx context.Context, args []string, stdout, stderr io.Writer) error

var commands = map[string]command{
	"request-seed": cmdRequestSeed,
	"decrypt-seed": cmdDecryptSeed,
	"generate":     cmdGenerate,
	"verify":       cmdVerify,
	"commit-proof": cmdCommitProof,
	"submit":       cmdSubmit,
}

var errUsage = errors.New("usage error")

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, usageText)
		return 1
	}

	switch args[0] {
	case "help", "--help", "-h":
		fmt.Fprintln(stdout, usageText)
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command: %s\n", args[0])
		fmt.Fprintln(stderr, usageText)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := cmd(ctx, args[1:], stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", describe(err))
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, usageText)
		}
		return 1
	}

	return 0
}

// describe flattens validation errors into "field: message" pairs.
func describe(err error) string {
	var verr validator.V10ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}

	parts := make([]string, 0, len(verr))
	for field, msg := range verr.Values() {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)

	return strings.Join(parts, "; ")
}

type commonFlags struct {
	fs     *flag.FlagSet
	config *string
	at     *string
}

func newFlags(name string, withAt bool) *commonFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cf := &commonFlags{
		fs:     fs,
		config: fs.String("config", "", "path to the config file"),
	}
	if withAt {
		cf.at = fs.String("at", "", "compute codes at this RFC3339 instant instead of now")
	}

	return cf
}

func (cf *commonFlags) parse(args []string) error {
	if err := cf.fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %w", errUsage, cf.fs.Name(), err)
	}
	if cf.fs.NArg() > 0 {
		return fmt.Errorf("%w: %s: unexpected arguments %v", errUsage, cf.fs.Name(), cf.fs.Args())
	}
	return nil
}

func (cf *commonFlags) clock() (clock.Clocker, error) {
	if cf.at == nil || *cf.at == "" {
		return clock.New(), nil
	}

	t, err := time.Parse(time.RFC3339, *cf.at)
	if err != nil {
		return nil, fmt.Errorf("--at: %w", err)
	}

	return clock.NewFixed(t), nil
}

func configPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "./config/config.yaml"
}

// load wires the seed usecase the same way the server does, without the
// HTTP side. Logs go to stderr so stdout stays scriptable. The returned func
// releases the seed store's connections.
func load(ctx context.Context, cf *commonFlags, stderr io.Writer) (*usecase.Usecase, func(), error) {
	clk, err := cf.clock()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.NewViper(configPath(*cf.config))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.GetString("instrument.log_level")
	if level == "" {
		level = "warn"
	}
	instrument.InitLogging(stderr, "seedctl", nil, cfg.GetArray("instrument.log_mask_fields"), level)
	ins := instrument.NewNoop()

	kr, err := setup.Keyring(cfg)
	if err != nil {
		return nil, nil, err
	}

	totpCfg, err := setup.TotpConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	ss, err := setup.NewSeedStore(ctx, cfg, ins)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if ss.Redis != nil {
			_ = ss.Redis.Close()
		}
	}

	if err := ss.Store.Restore(ctx); err != nil && !errors.Is(err, store.ErrSeedNotProvisioned) {
		release()
		return nil, nil, fmt.Errorf("restore seed: %w", err)
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		release()
		return nil, nil, err
	}

	iss := issuer.New(issuer.Config{
		URL:        cfg.GetString("issuer.url"),
		Timeout:    cfg.GetSecond("issuer.timeout_seconds"),
		MaxRetries: cfg.GetUint64("issuer.max_retries"),
		Backoff:    time.Duration(cfg.GetInt("issuer.backoff_millis")) * time.Millisecond,
	}, ins)

	return usecase.New(usecase.Dependency{
		Keyring:    kr,
		Store:      ss.Store,
		Totp:       otp.New(totpCfg, clk),
		Issuer:     iss,
		Validator:  v,
		Config:     cfg,
		Instrument: ins,
	}), release, nil
}

func gitHead(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "git", "rev-parse", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse HEAD: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}

	// #nosec G304 -- path comes from the operator.
	data, err := os.ReadFile(path)
	return string(data), err
}

func writeOutput(path, content string) error {
	if path == "" {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

func cmdRequestSeed(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cf := newFlags("request-seed", false)
	account := cf.fs.String("account", "", "account id registered with the issuer")
	repo := cf.fs.String("repo", "", "repository url")
	out := cf.fs.String("out", "encrypted_seed.txt", "file to store the encrypted seed in")
	if err := cf.parse(args); err != nil {
		return err
	}

	uc, release, err := load(ctx, cf, stderr)
	if err != nil {
		return err
	}
	defer release()

	resp, err := uc.RequestSeed(ctx, usecase.RequestSeedInput{AccountID: *account, RepositoryURL: *repo})
	if err != nil {
		return err
	}

	if err := writeOutput(*out, resp.EncryptedSeed); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "seed_length=%d\n", resp.SeedLength)
	return nil
}

func cmdDecryptSeed(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cf := newFlags("decrypt-seed", false)
	in := cf.fs.String("in", "encrypted_seed.txt", "file holding the base64 encrypted seed, - for stdin")
	if err := cf.parse(args); err != nil {
		return err
	}

	text, err := readInput(*in, os.Stdin)
	if err != nil {
		return err
	}

	uc, release, err := load(ctx, cf, stderr)
	if err != nil {
		return err
	}
	defer release()

	resp, err := uc.DecryptSeed(ctx, usecase.DecryptSeedInput{Payload: entity.NewEncryptedSeed(text)})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "seed_length=%d\nseed_hex=%s\n", resp.SeedLength, resp.SeedHex)
	return nil
}

func cmdGenerate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cf := newFlags("generate", true)
	if err := cf.parse(args); err != nil {
		return err
	}

	uc, release, err := load(ctx, cf, stderr)
	if err != nil {
		return err
	}
	defer release()

	resp, err := uc.GenerateCode(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "code=%s\nvalid_for=%d\n", resp.Code, resp.ValidFor)
	return nil
}

func cmdVerify(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cf := newFlags("verify", true)
	code := cf.fs.String("code", "", "code to check")
	window := cf.fs.Int("window", -1, "steps tolerated on each side, default from config")
	if err := cf.parse(args); err != nil {
		return err
	}

	uc, release, err := load(ctx, cf, stderr)
	if err != nil {
		return err
	}
	defer release()

	in := usecase.VerifyCodeInput{Code: *code}
	if *window >= 0 {
		in.Window = window
	}

	resp, err := uc.VerifyCode(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "valid=%t\n", resp.Valid)
	return nil
}

func cmdCommitProof(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cf := newFlags("commit-proof", false)
	commit := cf.fs.String("commit", "", "commit hash, defaults to git rev-parse HEAD")
	out := cf.fs.String("out", "", "file to store the encrypted signature in")
	if err := cf.parse(args); err != nil {
		return err
	}

	hash := *commit
	if hash == "" {
		var err error
		if hash, err = gitHead(ctx); err != nil {
			return err
		}
	}

	uc, release, err := load(ctx, cf, stderr)
	if err != nil {
		return err
	}
	defer release()

	resp, err := uc.CommitProof(ctx, usecase.CommitProofInput{CommitHash: hash})
	if err != nil {
		return err
	}

	if err := writeOutput(*out, resp.EncryptedSignature); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "commit_hash=%s\nencrypted_signature=%s\n", resp.CommitHash, resp.EncryptedSignature)
	return nil
}

func cmdSubmit(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cf := newFlags("submit", false)
	account := cf.fs.String("account", "", "account id registered with the issuer")
	repo := cf.fs.String("repo", "", "repository url")
	commit := cf.fs.String("commit", "", "commit hash, defaults to git rev-parse HEAD")
	seedFile := cf.fs.String("seed-file", "encrypted_seed.txt", "file holding the encrypted seed from request-seed")
	if err := cf.parse(args); err != nil {
		return err
	}

	hash := *commit
	if hash == "" {
		var err error
		if hash, err = gitHead(ctx); err != nil {
			return err
		}
	}

	encryptedSeed, err := readInput(*seedFile, os.Stdin)
	if err != nil {
		return err
	}

	uc, release, err := load(ctx, cf, stderr)
	if err != nil {
		return err
	}
	defer release()

	resp, err := uc.Submit(ctx, usecase.SubmitInput{
		AccountID:     *account,
		RepositoryURL: *repo,
		CommitHash:    hash,
		EncryptedSeed: encryptedSeed,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "status=%d\nbody=%s\n", resp.StatusCode, resp.Body)
	return nil
}

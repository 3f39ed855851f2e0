package main

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pqotp "github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/shandysiswandi/seedotp/internal/pkg/rsakit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	seedHex    = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	seedBase32 = "AAAQEAYEAUDAOCAJBIFQYDIOB4IBCEQTCQKRMFYYDENBWHA5DYPQ"
)

type fixture struct {
	dir        string
	configPath string
	seedPath   string
	owner      *rsa.PrivateKey
	verifier   *rsa.PrivateKey
}

func newFixture(t *testing.T, extraConfig ...string) *fixture {
	t.Helper()

	dir := t.TempDir()

	owner, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	verifier, err := rsa.GenerateKey(rand.Reader, 3072)
	require.NoError(t, err)

	ownerPath := filepath.Join(dir, "owner.pem")
	require.NoError(t, os.WriteFile(ownerPath, pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(owner),
	}), 0o600))

	verifierPEM, err := rsakit.EncodePublicKey(&verifier.PublicKey)
	require.NoError(t, err)

	seedPath := filepath.Join(dir, "seed.txt")
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, fmt.Appendf(nil, `
instrument:
  log_level: error
keys:
  private_key_path: %q
  verifier_public_key_pem: %q
seed:
  persist:
    file:
      path: %q
%s`, ownerPath, verifierPEM, seedPath, strings.Join(extraConfig, "\n")), 0o600))

	return &fixture{dir: dir, configPath: configPath, seedPath: seedPath, owner: owner, verifier: verifier}
}

func (f *fixture) run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(append(args, "--config", f.configPath), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage:")

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"bogus"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "unknown command: bogus")

	assert.Equal(t, 0, run([]string{"help"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "seedctl generate")
}

func TestRun_GenerateBeforeProvisioning(t *testing.T) {
	f := newFixture(t)

	code, _, stderr := f.run("generate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Seed not provisioned")
}

func TestRun_DecryptGenerateVerify(t *testing.T) {
	f := newFixture(t)

	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}
	ct, err := rsakit.Encrypt(seed, &f.owner.PublicKey)
	require.NoError(t, err)

	b64 := base64.StdEncoding.EncodeToString(ct)
	in := filepath.Join(f.dir, "encrypted_seed.txt")
	require.NoError(t, os.WriteFile(in, []byte(b64[:60]+"\n"+b64[60:]+"\n"), 0o600))

	code, stdout, stderr := f.run("decrypt-seed", "--in", in)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "seed_length=32\nseed_hex="+seedHex+"\n", stdout)

	persisted, err := os.ReadFile(f.seedPath)
	require.NoError(t, err)
	assert.Equal(t, seedHex, string(persisted))

	code, stdout, stderr = f.run("generate", "--at", "1970-01-01T00:00:00Z")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "code=414783\nvalid_for=30\n", stdout)

	code, stdout, _ = f.run("verify", "--code", "555770", "--window", "0", "--at", "1970-01-01T00:00:00Z")
	require.Equal(t, 0, code)
	assert.Equal(t, "valid=false\n", stdout)

	code, stdout, _ = f.run("verify", "--code", "555770", "--at", "1970-01-01T00:00:00Z")
	require.Equal(t, 0, code)
	assert.Equal(t, "valid=true\n", stdout)

	code, _, stderr = f.run("generate", "--at", "yesterday")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--at")
}

func TestRun_GenerateHonoursTotpAlgorithm(t *testing.T) {
	f := newFixture(t, "totp:\n  algorithm: SHA256\n")
	require.NoError(t, os.WriteFile(f.seedPath, []byte(seedHex), 0o600))

	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	want, err := totp.GenerateCodeCustom(seedBase32, at, totp.ValidateOpts{
		Period:    30,
		Digits:    pqotp.DigitsSix,
		Algorithm: pqotp.AlgorithmSHA256,
	})
	require.NoError(t, err)
	sha1Code, err := totp.GenerateCodeCustom(seedBase32, at, totp.ValidateOpts{
		Period:    30,
		Digits:    pqotp.DigitsSix,
		Algorithm: pqotp.AlgorithmSHA1,
	})
	require.NoError(t, err)
	require.NotEqual(t, sha1Code, want)

	code, stdout, stderr := f.run("generate", "--at", at.Format(time.RFC3339))
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "code="+want+"\nvalid_for=30\n", stdout)

	code, stdout, stderr = f.run("verify", "--code", want, "--window", "0", "--at", at.Format(time.RFC3339))
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "valid=true\n", stdout)

	code, stdout, _ = f.run("verify", "--code", sha1Code, "--window", "0", "--at", at.Format(time.RFC3339))
	require.Equal(t, 0, code)
	assert.Equal(t, "valid=false\n", stdout)
}

func TestRun_RejectsUnknownTotpAlgorithm(t *testing.T) {
	f := newFixture(t, "totp:\n  algorithm: MD5\n")

	code, _, stderr := f.run("generate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unsupported totp algorithm")
}

func TestRun_CommitProof(t *testing.T) {
	f := newFixture(t)
	hash := strings.Repeat("9e", 20)
	out := filepath.Join(f.dir, "encrypted_commit_proof.txt")

	code, stdout, stderr := f.run("commit-proof", "--commit", hash, "--out", out)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "commit_hash="+hash+"\n")

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "encrypted_signature="+string(written)+"\n")

	sealed, err := base64.StdEncoding.DecodeString(string(written))
	require.NoError(t, err)
	sig, err := rsakit.Decrypt(sealed, f.verifier)
	require.NoError(t, err)
	assert.NoError(t, rsakit.Verify([]byte(hash), sig, &f.owner.PublicKey))

	code, _, stderr = f.run("commit-proof", "--commit", strings.ToUpper(hash))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "commit_hash:")
}

func TestRun_FlagErrors(t *testing.T) {
	f := newFixture(t)

	code, _, stderr := f.run("generate", "--nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Usage:")

	var stdout, errOut bytes.Buffer
	code = run([]string{"generate", "--config", filepath.Join(f.dir, "missing.yaml")}, &stdout, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "load config")
}

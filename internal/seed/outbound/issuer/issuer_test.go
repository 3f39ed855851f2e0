package issuer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/seed/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(url string, retries uint64) *Client {
	return New(Config{URL: url, Timeout: 2 * time.Second, MaxRetries: retries, Backoff: time.Millisecond}, instrument.NewNoop())
}

func TestClient_RequestSeed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{
			"student_id":      "24A95A6101",
			"github_repo_url": "https://github.com/acme/totp",
			"public_key":      "-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----",
		}, body)

		_, _ = w.Write([]byte(`{"status":"success","encrypted_seed":"QUJD"}`))
	}))
	t.Cleanup(srv.Close)

	got, err := newClient(srv.URL, 0).RequestSeed(context.Background(), entity.SeedRequest{
		AccountID:     "24A95A6101",
		RepositoryURL: "https://github.com/acme/totp",
		PublicKey:     "-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----",
	})
	require.NoError(t, err)
	assert.Equal(t, "QUJD", got)
}

func TestClient_RequestSeed_MissingField(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := newClient(srv.URL, 0).RequestSeed(context.Background(), entity.SeedRequest{})
	require.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"encrypted_seed":"QUJD"}`))
	}))
	t.Cleanup(srv.Close)

	got, err := newClient(srv.URL, 3).RequestSeed(context.Background(), entity.SeedRequest{})
	require.NoError(t, err)
	assert.Equal(t, "QUJD", got)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := newClient(srv.URL, 2).RequestSeed(context.Background(), entity.SeedRequest{})
	require.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad public key"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := newClient(srv.URL, 5).RequestSeed(context.Background(), entity.SeedRequest{})
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "bad public key")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Submit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/submit", r.URL.Path)

		var body submitRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://github.com/acme/totp", body.GithubRepoURL)
		assert.Equal(t, "https://github.com/acme/totp.git", body.RepoURL)
		assert.Equal(t, "abc", body.CommitHash)
		assert.Equal(t, "c2ln", body.EncryptedSignature)
		assert.Equal(t, "c2VlZA==", body.EncryptedSeed)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	receipt, err := newClient(srv.URL+"/", 0).Submit(context.Background(), entity.Submission{
		AccountID:          "24A95A6101",
		RepositoryURL:      "https://github.com/acme/totp/",
		CommitHash:         "abc",
		EncryptedSignature: "c2ln",
		EncryptedSeed:      "c2VlZA==",
		PublicKey:          "pem",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, receipt.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, receipt.Body)
}

func TestClient_NotConfigured(t *testing.T) {
	t.Parallel()

	_, err := newClient("", 0).RequestSeed(context.Background(), entity.SeedRequest{})
	require.ErrorIs(t, err, ErrNotConfigured)
}

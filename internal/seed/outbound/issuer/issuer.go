// Package issuer talks to the remote provisioning server that hands out
// encrypted seeds and receives commit proofs.
package issuer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/seed/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNotConfigured      = errors.New("issuer: url is not configured")
	ErrRejected           = errors.New("issuer: request rejected")
	ErrUnexpectedResponse = errors.New("issuer: unexpected response")
)

const maxBodySize = 1 << 20

type Config struct {
	URL        string
	Timeout    time.Duration
	MaxRetries uint64
	Backoff    time.Duration
}

type Client struct {
	http       *http.Client
	url        string
	maxRetries uint64
	backoff    time.Duration
	tracer     trace.Tracer
}

func New(cfg Config, ins instrument.Instrumentation) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.Backoff <= 0 {
		cfg.Backoff = 200 * time.Millisecond
	}

	return &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		url:        strings.TrimSpace(cfg.URL),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
		tracer:     ins.Tracer("seed.outbound.issuer"),
	}
}

type seedRequest struct {
	StudentID     string `json:"student_id"`
	GithubRepoURL string `json:"github_repo_url"`
	PublicKey     string `json:"public_key"`
}

type seedResponse struct {
	EncryptedSeed string `json:"encrypted_seed"`
}

type submitRequest struct {
	GithubRepoURL      string `json:"github_repo_url"`
	RepoURL            string `json:"repo_url"`
	StudentID          string `json:"student_id"`
	CommitHash         string `json:"commit_hash"`
	EncryptedSignature string `json:"encrypted_signature"`
	EncryptedSeed      string `json:"encrypted_seed"`
	PublicKey          string `json:"public_key"`
}

// RequestSeed asks the issuer to encrypt a fresh seed for req.PublicKey and
// returns the base64 ciphertext.
func (c *Client) RequestSeed(ctx context.Context, req entity.SeedRequest) (_ string, err error) {
	ctx, span := c.tracer.Start(ctx, "RequestSeed")
	defer func() { endSpan(span, err) }()

	status, body, err := c.post(ctx, c.url, seedRequest{
		StudentID:     req.AccountID,
		GithubRepoURL: req.RepositoryURL,
		PublicKey:     req.PublicKey,
	})
	if err != nil {
		return "", err
	}

	var resp seedResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.EncryptedSeed == "" {
		return "", fmt.Errorf("%w: status=%d", ErrUnexpectedResponse, status)
	}

	return resp.EncryptedSeed, nil
}

// Submit sends the commit proof and the original encrypted seed.
func (c *Client) Submit(ctx context.Context, sub entity.Submission) (_ *entity.SubmissionReceipt, err error) {
	ctx, span := c.tracer.Start(ctx, "Submit")
	defer func() { endSpan(span, err) }()

	repoURL := strings.TrimSuffix(sub.RepositoryURL, "/")

	status, body, err := c.post(ctx, strings.TrimSuffix(c.url, "/")+"/submit", submitRequest{
		GithubRepoURL:      repoURL,
		RepoURL:            strings.TrimSuffix(repoURL, ".git") + ".git",
		StudentID:          sub.AccountID,
		CommitHash:         sub.CommitHash,
		EncryptedSignature: sub.EncryptedSignature,
		EncryptedSeed:      sub.EncryptedSeed,
		PublicKey:          sub.PublicKey,
	})
	if err != nil {
		return nil, err
	}

	return &entity.SubmissionReceipt{StatusCode: status, Body: string(body)}, nil
}

func (c *Client) post(ctx context.Context, url string, payload any) (int, []byte, error) {
	if c.url == "" {
		return 0, nil, ErrNotConfigured
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	b := retry.NewFibonacci(c.backoff)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(c.maxRetries, b)

	var (
		status int
		body   []byte
	)

	err = retry.Do(ctx, b, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return retry.RetryableError(err)
		}
		status = resp.StatusCode

		switch {
		case status >= http.StatusInternalServerError, status == http.StatusTooManyRequests:
			return retry.RetryableError(fmt.Errorf("%w: status=%d", ErrRejected, status))
		case status >= http.StatusBadRequest:
			return fmt.Errorf("%w: status=%d body=%s", ErrRejected, status, truncate(body, 256))
		}

		return nil
	})
	if err != nil {
		return status, body, err
	}

	return status, body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

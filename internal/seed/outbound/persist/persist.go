// Package persist holds the durable backends for the provisioned seed.
// Both store the canonical lowercase hex form and report a missing seed as
// goerror.ErrNotFound.
package persist

import (
	"errors"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shandysiswandi/seedotp/internal/pkg/codec"
	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"go.opentelemetry.io/otel/trace"
)

// File stores the seed as lowercase hex in a single file.
type File struct {
	path   string
	tracer trace.Tracer
}

func NewFile(path string, ins instrument.Instrumentation) *File {
	return &File{
		path:   path,
		tracer: ins.Tracer("seed.outbound.persist.file"),
	}
}

// Load reads the seed back. A missing or empty file is goerror.ErrNotFound.
func (f *File) Load(ctx context.Context) (_ []byte, err error) {
	_, span := f.tracer.Start(ctx, "Load")
	defer func() { endSpan(span, err) }()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, goerror.ErrNotFound
	}

	return codec.HexToBytes(text)
}

// Save writes the seed to a temp file in the target directory, syncs it and
// renames it over the target, so a reader sees either the old or the new
// value.
func (f *File) Save(ctx context.Context, seed []byte) (err error) {
	_, span := f.tracer.Start(ctx, "Save")
	defer func() { endSpan(span, err) }()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create seed dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp seed file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.WriteString(codec.BytesToHex(seed)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp seed file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp seed file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp seed file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return fmt.Errorf("chmod temp seed file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("replace seed file: %w", err)
	}

	return nil
}

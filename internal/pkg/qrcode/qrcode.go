package qrcode

import (
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"

	"github.com/shandysiswandi/seedotp/internal/pkg/codec"
)

var (
	// ErrEmptyContent is returned when the content is blank.
	ErrEmptyContent = errors.New("qrcode: content cannot be empty")
	// ErrGenerate wraps failures from the encoder.
	ErrGenerate = errors.New("qrcode: failed to generate")
)

// DefaultSize is the image width in pixels used when size is not positive.
const DefaultSize = 256

const dataURIPrefix = "data:image/png;base64,"

// Generate encodes content as a PNG image of size x size pixels.
func Generate(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}

	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrGenerate, err)
	}
	return png, nil
}

// DataURI returns the QR image as a data:image/png;base64 URI that can be
// dropped into an <img src>.
func DataURI(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return dataURIPrefix + codec.EncodeBase64(png), nil
}

package rsakit

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"regexp"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	pemBegin = regexp.MustCompile(`-----BEGIN ([A-Z0-9 ]+)-----`)
	pemEnd   = regexp.MustCompile(`-----END ([A-Z0-9 ]+)-----`)
)

// NormalizePEM turns PEM text that went through JSON or shell quoting back
// into its multi-line form. Escaped newlines, single or double, become real
// newlines and carriage returns are dropped.
//
// The result must carry matching BEGIN/END markers and no leftover
// backslash, otherwise ErrInvalidKey is returned.
func NormalizePEM(text string) (string, error) {
	s := strings.ReplaceAll(text, `\\n`, "\n")
	s = strings.ReplaceAll(s, `\r\n`, "\n")
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSpace(s)

	begin := pemBegin.FindStringSubmatch(s)
	end := pemEnd.FindStringSubmatch(s)
	if begin == nil || end == nil || begin[1] != end[1] {
		return "", ErrInvalidKey
	}

	if strings.Contains(s, `\`) {
		return "", ErrInvalidKey
	}

	return s, nil
}

// ParsePrivateKey parses a PKCS#1 or PKCS#8 RSA private key.
func ParsePrivateKey(text string) (*rsa.PrivateKey, error) {
	s, err := NormalizePEM(text)
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(s))
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}

	return key, nil
}

// ParsePublicKey parses a PKIX or PKCS#1 RSA public key, or the key of an
// X.509 certificate.
func ParsePublicKey(text string) (*rsa.PublicKey, error) {
	s, err := NormalizePEM(text)
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(s))
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}

	return key, nil
}

// EncodePublicKey returns the PKIX PEM form of pub.
func EncodePublicKey(pub *rsa.PublicKey) (string, error) {
	if pub == nil {
		return "", ErrInvalidKey
	}

	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", errors.Join(ErrInvalidKey, err)
	}

	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}

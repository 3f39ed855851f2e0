package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrEncryptedSeedEmpty = errors.New("seed: encrypted seed is empty")
	ErrEncryptedSeedShape = errors.New("seed: encrypted seed has an unsupported shape")
)

// EncryptedSeedShape names the transport form an encrypted seed arrived in.
type EncryptedSeedShape uint8

const (
	// EncryptedSeedShapeUnknown mean nothing was decoded.
	EncryptedSeedShapeUnknown EncryptedSeedShape = 0

	// EncryptedSeedShapeText mean a plain base64 string.
	EncryptedSeedShapeText EncryptedSeedShape = 1

	// EncryptedSeedShapeFragments mean an array of string fragments to be joined.
	EncryptedSeedShapeFragments EncryptedSeedShape = 2

	// EncryptedSeedShapeWrapped mean an object of the form {"value": "..."}.
	EncryptedSeedShapeWrapped EncryptedSeedShape = 3

	// EncryptedSeedShapeIndexed mean an object keyed "0", "1", ... holding fragments.
	EncryptedSeedShapeIndexed EncryptedSeedShape = 4
)

func (s EncryptedSeedShape) String() string {
	switch s {
	case EncryptedSeedShapeText:
		return "Text"
	case EncryptedSeedShapeFragments:
		return "Fragments"
	case EncryptedSeedShapeWrapped:
		return "Wrapped"
	case EncryptedSeedShapeIndexed:
		return "Indexed"
	default:
		return "Unknown"
	}
}

// EncryptedSeed is the base64 ciphertext of a seed in any of the forms
// clients are known to send. Fragments are kept in their final order.
type EncryptedSeed struct {
	shape     EncryptedSeedShape
	fragments []string
}

// NewEncryptedSeed wraps base64 text.
func NewEncryptedSeed(text string) EncryptedSeed {
	return EncryptedSeed{shape: EncryptedSeedShapeText, fragments: []string{text}}
}

func (e EncryptedSeed) Shape() EncryptedSeedShape {
	return e.shape
}

func (e EncryptedSeed) IsZero() bool {
	return e.shape == EncryptedSeedShapeUnknown
}

// Normalize joins the fragments and drops every whitespace character,
// producing the canonical single line base64 text.
func (e EncryptedSeed) Normalize() (string, error) {
	if e.IsZero() {
		return "", ErrEncryptedSeedEmpty
	}

	out := strings.Join(strings.Fields(strings.Join(e.fragments, "")), "")
	if out == "" {
		return "", ErrEncryptedSeedEmpty
	}

	return out, nil
}

// UnmarshalJSON accepts a string, an array of strings, {"value": string}
// or an object with non-negative integer keys mapping to strings.
func (e *EncryptedSeed) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*e = EncryptedSeed{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = NewEncryptedSeed(s)
		return nil

	case '[':
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return ErrEncryptedSeedShape
		}
		*e = EncryptedSeed{shape: EncryptedSeedShapeFragments, fragments: parts}
		return nil

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return ErrEncryptedSeedShape
		}
		return e.fromObject(obj)
	}

	return ErrEncryptedSeedShape
}

func (e *EncryptedSeed) fromObject(obj map[string]json.RawMessage) error {
	if raw, ok := obj["value"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ErrEncryptedSeedShape
		}
		*e = EncryptedSeed{shape: EncryptedSeedShapeWrapped, fragments: []string{s}}
		return nil
	}

	if len(obj) == 0 {
		return ErrEncryptedSeedShape
	}

	index := make(map[string]int, len(obj))
	for k := range obj {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 {
			return ErrEncryptedSeedShape
		}
		index[k] = n
	}

	keys := lo.Keys(obj)
	slices.SortFunc(keys, func(a, b string) int { return index[a] - index[b] })

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		var s string
		if err := json.Unmarshal(obj[k], &s); err != nil {
			return ErrEncryptedSeedShape
		}
		parts = append(parts, s)
	}

	*e = EncryptedSeed{shape: EncryptedSeedShapeIndexed, fragments: parts}
	return nil
}

// MarshalJSON emits the normalized text, or null when empty.
func (e EncryptedSeed) MarshalJSON() ([]byte, error) {
	s, err := e.Normalize()
	if err != nil {
		return []byte("null"), nil
	}
	return json.Marshal(s)
}

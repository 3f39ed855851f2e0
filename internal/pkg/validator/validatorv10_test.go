package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type proofInput struct {
	CommitHash string `validate:"required,commithash"`
}

type codeInput struct {
	Code   string `validate:"required,len=6,number"`
	Window *int   `validate:"omitempty,gte=0,lte=10"`
}

func TestV10Validator_CommitHash(t *testing.T) {
	t.Parallel()

	v, err := NewV10Validator()
	require.NoError(t, err)

	tests := []struct {
		name  string
		hash  string
		valid bool
	}{
		{name: "valid", hash: "0123456789abcdef0123456789abcdef01234567", valid: true},
		{name: "39 chars", hash: "0123456789abcdef0123456789abcdef0123456"},
		{name: "41 chars", hash: "0123456789abcdef0123456789abcdef012345678"},
		{name: "uppercase", hash: "0123456789ABCDEF0123456789abcdef01234567"},
		{name: "non hex", hash: "0123456789abcdeg0123456789abcdef01234567"},
		{name: "empty", hash: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := v.Validate(proofInput{CommitHash: tt.hash})
			if tt.valid {
				require.NoError(t, err)
				return
			}

			var verr V10ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Values(), "commit_hash")
		})
	}
}

func TestV10Validator_Messages(t *testing.T) {
	t.Parallel()

	v, err := NewV10Validator()
	require.NoError(t, err)

	err = v.Validate(proofInput{CommitHash: "ABC"})
	var verr V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "CommitHash must be a 40 character lowercase hex commit hash", verr["commit_hash"])

	window := 11
	err = v.Validate(codeInput{Code: "12a456", Window: &window})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Code must be a valid number", verr["code"])
	assert.Contains(t, verr, "window")

	zero := 0
	require.NoError(t, v.Validate(codeInput{Code: "012345", Window: &zero}))
	require.NoError(t, v.Validate(codeInput{Code: "012345"}))
}

func TestV10ValidationError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "validation error", V10ValidationError{}.Error())
	assert.JSONEq(t, `{"code":"bad"}`, V10ValidationError{"code": "bad"}.Error())
}

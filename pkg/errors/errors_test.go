package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"precondition", NewPrecondition("Query parameter is required"), "precondition error: Query parameter is required"},
		{"ingestion with cause", NewIngestion(CodeNetwork, "fetch failed", io.ErrUnexpectedEOF), "ingestion error (network): fetch failed: unexpected EOF"},
		{"measurement", NewMeasurement(2, 0), "measurement error: column 2 has unusable content height 0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsMatchesTypeAndCode(t *testing.T) {
	err := fmt.Errorf("search: %w", NewIngestion(CodeTimeout, "navigation timed out", nil))

	assert.True(t, stderrors.Is(err, ErrIngestion))
	assert.True(t, stderrors.Is(err, &Error{Type: ErrorTypeIngestion, Code: CodeTimeout}))
	assert.False(t, stderrors.Is(err, &Error{Type: ErrorTypeIngestion, Code: CodeSelector}))
	assert.False(t, stderrors.Is(err, ErrPrecondition))
}

func TestUnwrapReachesCause(t *testing.T) {
	err := NewIngestion(CodeNetwork, "fetch failed", io.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypePrecondition, TypeOf(fmt.Errorf("wrapped: %w", NewPrecondition("x"))))
	assert.Equal(t, ErrorTypeMeasurement, TypeOf(NewMeasurement(0, -1)))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(io.EOF))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(nil))
}

func TestIsRetryableStatusCode(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{0, true},
		{200, false},
		{400, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
	}

	for _, tt := range tests {
		if got := IsRetryableStatusCode(tt.code); got != tt.want {
			t.Errorf("IsRetryableStatusCode(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network", NewIngestion(CodeNetwork, "reset", nil), true},
		{"timeout", NewIngestion(CodeTimeout, "slow", nil), true},
		{"canceled", NewIngestion(CodeCanceled, "search cancelled", nil), false},
		{"selector", NewIngestion(CodeSelector, "no photos", nil), false},
		{"rate limit", &Error{Type: ErrorTypeRateLimit}, true},
		{"precondition", NewPrecondition("x"), false},
		{"untyped", io.EOF, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

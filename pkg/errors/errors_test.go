package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeHeaderNotFound, "could not find header row in first %d rows", 20)

	if err.Code != ErrCodeHeaderNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeHeaderNotFound)
	}

	if err.Message != "could not find header row in first 20 rows" {
		t.Errorf("Message = %v", err.Message)
	}

	expected := "HEADER_NOT_FOUND: could not find header row in first 20 rows"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := Wrap(ErrCodeInvalidWorkbook, cause, "open bulletin.xlsx")

	if err.Code != ErrCodeInvalidWorkbook {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidWorkbook)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeNoOperations, "no operations found"),
			code:     ErrCodeNoOperations,
			expected: true,
		},
		{
			name:     "different code",
			err:      New(ErrCodeNoOperations, "no operations found"),
			code:     ErrCodeHeaderNotFound,
			expected: false,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("parse: %w", New(ErrCodeRequiredColumnMissing, "x")),
			code:     ErrCodeRequiredColumnMissing,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInternal,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeLineNotFound, "x")); got != ErrCodeLineNotFound {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeLineNotFound)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := Wrap(ErrCodeRequiredColumnMissing, errors.New("inner"), "could not find machine type column")
	if got := UserMessage(err); got != "could not find machine type column" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestIsParseFatal(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeHeaderNotFound, true},
		{ErrCodeRequiredColumnMissing, true},
		{ErrCodeNoOperations, true},
		{ErrCodeInvalidWorkbook, false},
		{ErrCodeLineNotFound, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := IsParseFatal(New(tt.code, "x")); got != tt.want {
				t.Errorf("IsParseFatal(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

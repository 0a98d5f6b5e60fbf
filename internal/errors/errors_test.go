package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "failed to read input",
				Err:     errors.New("file not found"),
			},
			expected: "input: failed to read input: file not found",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeParsing,
				Message: "invalid JSON syntax",
				Err:     nil,
			},
			expected: "parsing: invalid JSON syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	appErr := &AppError{
		Type:    ErrorTypeInput,
		Message: "test message",
		Err:     wrappedErr,
	}

	result := appErr.Unwrap()
	assert.Equal(t, wrappedErr, result)
}

func TestAppError_Is(t *testing.T) {
	inputErr := NewInputError("one", nil)
	otherInputErr := NewInputError("two", nil)
	parsingErr := NewParsingError("three", nil)

	assert.True(t, errors.Is(inputErr, otherInputErr), "same types should match")
	assert.False(t, errors.Is(inputErr, parsingErr), "different types should not match")
	assert.False(t, errors.Is(inputErr, errors.New("plain")), "plain errors should not match")
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected ErrorType
	}{
		{"input", NewInputError("m", nil), ErrorTypeInput},
		{"parsing", NewParsingError("m", nil), ErrorTypeParsing},
		{"config", NewConfigError("m", nil), ErrorTypeConfig},
		{"output", NewOutputError("m", nil), ErrorTypeOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Type)
			assert.Equal(t, "m", tt.err.Message)
		})
	}
}

func TestErrorsIsWithSentinels(t *testing.T) {
	wrapped := NewParsingError("bad payload", ErrInvalidJSON)
	assert.True(t, errors.Is(wrapped, ErrInvalidJSON))
	assert.False(t, errors.Is(wrapped, ErrEmptyInput))
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"input app error", NewInputError("no file", nil), "Input error: no file"},
		{"parsing app error", NewParsingError("bad json", nil), "JSON parsing error: bad json"},
		{"config app error", NewConfigError("bad yaml", nil), "Configuration error: bad yaml"},
		{"output app error", NewOutputError("disk full", nil), "Output error: disk full"},
		{"empty input sentinel", ErrEmptyInput, "input is empty"},
		{"invalid json sentinel", ErrInvalidJSON, "invalid JSON"},
		{"multiple json sentinel", ErrMultipleJSON, "Multiple JSON values"},
		{"file not found sentinel", ErrFileNotFound, "could not be found"},
		{"no input sentinel", ErrNoInput, "No input provided"},
		{"unknown entity sentinel", ErrUnknownEntity, "Unknown entity kind"},
		{"generic error", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, UserFriendlyError(tt.err), tt.contains)
		})
	}
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeQueryFailed, cause, "search metric")

	if err.Code != ErrCodeQueryFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeQueryFailed)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	want := "QUERY_FAILED: search metric: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidView, "bad"), ErrCodeInvalidView, true},
		{"different code", New(ErrCodeInvalidView, "bad"), ErrCodeNotFound, false},
		{"wrapped by fmt", fmt.Errorf("outer: %w", New(ErrCodeStoreFailed, "x")), ErrCodeStoreFailed, true},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := fmt.Errorf("ctx: %w", New(ErrCodeNotFound, "no repo at %s", "/tmp"))
	if GetCode(err) != ErrCodeNotFound {
		t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeNotFound)
	}
	if UserMessage(err) != "no repo at /tmp" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
	plain := errors.New("plain")
	if GetCode(plain) != "" {
		t.Error("GetCode(plain) should be empty")
	}
	if UserMessage(plain) != "plain" {
		t.Error("UserMessage(plain) should be the error string")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidType, http.StatusBadRequest},
		{ErrCodeInvalidPath, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeQueryFailed, http.StatusBadGateway},
		{ErrCodeStoreFailed, http.StatusBadGateway},
		{ErrCodeUnsupported, http.StatusNotImplemented},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Errorf("%q.HTTPStatus() = %d, want %d", tt.code, got, tt.want)
		}
	}
}

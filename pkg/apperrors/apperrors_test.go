package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeOf(t *testing.T) {
	base := New(CodeNotFound, "user not found")

	if got := CodeOf(base); got != CodeNotFound {
		t.Fatalf("CodeOf(AppError) = %s", got)
	}

	wrapped := fmt.Errorf("loading profile: %w", base)
	if got := CodeOf(wrapped); got != CodeNotFound {
		t.Fatalf("CodeOf(wrapped AppError) = %s", got)
	}

	if got := CodeOf(errors.New("plain")); got != CodeStoreError {
		t.Fatalf("CodeOf(plain error) = %s", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeStoreError, "failed to load user")

	if !errors.Is(err, cause) {
		t.Fatal("Wrap must preserve the cause chain")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code string
		want int
	}{
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeInvalidOperation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeStoreError, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.code); got != tc.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

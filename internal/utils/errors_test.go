package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeQuotaExceeded, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(E(c.code, "Op", "msg", nil)); got != c.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestHTTPStatusFallbacks(t *testing.T) {
	if got := HTTPStatus(fmt.Errorf("load: %w", ErrNotFound)); got != http.StatusNotFound {
		t.Errorf("wrapped ErrNotFound = %d, want 404", got)
	}
	if got := HTTPStatus(errors.New("anything")); got != http.StatusInternalServerError {
		t.Errorf("plain error = %d, want 500", got)
	}
}

func TestIsCodeUnwraps(t *testing.T) {
	err := fmt.Errorf("outer: %w", E(CodeConflict, "Repo.Update", "stale", ErrConflict))
	if !IsCode(err, CodeConflict) {
		t.Fatal("IsCode should see through wrapping")
	}
	if IsCode(err, CodeNotFound) {
		t.Fatal("IsCode matched the wrong code")
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatal("sentinel should still unwrap")
	}
}

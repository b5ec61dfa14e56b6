package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeOf(t *testing.T) {
	if code := CodeOf(New(CodeNotFound, "gone")); code != CodeNotFound {
		t.Errorf("Expected NOT_FOUND, got '%s'", code)
	}

	// Codes survive fmt.Errorf wrapping
	wrapped := fmt.Errorf("loading conversation: %w", New(CodeBadRequest, "bad id"))
	if code := CodeOf(wrapped); code != CodeBadRequest {
		t.Errorf("Expected BAD_REQUEST through a wrapped chain, got '%s'", code)
	}

	if code := CodeOf(errors.New("plain")); code != CodeInternal {
		t.Errorf("Expected INTERNAL_ERROR for an uncoded error, got '%s'", code)
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(New(CodeNotFound, "gone")) {
		t.Error("Expected IsNotFound to be true for a NOT_FOUND error")
	}

	if IsNotFound(New(CodeBadRequest, "bad")) {
		t.Error("Expected IsNotFound to be false for other codes")
	}

	if IsNotFound(errors.New("plain")) {
		t.Error("Expected IsNotFound to be false for an uncoded error")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(CodeBadRequest, "bad"), http.StatusBadRequest},
		{New(CodeNotFound, "gone"), http.StatusNotFound},
		{New(CodeStreamError, "broken"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeStreamError, "failed to start generation", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected the cause to be reachable via errors.Is")
	}

	want := "STREAM_ERROR: failed to start generation: connection refused"
	if err.Error() != want {
		t.Errorf("Expected '%s', got '%s'", want, err.Error())
	}
}

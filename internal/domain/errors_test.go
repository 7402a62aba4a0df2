package domain

import (
	"errors"
	"net/http"
	"testing"
)

func TestBackendStatusError_Unwrap(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBackendRejected},
		{http.StatusNotFound, ErrBackendRejected},
		{http.StatusInternalServerError, ErrBackendUnavailable},
		{http.StatusBadGateway, ErrBackendUnavailable},
		{http.StatusFound, ErrBackendUnavailable},
	}

	for _, tt := range tests {
		err := NewBackendStatus(tt.status, "")
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: errors.Is(%v) = false", tt.status, tt.want)
		}
	}
}

func TestBackendStatusError_Message(t *testing.T) {
	err := NewBackendStatus(503, "busy")
	want := "marketplace backend unavailable: status 503"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	var bse *BackendStatusError
	if !errors.As(err, &bse) || bse.Body != "busy" {
		t.Error("errors.As did not recover body")
	}
}

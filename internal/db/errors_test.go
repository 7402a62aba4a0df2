package db

import (
	"context"
	"errors"
	"testing"
)

func TestError_WrapsOp(t *testing.T) {
	err := &Error{Op: OpGet, Err: context.DeadlineExceeded}

	if got, want := err.Error(), "GET: context deadline exceeded"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected errors.Is to see the wrapped error")
	}
}

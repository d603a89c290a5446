package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDomainError_WithCauseKeepsIdentity(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := ErrDatabaseError.WithCause(cause)

	if !errors.Is(wrapped, ErrDatabaseError) {
		t.Error("expected wrapped error to match its sentinel")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("expected wrapped error to expose its cause")
	}
	if wrapped.Error() != "database operation failed: connection refused" {
		t.Errorf("unexpected message: %s", wrapped.Error())
	}
}

func TestAsDomainError_ThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("load book: %w", ErrBookNotFound)

	de, ok := AsDomainError(err)
	if !ok {
		t.Fatal("expected domain error")
	}
	if de.HTTPStatus() != http.StatusNotFound {
		t.Errorf("expected 404, got %d", de.HTTPStatus())
	}
	if de.Category() != CategoryNotFound {
		t.Errorf("expected NOT_FOUND category, got %s", de.Category())
	}
}

func TestAsDomainError_PlainError(t *testing.T) {
	if _, ok := AsDomainError(errors.New("boom")); ok {
		t.Error("plain error must not be a domain error")
	}
}

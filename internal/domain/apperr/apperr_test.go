package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_IsAndMessage(t *testing.T) {
	ve := &ValidationError{}
	if ve.OrNil() != nil {
		t.Fatal("empty validation error must collapse to nil")
	}
	err := ve.Add("amount", "must be greater than or equal to 10000").Add("tenure", "is required").OrNil()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if got := err.Error(); got != "amount must be greater than or equal to 10000; tenure is required" {
		t.Fatalf("message = %q", got)
	}
	var target *ValidationError
	if !errors.As(fmt.Errorf("wrap: %w", err), &target) || len(target.Fields) != 2 {
		t.Fatalf("errors.As failed: %+v", target)
	}
}

func TestIsClient(t *testing.T) {
	for _, err := range []error{
		Invalid("status", "bad"),
		fmt.Errorf("loan application: %w", ErrNotFound),
		ErrForbidden, ErrUnauthenticated, ErrConflict,
	} {
		if !IsClient(err) {
			t.Fatalf("expected client error: %v", err)
		}
	}
	if IsClient(errors.New("db down")) {
		t.Fatal("internal error classified as client error")
	}
}

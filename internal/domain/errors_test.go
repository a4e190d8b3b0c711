package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	v := NewValidationError("cartCreate", "variantId is required")
	if !IsValidation(v) || IsBackend(v) || IsParse(v) {
		t.Fatalf("unexpected kind for %v", v)
	}
	if v.Error() != "cartCreate: variantId is required" {
		t.Fatalf("unexpected message %q", v.Error())
	}

	wrapped := fmt.Errorf("add: %w", NewParseError("cart", "cart has no id"))
	if KindOf(wrapped) != KindParse {
		t.Fatalf("kind should survive wrapping")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors have no kind")
	}
}

func TestUserErrorsDisplay(t *testing.T) {
	e := NewUserErrors("cartLinesAdd", []UserError{{Message: "Sold out"}, {Message: "Limit reached"}})
	if e.Error() != "cartLinesAdd: Sold out; Limit reached" {
		t.Fatalf("unexpected error %q", e.Error())
	}
	if DisplayMessage(e) != "Sold out" {
		t.Fatalf("unexpected display %q", DisplayMessage(e))
	}
	if len(UserErrorsOf(fmt.Errorf("wrap: %w", e))) != 2 {
		t.Fatalf("user errors should survive wrapping")
	}
}

func TestBackendErrorUnwraps(t *testing.T) {
	e := &Error{Kind: KindBackend, Op: "cart", Message: "cart does not exist", Err: ErrNotFound}
	if !errors.Is(e, ErrNotFound) {
		t.Fatalf("expected ErrNotFound in chain")
	}
	if e.Error() != "cart: cart does not exist: not found" {
		t.Fatalf("unexpected message %q", e.Error())
	}
	if DisplayMessage(e) != "cart does not exist" {
		t.Fatalf("unexpected display %q", DisplayMessage(e))
	}
	if DisplayMessage(nil) != "" {
		t.Fatalf("nil should render empty")
	}
}

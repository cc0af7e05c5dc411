package apierr

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatusOfAndCodeOf(t *testing.T) {
	err := Validation("bad input %d", 7)
	if StatusOf(err) != 400 {
		t.Fatalf("got %d, want 400", StatusOf(err))
	}
	if CodeOf(err) != CodeValidation {
		t.Fatalf("got %q", CodeOf(err))
	}

	plain := errors.New("boom")
	if StatusOf(plain) != 500 {
		t.Fatalf("got %d, want 500 for plain error", StatusOf(plain))
	}
	if CodeOf(plain) != "internal_error" {
		t.Fatalf("got %q", CodeOf(plain))
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("project missing"))
	if !IsCode(err, CodeNotFound) {
		t.Fatal("IsCode should see through wrapping")
	}
	if IsCode(err, CodeValidation) {
		t.Fatal("IsCode must not match a different code")
	}
}

func TestFromStorageClassifiesDriverErrors(t *testing.T) {
	unique := errors.New("UNIQUE constraint failed: state_events.project_id")
	if !IsCode(FromStorage(unique), CodeConstraint) {
		t.Fatalf("unique violation not classified: %v", FromStorage(unique))
	}

	locked := errors.New("database is locked")
	err := FromStorage(locked)
	if !IsCode(err, CodePoolExhausted) {
		t.Fatalf("lock contention not classified: %v", err)
	}
	if StatusOf(err) != 503 {
		t.Fatalf("got %d, want 503", StatusOf(err))
	}

	coded := NotFound("gone")
	var ae *Error
	if !errors.As(FromStorage(coded), &ae) || ae != coded {
		t.Fatal("coded errors must pass through unchanged")
	}
	if FromStorage(nil) != nil {
		t.Fatal("nil must stay nil")
	}
}

func TestReferentialMismatchStatus(t *testing.T) {
	err := ReferentialMismatch("persona points outside payload")
	if StatusOf(err) != 422 {
		t.Fatalf("got %d, want 422", StatusOf(err))
	}
}

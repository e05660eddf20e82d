package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("record", "feat-123")

	if got := err.Error(); got != "record with ID feat-123 not found" {
		t.Errorf("unexpected message: %s", got)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is(err, ErrNotFound) to be true")
	}
	if !IsNotFound(err) {
		t.Error("expected IsNotFound to be true")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("name", "", "cannot be empty")

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected errors.Is(err, ErrInvalidInput) to be true")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("expected errors.As to find ValidationError")
	}
	if ve.Field != "name" {
		t.Errorf("expected field name, got %s", ve.Field)
	}
}

func TestGroupErrorUnwrap(t *testing.T) {
	cause := errors.New("score out of range")
	err := NewGroupError("feature", 3, cause)

	if !errors.Is(err, cause) {
		t.Error("expected GroupError to unwrap to its cause")
	}
	want := "consolidation failed for feature group (3 candidates): score out of range"
	if err.Error() != want {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestStoreErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := WrapStore("put", "record", "r-1", cause)

	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatal("expected StoreError")
	}
	if se.Operation != "put" || se.ID != "r-1" {
		t.Errorf("unexpected fields: %+v", se)
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}
}

func TestWrapHelpersNilPassthrough(t *testing.T) {
	if WrapStore("get", "record", "x", nil) != nil {
		t.Error("WrapStore(nil) should return nil")
	}
	if WrapParse("yaml", "corpus.yaml", nil) != nil {
		t.Error("WrapParse(nil) should return nil")
	}
	if WrapValidation("field", nil) != nil {
		t.Error("WrapValidation(nil) should return nil")
	}
}

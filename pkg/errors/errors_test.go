package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCode(t *testing.T) {
	meta := MetadataFor(CodeNotFound)
	if meta.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", meta.HTTPStatus)
	}
	if meta.Retryable {
		t.Fatal("not found should not be retryable")
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeDependency, cause, "calling downstream")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be findable")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsFindsTypedError(t *testing.T) {
	inner := New(CodeConflict, "item already in cart")
	wrapped := Wrap(CodeInternal, inner, "outer")

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeInternal {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestAsReturnsNilForPlainError(t *testing.T) {
	if As(errors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad input").WithDetails(map[string]string{"field": "quantity"})
	details, ok := err.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type %T", err.Details())
	}
	if details["field"] != "quantity" {
		t.Fatalf("unexpected details %v", details)
	}
}

package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("device busy")
	err := Wrap(ErrResourceUnavailable, "camera", "open", "main camera", base)

	if !errors.Is(err, ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatal("expected wrapped base error to be preserved")
	}
}

func TestFatalOnlyForPreconditions(t *testing.T) {
	if !Fatal(Wrap(ErrPrecondition, "stimulus", "grid", "zero dimensions", nil)) {
		t.Fatal("precondition errors must be fatal")
	}
	if Fatal(Wrap(ErrResourceUnavailable, "camera", "open", "", nil)) {
		t.Fatal("resource errors must not be fatal")
	}
}

func TestDetailsStripsSentinelPrefix(t *testing.T) {
	err := Wrap(ErrPersistence, "store", "submit", "artifact rejected", nil)
	details := Details(err)
	if details.Message != "store: submit: artifact rejected" {
		t.Fatalf("unexpected details: %q", details.Message)
	}
}

func TestDetailsNil(t *testing.T) {
	if Details(nil).Message != "" {
		t.Fatal("expected empty details for nil error")
	}
}

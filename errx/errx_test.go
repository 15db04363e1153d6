package errx

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestRegistryNewReturnsFreshCopies(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("BROKEN", TypeExternal, http.StatusBadGateway, "Broken")

	if code != "TEST_BROKEN" {
		t.Fatalf("unexpected code: %s", code)
	}

	first := reg.New(code).WithDetail("attempt", 1)
	second := reg.New(code)
	if second.Details != nil {
		t.Fatalf("details leaked between instances: %+v", second.Details)
	}
	if first.HTTPStatus != http.StatusBadGateway || first.Type != TypeExternal {
		t.Fatalf("unexpected definition: %+v", first)
	}
}

func TestRegistryUnknownCode(t *testing.T) {
	err := NewRegistry("TEST").New("NOPE")
	if err.Code != "UNKNOWN_ERROR" || err.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected fallback error: %+v", err)
	}
}

func TestCauseIsReachable(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("IO", TypeInternal, http.StatusInternalServerError, "I/O failed")

	err := reg.NewWithCause(code, io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected cause to be reachable via errors.Is")
	}
	if !IsCode(err, code) || !IsType(err, TypeInternal) {
		t.Fatalf("code/type helpers failed for %v", err)
	}
	if !strings.Contains(err.Error(), "unexpected EOF") {
		t.Fatalf("cause missing from message: %s", err.Error())
	}
}

func TestIsComparesCodes(t *testing.T) {
	reg := NewRegistry("TEST")
	a := reg.Register("A", TypeValidation, http.StatusBadRequest, "a")
	b := reg.Register("B", TypeValidation, http.StatusBadRequest, "b")

	if !errors.Is(reg.New(a), reg.New(a)) {
		t.Fatalf("same code should match")
	}
	if errors.Is(reg.New(a), reg.New(b)) {
		t.Fatalf("different codes should not match")
	}
}

func TestWrapKeepsCodeOfErrxCause(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("A", TypeValidation, http.StatusBadRequest, "a")

	wrapped := Wrap(reg.New(code).WithDetail("k", "v"), "context", TypeExternal)
	if wrapped.Code != code || wrapped.Type != TypeExternal {
		t.Fatalf("unexpected wrapped error: %+v", wrapped)
	}
	if wrapped.Detail("k") != "v" {
		t.Fatalf("details not carried over: %+v", wrapped.Details)
	}
	if Wrap(nil, "x", TypeInternal) != nil {
		t.Fatalf("wrapping nil should return nil")
	}
}

func TestPrintSortsDetails(t *testing.T) {
	err := New("boom", TypeInternal).WithDetail("b", 2).WithDetail("a", 1)
	got := Print(err)
	if !strings.Contains(got, "Details: {a: 1, b: 2}") {
		t.Fatalf("unexpected print output: %s", got)
	}
	if Print(nil) != "nil" {
		t.Fatalf("nil should print as nil")
	}
	if got := Print(errors.New("plain")); got != "Error: plain" {
		t.Fatalf("unexpected plain output: %s", got)
	}
}

package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataFor(t *testing.T) {
	if MetadataFor(CodeNotFound).HTTPStatus != http.StatusNotFound {
		t.Fatal("not found should map to 404")
	}
	if MetadataFor(CodeStateConflict).HTTPStatus != http.StatusBadRequest {
		t.Fatal("state conflict should map to 400")
	}
	if MetadataFor(Code("BOGUS")).HTTPStatus != http.StatusInternalServerError {
		t.Fatal("unknown codes should map to 500")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(CodeDependency, cause, "saving order")
	if err.Unwrap() != cause {
		t.Fatal("cause lost")
	}
	if typed := As(fmt.Errorf("outer: %w", err)); typed == nil || typed.Code() != CodeDependency {
		t.Fatal("As should find the typed error through wrapping")
	}
}

func TestDumpChain(t *testing.T) {
	err := Wrap(CodeValidation, fmt.Errorf("inner"), "outer")
	dump := Dump(err)
	if dump.Code != CodeValidation {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", dump.Chain)
	}
}

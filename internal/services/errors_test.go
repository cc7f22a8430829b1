package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/lusinstrella/karl-dukstein-photography/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrCodec, "originals", "encode", "webp failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrCodec) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"originals", "encode", "webp failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrCodec) {
		t.Fatalf("expected default codec marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "stage failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"codec", services.Wrap(services.ErrCodec, "optimize", "decode", "", errors.New("bad")), "codec"},
		{"not found", services.Wrap(services.ErrNotFound, "hero", "stat", "missing", nil), "not_found"},
		{"validation", services.Wrap(services.ErrValidation, "config", "", "bad preset", nil), "validation"},
		{"locked", services.Wrap(services.ErrLocked, "build", "lock", "", nil), "locked"},
		{"plain", errors.New("disk full"), "io"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Classify(tt.err); got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

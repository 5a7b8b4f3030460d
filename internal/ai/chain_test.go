package ai

import (
	"context"
	"errors"
	"testing"
)

type fakeGenerator struct {
	enabled bool
	reply   string
	err     error
	calls   int
}

func (f *fakeGenerator) Enabled() bool { return f.enabled }

func (f *fakeGenerator) Complete(context.Context, string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func TestWithFallbackPrefersPrimary(t *testing.T) {
	primary := &fakeGenerator{enabled: true, reply: "primary"}
	fallback := &fakeGenerator{enabled: true, reply: "fallback"}

	out, err := WithFallback(primary, fallback).Complete(context.Background(), "p")
	if err != nil || out != "primary" {
		t.Fatalf("got %q, %v", out, err)
	}
	if fallback.calls != 0 {
		t.Error("fallback should not be called when primary succeeds")
	}
}

func TestWithFallbackOnPrimaryFailure(t *testing.T) {
	tests := []struct {
		name    string
		primary *fakeGenerator
	}{
		{"primary errors", &fakeGenerator{enabled: true, err: errors.New("boom")}},
		{"primary empty", &fakeGenerator{enabled: true, reply: "  "}},
		{"primary disabled", &fakeGenerator{enabled: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fallback := &fakeGenerator{enabled: true, reply: "fallback"}
			out, err := WithFallback(tt.primary, fallback).Complete(context.Background(), "p")
			if err != nil || out != "fallback" {
				t.Fatalf("got %q, %v", out, err)
			}
		})
	}
}

func TestWithFallbackNilArms(t *testing.T) {
	only := &fakeGenerator{enabled: true, reply: "only"}
	if got := WithFallback(only, nil); got != only {
		t.Error("nil fallback should return the primary unchanged")
	}
	if got := WithFallback(nil, only); got != only {
		t.Error("nil primary should return the fallback unchanged")
	}

	chain := WithFallback(&fakeGenerator{}, &fakeGenerator{})
	if chain.Enabled() {
		t.Error("chain of disabled generators reports enabled")
	}
	if _, err := chain.Complete(context.Background(), "p"); !errors.Is(err, ErrDisabled) {
		t.Errorf("err = %v, want ErrDisabled", err)
	}
}

package language

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeGenerator struct {
	out   string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.out, f.err
}

func TestIsMostlyKarakalpak(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", true},
		{"latin kaa", "Assalawma aleykum, qalaysań?", true},
		{"cyrillic", "Сәлем, қалайсыз?", true},
		{"numbers and punctuation", "12:30, ярайды!", true},
		{"cjk", "你好世界你好世界你好", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsMostlyKarakalpak(tc.text, 0.7); got != tc.want {
				t.Errorf("IsMostlyKarakalpak(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestGate_PassesThroughNativeText(t *testing.T) {
	gen := &fakeGenerator{out: "should not be used"}
	gate := NewGate(gen, 0.7, zap.NewNop())

	in := "Assalawma aleykum"
	if got := gate.Enforce(context.Background(), in); got != in {
		t.Errorf("Enforce = %q, want passthrough %q", got, in)
	}
	if gen.calls != 0 {
		t.Error("generator must not run for in-register text")
	}
}

func TestGate_RewritesForeignText(t *testing.T) {
	gen := &fakeGenerator{out: "Сәлем дүнья"}
	gate := NewGate(gen, 0.7, zap.NewNop())

	got := gate.Enforce(context.Background(), "你好世界你好世界你好")
	if got != "Сәлем дүнья" {
		t.Errorf("Enforce = %q, want rewritten text", got)
	}
}

func TestGate_FailsOpen(t *testing.T) {
	in := "你好世界你好世界你好"

	t.Run("generator error", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("model down")}
		if got := NewGate(gen, 0.7, zap.NewNop()).Enforce(context.Background(), in); got != in {
			t.Errorf("Enforce = %q, want original on error", got)
		}
	})

	t.Run("empty rewrite", func(t *testing.T) {
		gen := &fakeGenerator{out: "  "}
		if got := NewGate(gen, 0.7, zap.NewNop()).Enforce(context.Background(), in); got != in {
			t.Errorf("Enforce = %q, want original on empty rewrite", got)
		}
	})

	t.Run("no generator", func(t *testing.T) {
		if got := NewGate(nil, 0.7, zap.NewNop()).Enforce(context.Background(), in); got != in {
			t.Errorf("Enforce = %q, want original without generator", got)
		}
	})
}

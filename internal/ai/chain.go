package ai

import (
	"context"
	"strings"
)

type generatorChain struct {
	primary  Generator
	fallback Generator
}

// WithFallback returns a generator that first tries the primary
// implementation and falls back to the provided generator when the primary is
// unavailable or produces an empty completion.
func WithFallback(primary, fallback Generator) Generator {
	if primary == nil {
		return fallback
	}
	if fallback == nil {
		return primary
	}
	return &generatorChain{primary: primary, fallback: fallback}
}

func (c *generatorChain) Enabled() bool {
	if c == nil {
		return false
	}
	if c.primary != nil && c.primary.Enabled() {
		return true
	}
	return c.fallback != nil && c.fallback.Enabled()
}

func (c *generatorChain) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", ErrDisabled
	}
	if c.primary != nil && c.primary.Enabled() {
		if out, err := c.primary.Complete(ctx, prompt); err == nil && strings.TrimSpace(out) != "" {
			return out, nil
		}
	}
	if c.fallback != nil && c.fallback.Enabled() {
		return c.fallback.Complete(ctx, prompt)
	}
	return "", ErrDisabled
}

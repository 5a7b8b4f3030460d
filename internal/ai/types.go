package ai

import "context"

// Generator exposes text generation for prompt-driven stages. The pipeline
// treats every completion as untrusted text and parses it defensively
// downstream.
type Generator interface {
	Enabled() bool
	Complete(ctx context.Context, prompt string) (string, error)
}

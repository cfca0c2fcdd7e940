package llm

import (
	"context"
)

// Message is one chat turn handed to a model
type Message struct {
	Role    string // "user", "assistant" or "system"
	Content string
}

// Option tweaks a single generation call
type Option func(*Options)

type Options struct {
	Temperature *float64 // nil keeps the provider default
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = &temp
	}
}

// Apply folds opts into a fresh Options value
func Apply(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LLMProvider is implemented by every generative backend
type LLMProvider interface {
	// Chat sends the whole history and returns the model's reply
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate is Chat with a single user message
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

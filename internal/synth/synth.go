package synth

import (
	"context"
	"fmt"
)

// holds one synthesized utterance in its native container format
type Clip struct {
	Data   []byte
	Format string // file extension without dot, e.g. "mp3", "wav"
}

// interface for text-to-speech synthesis
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Clip, error)
}

// speech synthesis service provider
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Providers lists the selectable providers in display order.
func Providers() []Provider {
	return []Provider{ProviderGoogle, ProviderOpenAI, ProviderGemini}
}

// synthesis options
type Options struct {
	Language string // BCP-47 tag, e.g. "pt-BR"
	Voice    string
	Model    string
	Speed    float64
}

// creates a synthesizer based on provider. The google provider needs no
// API key; openai and gemini require one.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Synthesizer, error) {
	switch provider {
	case ProviderGoogle:
		return NewGoogleSynthesizer(opts), nil
	case ProviderOpenAI:
		return NewOpenAISynthesizer(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiSynthesizer(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

package synth

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/jpalmeida/narro/internal/audio"
)

// implements Synthesizer using Gemini native audio generation
type GeminiSynthesizer struct {
	client  *genai.Client
	model   string
	voice   string
	options Options
}

func NewGeminiSynthesizer(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*GeminiSynthesizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash-preview-tts"
	}

	voice := opts.Voice
	if voice == "" {
		voice = "Kore"
	}

	return &GeminiSynthesizer{
		client:  client,
		model:   model,
		voice:   voice,
		options: opts,
	}, nil
}

func (s *GeminiSynthesizer) Synthesize(
	ctx context.Context,
	text string,
) (*Clip, error) {
	if text == "" {
		return nil, fmt.Errorf("no text to synthesize")
	}

	parts := []*genai.Part{
		genai.NewPartFromText(text),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: s.voice,
				},
			},
			LanguageCode: s.options.Language,
		},
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	pcm, err := extractAudioData(result)
	if err != nil {
		return nil, err
	}

	// Gemini returns raw s16le PCM at the canonical rate; wrap it so the
	// clip is a self-describing file
	wav := audio.WAVFromPCM(pcm, audio.SampleRate, audio.Channels, audio.BitsPerSample)

	return &Clip{Data: wav, Format: "wav"}, nil
}

func extractAudioData(result *genai.GenerateContentResponse) ([]byte, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var data []byte
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				data = append(data, part.InlineData.Data...)
			}
		}
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("no audio in Gemini response")
	}

	return data, nil
}

func (s *GeminiSynthesizer) Close() error {
	return nil
}

package synth

import (
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// implements Synthesizer using the OpenAI speech API
type OpenAISynthesizer struct {
	client  openai.Client
	model   openai.SpeechModel
	voice   openai.AudioSpeechNewParamsVoice
	options Options
}

func NewOpenAISynthesizer(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAISynthesizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := openai.SpeechModel(opts.Model)
	if opts.Model == "" {
		model = openai.SpeechModelGPT4oMiniTTS
	}

	voice := openai.AudioSpeechNewParamsVoice(opts.Voice)
	if opts.Voice == "" {
		voice = openai.AudioSpeechNewParamsVoiceAlloy
	}

	return &OpenAISynthesizer{
		client:  client,
		model:   model,
		voice:   voice,
		options: opts,
	}, nil
}

func (s *OpenAISynthesizer) Synthesize(
	ctx context.Context,
	text string,
) (*Clip, error) {
	if text == "" {
		return nil, fmt.Errorf("no text to synthesize")
	}

	params := openai.AudioSpeechNewParams{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	}
	if s.options.Speed > 0 {
		params.Speed = openai.Float(s.options.Speed)
	}

	resp, err := s.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("speech response is empty")
	}

	return &Clip{Data: data, Format: "mp3"}, nil
}

func (s *OpenAISynthesizer) Close() error {
	return nil
}

package synth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	googleTTSEndpoint = "https://translate.google.com/translate_tts"

	// the endpoint rejects long utterances, so text is synthesized in
	// chunks of at most this many runes and the mp3 payloads are joined
	googleTTSMaxRunes = 200
)

// GoogleSynthesizer uses the public Google Translate speech endpoint.
// It needs no API key, which makes it the default provider.
type GoogleSynthesizer struct {
	client   *http.Client
	language string
}

func NewGoogleSynthesizer(opts Options) *GoogleSynthesizer {
	language := opts.Language
	if language == "" {
		language = "pt-BR"
	}

	return &GoogleSynthesizer{
		client:   &http.Client{Timeout: 60 * time.Second},
		language: language,
	}
}

func (s *GoogleSynthesizer) Synthesize(
	ctx context.Context,
	text string,
) (*Clip, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("no text to synthesize")
	}

	var data []byte
	for _, chunk := range splitUtterance(text, googleTTSMaxRunes) {
		part, err := s.fetchChunk(ctx, chunk)
		if err != nil {
			return nil, err
		}
		data = append(data, part...)
	}

	return &Clip{Data: data, Format: "mp3"}, nil
}

func (s *GoogleSynthesizer) fetchChunk(
	ctx context.Context,
	text string,
) ([]byte, error) {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", s.language)
	query.Set("q", text)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		googleTTSEndpoint+"?"+query.Encode(),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(
		"User-Agent",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
	)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"speech request failed: unexpected status %s",
			resp.Status,
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("speech response is empty")
	}

	return data, nil
}

// splitUtterance breaks text into chunks of at most maxRunes runes,
// preferring word boundaries. A single word longer than the limit is
// split mid-word.
func splitUtterance(text string, maxRunes int) []string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)

		if wordLen > maxRunes {
			flush()
			runes := []rune(word)
			for len(runes) > maxRunes {
				chunks = append(chunks, string(runes[:maxRunes]))
				runes = runes[maxRunes:]
			}
			current.WriteString(string(runes))
			currentLen = len(runes)
			continue
		}

		sep := 0
		if currentLen > 0 {
			sep = 1
		}
		if currentLen+sep+wordLen > maxRunes {
			flush()
			sep = 0
		}
		if sep == 1 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	flush()

	return chunks
}

package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jpalmeida/narro/internal/subtitle"
)

// single text item to translate
type TranslationItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translated text item
type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// interface for text translation
type Translator interface {
	Translate(
		ctx context.Context,
		items []TranslationItem,
	) ([]TranslationResult, error)
}

// optional interface for translators that support concurrent batch processing
type ConcurrentTranslator interface {
	Translator
	TranslateWithConcurrency(
		ctx context.Context,
		items []TranslationItem,
		concurrency int,
	) ([]TranslationResult, error)
}

// translation service provider
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGemini    Provider = "gemini"
)

func Providers() []Provider {
	return []Provider{ProviderAnthropic, ProviderOpenAI, ProviderGemini}
}

type Options struct {
	SourceLanguage string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // items per API request (default 50)
}

// creates a Translator based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	switch provider {
	case ProviderAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranslator(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// TranslateCues returns a copy of the cues with their text translated
// and timing untouched. Translators that support it run batches
// concurrently.
func TranslateCues(
	ctx context.Context,
	tr Translator,
	cues []subtitle.Cue,
	concurrency int,
) ([]subtitle.Cue, error) {
	items := make([]TranslationItem, len(cues))
	for i, cue := range cues {
		items[i] = TranslationItem{Index: i, Text: cue.Text}
	}

	var results []TranslationResult
	var err error
	if ct, ok := tr.(ConcurrentTranslator); ok && concurrency > 1 {
		results, err = ct.TranslateWithConcurrency(ctx, items, concurrency)
	} else {
		results, err = tr.Translate(ctx, items)
	}
	if err != nil {
		return nil, err
	}

	out := make([]subtitle.Cue, len(cues))
	copy(out, cues)
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(out) {
			return nil, fmt.Errorf("translation result index %d out of range", r.Index)
		}
		if r.Text != "" {
			out[r.Index].Text = r.Text
		}
	}
	return out, nil
}

// BuildPrompt creates the translation prompt for LLM providers
func BuildPrompt(opts Options, items []TranslationItem) string {
	var sb strings.Builder

	if opts.SourceLanguage != "" {
		sb.WriteString(fmt.Sprintf(
			"Translate the following %s narration lines to %s.\n\n",
			opts.SourceLanguage,
			opts.TargetLanguage,
		))
	} else {
		sb.WriteString(fmt.Sprintf(
			"Translate the following narration lines to %s.\n\n",
			opts.TargetLanguage,
		))
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString(
		"1. The lines will be read aloud by a speech synthesizer, " +
			"so prefer natural spoken phrasing.\n",
	)
	sb.WriteString(
		"2. Keep each line self-contained; do not merge or split lines.\n",
	)
	sb.WriteString("3. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("4. Each object must have 'index' and 'text' fields.\n")
	sb.WriteString(
		"5. The 'index' values must match the input indices exactly.\n",
	)
	sb.WriteString("6. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		sb.WriteString(
			fmt.Sprintf("Additional instructions: %s\n\n", opts.Prompt),
		)
	}

	sb.WriteString("Input JSON:\n")

	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)

	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}

const DefaultBatchSize = 50

type batchFunc func(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error)

// batcher splits items into batches of up to size items and runs each
// batch as one API request, either sequentially or through a bounded
// worker pool. Providers embed it with their own request function.
type batcher struct {
	size int
	run  batchFunc
}

func newBatcher(size int, run batchFunc) batcher {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return batcher{size: size, run: run}
}

func (b batcher) split(items []TranslationItem) [][]TranslationItem {
	var batches [][]TranslationItem
	for i := 0; i < len(items); i += b.size {
		end := i + b.size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}
	return batches
}

func (b batcher) Translate(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error) {
	if len(items) == 0 {
		return []TranslationResult{}, nil
	}

	var allResults []TranslationResult
	for i, batch := range b.split(items) {
		results, err := b.run(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch %d failed: %w", i, err)
		}
		allResults = append(allResults, results...)
	}

	sortResults(allResults)
	return allResults, nil
}

// Workers (up to concurrency) pull batches from a shared queue. The
// first failure cancels the remaining batches.
func (b batcher) TranslateWithConcurrency(
	ctx context.Context,
	items []TranslationItem,
	concurrency int,
) ([]TranslationResult, error) {
	if len(items) == 0 {
		return []TranslationResult{}, nil
	}
	if concurrency <= 0 {
		concurrency = 3
	}

	batches := b.split(items)
	if len(batches) == 1 {
		return b.run(ctx, batches[0])
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batchResult struct {
		Index   int
		Results []TranslationResult
		Error   error
	}

	workChan := make(chan int)
	resultChan := make(chan batchResult, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(batches); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case batchIdx, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					results, err := b.run(ctx, batches[batchIdx])
					if err != nil {
						cancel()
					}
					resultChan <- batchResult{
						Index:   batchIdx,
						Results: results,
						Error:   err,
					}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var collected []batchResult
	var firstErr error
	for result := range resultChan {
		if result.Error != nil && firstErr == nil {
			firstErr = fmt.Errorf(
				"batch %d failed: %w",
				result.Index,
				result.Error,
			)
			cancel()
		}
		if result.Error == nil {
			collected = append(collected, result)
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].Index < collected[j].Index
	})

	var allResults []TranslationResult
	for _, r := range collected {
		allResults = append(allResults, r.Results...)
	}

	sortResults(allResults)
	return allResults, nil
}

func sortResults(results []TranslationResult) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})
}

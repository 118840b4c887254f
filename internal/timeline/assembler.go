package timeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/jpalmeida/narro/internal/audio"
	"github.com/jpalmeida/narro/internal/synth"
)

// description recorded for rendered pause segments
const silenceDescription = "Silent."

// narrow view of the synthesis service
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*synth.Clip, error)
}

// decodes clip bytes into measurable audio
type Decoder interface {
	Decode(ctx context.Context, data []byte) (*audio.Buffer, error)
}

// optional sink for per-utterance voice clips
type ClipStore interface {
	Save(index int, clip *synth.Clip) (string, error)
}

// AssemblyState tracks the fold as it walks the token plan: where the
// rendered track currently ends, and how long the previous utterance ran.
type AssemblyState struct {
	ClockMS      float64
	LastSpeechMS float64
}

// one rendered span of the output track
type Segment struct {
	OffsetMS    float64
	DurationMS  float64
	Description string
	Buffer      *audio.Buffer
}

// result of assembling a token plan
type Assembly struct {
	Segments []Segment
	Ledger   *Ledger
	TotalMS  float64
}

type AssembleOptions struct {
	Clips    ClipStore             // stores each utterance clip when set
	Progress func(done, total int) // called after every token when set
}

// Assembler renders a token plan into ordered audio segments. Planned
// gaps are shrunk by however long the previous utterance ran: speech
// that overruns its slot eats into the following pause, and when the
// overrun exceeds the pause the pause is dropped entirely. Only the
// immediately preceding utterance is considered; leftover deficit does
// not carry forward.
type Assembler struct {
	synth Synthesizer
	codec Decoder
	opts  AssembleOptions
}

func NewAssembler(s Synthesizer, d Decoder, opts AssembleOptions) *Assembler {
	return &Assembler{
		synth: s,
		codec: d,
		opts:  opts,
	}
}

type fetchFunc func(ctx context.Context, index int) (*synth.Clip, error)

// Assemble renders the plan, synthesizing each utterance as the fold
// reaches it.
func (a *Assembler) Assemble(
	ctx context.Context,
	tokens []Token,
) (*Assembly, error) {
	fetch := func(ctx context.Context, index int) (*synth.Clip, error) {
		return a.synth.Synthesize(ctx, tokens[index].Text)
	}
	return a.fold(ctx, tokens, fetch)
}

// AssembleParallel synthesizes utterances with up to concurrency workers
// before folding. The fold itself stays strictly sequential so the gap
// arithmetic is identical to Assemble.
func (a *Assembler) AssembleParallel(
	ctx context.Context,
	tokens []Token,
	concurrency int,
) (*Assembly, error) {
	if concurrency <= 1 {
		return a.Assemble(ctx, tokens)
	}

	clips, err := a.prefetch(ctx, tokens, concurrency)
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, index int) (*synth.Clip, error) {
		clip, ok := clips[index]
		if !ok {
			return nil, fmt.Errorf("missing prefetched clip for token %d", index)
		}
		return clip, nil
	}
	return a.fold(ctx, tokens, fetch)
}

func (a *Assembler) fold(
	ctx context.Context,
	tokens []Token,
	fetch fetchFunc,
) (*Assembly, error) {
	var state AssemblyState
	var segments []Segment
	ledger := NewLedger()
	clipCount := 0

	for i, tok := range tokens {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch tok.Kind {
		case TokenSilence:
			gap := round4(tok.GapMS - state.LastSpeechMS)
			if gap <= 0 {
				break
			}
			buf := audio.Silence(gap)
			d := buf.Duration()
			segments = append(segments, Segment{
				OffsetMS:    state.ClockMS,
				DurationMS:  d,
				Description: silenceDescription,
				Buffer:      buf,
			})
			ledger.Append(state.ClockMS, d, silenceDescription)
			state.ClockMS += d

		case TokenSpeech:
			clip, err := fetch(ctx, i)
			if err != nil {
				return nil, fmt.Errorf("failed to synthesize token %d: %w", i, err)
			}
			buf, err := a.codec.Decode(ctx, clip.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode token %d: %w", i, err)
			}
			d := buf.Duration()
			segments = append(segments, Segment{
				OffsetMS:    state.ClockMS,
				DurationMS:  d,
				Description: tok.Text,
				Buffer:      buf,
			})
			ledger.Append(state.ClockMS, d, tok.Text)
			state.ClockMS += d
			state.LastSpeechMS = d

			if a.opts.Clips != nil {
				clipCount++
				if _, err := a.opts.Clips.Save(clipCount, clip); err != nil {
					return nil, fmt.Errorf(
						"failed to store voice clip %d: %w",
						clipCount,
						err,
					)
				}
			}

		default:
			return nil, fmt.Errorf("unexpected token kind %v at %d", tok.Kind, i)
		}

		if a.opts.Progress != nil {
			a.opts.Progress(i+1, len(tokens))
		}
	}

	if len(segments) == 0 {
		return nil, ErrNoAudio
	}

	return &Assembly{
		Segments: segments,
		Ledger:   ledger,
		TotalMS:  state.ClockMS,
	}, nil
}

// holds the result of synthesizing one speech token
type clipResult struct {
	Index int
	Clip  *synth.Clip
	Error error
}

// synthesizes all speech tokens with a bounded worker pool, keyed by
// token position. The first failure cancels the remaining work.
func (a *Assembler) prefetch(
	ctx context.Context,
	tokens []Token,
	concurrency int,
) (map[int]*synth.Clip, error) {
	var speech []int
	for i, tok := range tokens {
		if tok.Kind == TokenSpeech {
			speech = append(speech, i)
		}
	}
	if len(speech) == 0 {
		return map[int]*synth.Clip{}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workChan := make(chan int)
	resultChan := make(chan clipResult, len(speech))

	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(speech); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case index, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					clip, err := a.synth.Synthesize(ctx, tokens[index].Text)
					if err != nil {
						cancel()
					}
					resultChan <- clipResult{
						Index: index,
						Clip:  clip,
						Error: err,
					}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for _, index := range speech {
			select {
			case <-ctx.Done():
				return
			case workChan <- index:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	clips := make(map[int]*synth.Clip, len(speech))
	var firstErr error
	for result := range resultChan {
		if result.Error != nil && firstErr == nil {
			firstErr = fmt.Errorf(
				"failed to synthesize token %d: %w",
				result.Index,
				result.Error,
			)
			cancel()
		}
		if result.Error == nil {
			clips[result.Index] = result.Clip
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return clips, nil
}

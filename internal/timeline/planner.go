package timeline

import (
	"github.com/jpalmeida/narro/internal/subtitle"
)

// StartDeltaPlanner spaces utterances by the deltas between cue START
// times. Each cue becomes a silence token holding the gap since the
// previous cue's start, followed by a speech token. Pacing therefore
// follows the cue rhythm of the source file rather than cue end times,
// which keeps the narration aligned with where cues begin even when
// spoken audio runs longer than the cue itself.
type StartDeltaPlanner struct{}

func (StartDeltaPlanner) Name() string {
	return "kdenlive"
}

func (StartDeltaPlanner) Plan(cues []subtitle.Cue) ([]Token, error) {
	if len(cues) == 0 {
		return nil, ErrEmptyInput
	}

	tokens := make([]Token, 0, len(cues)*2)
	lastStartMS := int64(0)

	for _, cue := range cues {
		tokens = append(tokens, Token{
			Kind:  TokenSilence,
			GapMS: float64(cue.StartMS - lastStartMS),
		})
		tokens = append(tokens, Token{
			Kind: TokenSpeech,
			Text: cue.Text,
		})
		lastStartMS = cue.StartMS
	}

	return tokens, nil
}

func init() {
	if err := RegisterPlanner(StartDeltaPlanner{}); err != nil {
		panic(err)
	}
}

package timeline

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jpalmeida/narro/internal/subtitle"
)

func TestStartDeltaPlannerTokenStream(t *testing.T) {
	cues := []subtitle.Cue{
		{Index: 1, StartMS: 1000, EndMS: 4000, Text: "First line."},
		{Index: 2, StartMS: 5500, EndMS: 8200, Text: "Second line."},
		{Index: 3, StartMS: 70000, EndMS: 72000, Text: "Third line."},
	}

	got, err := StartDeltaPlanner{}.Plan(cues)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	want := []Token{
		{Kind: TokenSilence, GapMS: 1000},
		{Kind: TokenSpeech, Text: "First line."},
		{Kind: TokenSilence, GapMS: 4500},
		{Kind: TokenSpeech, Text: "Second line."},
		{Kind: TokenSilence, GapMS: 64500},
		{Kind: TokenSpeech, Text: "Third line."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Plan() = %+v, want %+v", got, want)
	}
}

func TestStartDeltaPlannerEmptyInput(t *testing.T) {
	_, err := StartDeltaPlanner{}.Plan(nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Plan(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestStartDeltaPlannerCueAtZero(t *testing.T) {
	cues := []subtitle.Cue{
		{Index: 1, StartMS: 0, EndMS: 2000, Text: "Opening line."},
	}

	got, err := StartDeltaPlanner{}.Plan(cues)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Plan() returned %d tokens, want 2", len(got))
	}
	if got[0].Kind != TokenSilence || got[0].GapMS != 0 {
		t.Errorf("first token = %+v, want zero-gap silence", got[0])
	}
}

func TestStartDeltaPlannerSimultaneousCues(t *testing.T) {
	cues := []subtitle.Cue{
		{Index: 1, StartMS: 3000, EndMS: 5000, Text: "One."},
		{Index: 2, StartMS: 3000, EndMS: 5000, Text: "Two."},
	}

	got, err := StartDeltaPlanner{}.Plan(cues)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	if got[2].Kind != TokenSilence || got[2].GapMS != 0 {
		t.Errorf("gap between simultaneous cues = %+v, want zero-gap silence", got[2])
	}
}

type stubPlanner struct {
	name string
}

func (p stubPlanner) Name() string { return p.name }

func (p stubPlanner) Plan(cues []subtitle.Cue) ([]Token, error) {
	return nil, ErrEmptyInput
}

func TestPlannerRegistry(t *testing.T) {
	t.Run("kdenlive is registered", func(t *testing.T) {
		p, err := PlannerFor("kdenlive")
		if err != nil {
			t.Fatalf("PlannerFor(kdenlive) error = %v", err)
		}
		if _, ok := p.(StartDeltaPlanner); !ok {
			t.Errorf("PlannerFor(kdenlive) = %T, want StartDeltaPlanner", p)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := PlannerFor("einstein")
		if !errors.Is(err, ErrPlannerNotFound) {
			t.Errorf("PlannerFor(einstein) error = %v, want ErrPlannerNotFound", err)
		}
	})

	t.Run("duplicate registration", func(t *testing.T) {
		if err := RegisterPlanner(stubPlanner{name: "stub-planner"}); err != nil {
			t.Fatalf("RegisterPlanner() error = %v", err)
		}
		err := RegisterPlanner(stubPlanner{name: "stub-planner"})
		if !errors.Is(err, ErrPlannerExists) {
			t.Errorf("second RegisterPlanner() error = %v, want ErrPlannerExists", err)
		}
	})

	t.Run("names are sorted", func(t *testing.T) {
		names := PlannerNames()
		found := false
		for _, name := range names {
			if name == "kdenlive" {
				found = true
			}
		}
		if !found {
			t.Errorf("PlannerNames() = %v, missing kdenlive", names)
		}
		for i := 1; i < len(names); i++ {
			if names[i-1] > names[i] {
				t.Errorf("PlannerNames() = %v, not sorted", names)
			}
		}
	})
}

package timeline

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jpalmeida/narro/internal/subtitle"
)

var (
	// returned when a planner receives no cues
	ErrEmptyInput = errors.New("no cues to narrate")

	// returned when an assembly produces no segments
	ErrNoAudio = errors.New("no audio segments were generated")

	ErrPlannerExists   = errors.New("planner already registered")
	ErrPlannerNotFound = errors.New("planner not found")
)

// kind of a timeline token
type TokenKind int

const (
	TokenSilence TokenKind = iota
	TokenSpeech
)

func (k TokenKind) String() string {
	switch k {
	case TokenSilence:
		return "silence"
	case TokenSpeech:
		return "speech"
	default:
		return "unknown"
	}
}

// one step of the narration plan: either a pause of GapMS milliseconds
// or an utterance of Text
type Token struct {
	Kind  TokenKind
	GapMS float64
	Text  string
}

// interface for turning cues into a token plan, keyed by the subtitle
// format the cues came from
type Planner interface {
	Name() string
	Plan(cues []subtitle.Cue) ([]Token, error)
}

var (
	plannerMu sync.RWMutex
	planners  = make(map[string]Planner)
)

// adds a planner to the registry
func RegisterPlanner(p Planner) error {
	plannerMu.Lock()
	defer plannerMu.Unlock()

	name := p.Name()
	if _, ok := planners[name]; ok {
		return fmt.Errorf("%w: %s", ErrPlannerExists, name)
	}
	planners[name] = p
	return nil
}

// returns the planner registered for the format name
func PlannerFor(format string) (Planner, error) {
	plannerMu.RLock()
	defer plannerMu.RUnlock()

	p, ok := planners[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlannerNotFound, format)
	}
	return p, nil
}

// returns the registered planner names, sorted
func PlannerNames() []string {
	plannerMu.RLock()
	defer plannerMu.RUnlock()

	names := make([]string, 0, len(planners))
	for name := range planners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

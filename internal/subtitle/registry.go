package subtitle

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrGrammarExists   = errors.New("grammar already registered")
	ErrGrammarNotFound = errors.New("grammar not found")
)

var (
	registryMu sync.RWMutex
	grammars   = make(map[string]Grammar)
)

// adds a grammar to the registry
func Register(g Grammar) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := g.Name()
	if _, ok := grammars[name]; ok {
		return fmt.Errorf("%w: %s", ErrGrammarExists, name)
	}
	grammars[name] = g
	return nil
}

// returns the grammar registered under name
func Lookup(name string) (Grammar, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	g, ok := grammars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGrammarNotFound, name)
	}
	return g, nil
}

// returns the registered grammar names, sorted
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

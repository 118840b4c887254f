package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// represents a single timed subtitle cue
type Cue struct {
	Index   int
	StartMS int64
	EndMS   int64
	Text    string
}

// records a rejected cue block so callers can report it
type Skip struct {
	Line   int // 1-based line number of the block's first line
	Reason string
}

// interface for parsing one subtitle dialect into cues
type Grammar interface {
	Name() string
	Parse(lines []string) ([]Cue, []Skip)
}

// reads a subtitle file into raw lines, tolerating a UTF-8 BOM
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open subtitle file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, "﻿")
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading subtitle file: %w", err)
	}

	return lines, nil
}

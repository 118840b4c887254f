package subtitle

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestKdenliveParse(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.

3
00:01:10,000 --> 00:01:12,500
Final cue.
`
	g := NewKdenliveGrammar()
	cues, skips := g.Parse(strings.Split(content, "\n"))

	if len(skips) != 0 {
		t.Fatalf("expected no skips, got %v", skips)
	}
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}

	if cues[0].Index != 1 {
		t.Errorf("cue 0 index: got %d, want 1", cues[0].Index)
	}
	if cues[0].StartMS != 1000 {
		t.Errorf("cue 0 start: got %d, want 1000", cues[0].StartMS)
	}
	if cues[0].EndMS != 4000 {
		t.Errorf("cue 0 end: got %d, want 4000", cues[0].EndMS)
	}
	if cues[0].Text != "Hello, world!" {
		t.Errorf("cue 0 text: got %q", cues[0].Text)
	}

	if cues[1].StartMS != 5500 || cues[1].EndMS != 8200 {
		t.Errorf(
			"cue 1 times: got %d-%d, want 5500-8200",
			cues[1].StartMS,
			cues[1].EndMS,
		)
	}

	// minutes and hours both contribute to the millisecond offset
	if cues[2].StartMS != 70000 {
		t.Errorf("cue 2 start: got %d, want 70000", cues[2].StartMS)
	}
}

func TestKdenliveParseHourConversion(t *testing.T) {
	lines := []string{
		"7",
		"01:02:03,456 --> 01:02:04,000",
		"An hour in.",
	}

	g := NewKdenliveGrammar()
	cues, skips := g.Parse(lines)

	if len(skips) != 0 {
		t.Fatalf("expected no skips, got %v", skips)
	}
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}

	want := int64(1*3600000 + 2*60000 + 3*1000 + 456)
	if cues[0].StartMS != want {
		t.Errorf("start: got %d, want %d", cues[0].StartMS, want)
	}
}

func TestKdenliveParseSkipsMalformedBlocks(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{
			name: "non-numeric index",
			lines: []string{
				"not-a-number",
				"00:00:01,000 --> 00:00:02,000",
				"Text.",
			},
		},
		{
			name: "negative index",
			lines: []string{
				"-2",
				"00:00:01,000 --> 00:00:02,000",
				"Text.",
			},
		},
		{
			name: "bad timing line",
			lines: []string{
				"1",
				"00:00:01.000 --> 00:00:02.000",
				"Text.",
			},
		},
		{
			name: "missing arrow",
			lines: []string{
				"1",
				"00:00:01,000 00:00:02,000",
				"Text.",
			},
		},
		{
			name: "empty text",
			lines: []string{
				"1",
				"00:00:01,000 --> 00:00:02,000",
				"   ",
			},
		},
		{
			name: "end before start",
			lines: []string{
				"1",
				"00:00:05,000 --> 00:00:02,000",
				"Backwards.",
			},
		},
		{
			name: "truncated block",
			lines: []string{
				"1",
				"00:00:01,000 --> 00:00:02,000",
			},
		},
	}

	g := NewKdenliveGrammar()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cues, skips := g.Parse(tt.lines)
			if len(cues) != 0 {
				t.Errorf("expected 0 cues, got %d", len(cues))
			}
			if len(skips) != 1 {
				t.Errorf("expected 1 skip, got %d", len(skips))
			}
		})
	}
}

// a malformed block in the middle must not desynchronize later blocks
func TestKdenliveParseAdvancesPastMalformedBlock(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:02,000
First.

2
bad timing line here
Ignored text.

3
00:00:10,000 --> 00:00:11,000
Third.
`
	g := NewKdenliveGrammar()
	cues, skips := g.Parse(strings.Split(content, "\n"))

	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if len(skips) != 1 {
		t.Fatalf("expected 1 skip, got %d", len(skips))
	}
	if skips[0].Line != 5 {
		t.Errorf("skip line: got %d, want 5", skips[0].Line)
	}
	if cues[0].Text != "First." || cues[1].Text != "Third." {
		t.Errorf("unexpected cue texts: %q, %q", cues[0].Text, cues[1].Text)
	}
	if cues[1].StartMS != 10000 {
		t.Errorf("cue after skip start: got %d, want 10000", cues[1].StartMS)
	}
}

func TestKdenliveParseIgnoresExtraBlankLines(t *testing.T) {
	lines := []string{
		"",
		"",
		"1",
		"00:00:01,000 --> 00:00:02,000",
		"Spaced out.",
		"",
		"",
		"",
		"2",
		"00:00:03,000 --> 00:00:04,000",
		"Still fine.",
		"",
	}

	g := NewKdenliveGrammar()
	cues, skips := g.Parse(lines)

	if len(skips) != 0 {
		t.Fatalf("expected no skips, got %v", skips)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
}

// parsing the same lines twice yields identical cues
func TestKdenliveParseIsIdempotent(t *testing.T) {
	lines := []string{
		"1",
		"00:00:00,500 --> 00:00:02,000",
		"Repeatable.",
		"",
		"2",
		"00:00:03,250 --> 00:00:04,750",
		"Every time.",
	}

	g := NewKdenliveGrammar()
	first, _ := g.Parse(lines)
	second, _ := g.Parse(lines)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("parse not idempotent: %v vs %v", first, second)
	}
}

func TestReadLinesStripsBOM(t *testing.T) {
	content := "﻿1\n00:00:01,000 --> 00:00:02,000\nWith BOM.\n"

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bom.srt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "1" {
		t.Errorf("BOM not stripped: %q", lines[0])
	}

	g := NewKdenliveGrammar()
	cues, skips := g.Parse(lines)
	if len(skips) != 0 || len(cues) != 1 {
		t.Errorf("expected 1 cue and no skips, got %d cues %d skips", len(cues), len(skips))
	}
}

func TestReadLinesMissingFile(t *testing.T) {
	_, err := ReadLines(filepath.Join(t.TempDir(), "nope.srt"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// kdenlive exports SRT-style blocks of exactly three lines: a numeric
// index, a timing line, and a single line of text.
type KdenliveGrammar struct {
	timing *regexp.Regexp
}

func NewKdenliveGrammar() *KdenliveGrammar {
	return &KdenliveGrammar{
		timing: regexp.MustCompile(
			`^(\d{2}):(\d{2}):(\d{2}),(\d{3}) --> (\d{2}):(\d{2}):(\d{2}),(\d{3})$`,
		),
	}
}

func (g *KdenliveGrammar) Name() string {
	return "kdenlive"
}

// Parse scans the lines as three-line blocks. Blank lines between blocks
// are ignored. A malformed block is skipped whole and the scan still
// advances by three lines, so one bad block never desynchronizes the rest
// of the file.
func (g *KdenliveGrammar) Parse(lines []string) ([]Cue, []Skip) {
	var cues []Cue
	var skips []Skip

	i := 0
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}

		cue, reason := g.parseBlock(lines, i)
		if reason != "" {
			skips = append(skips, Skip{Line: i + 1, Reason: reason})
		} else {
			cues = append(cues, cue)
		}
		i += 3
	}

	return cues, skips
}

func (g *KdenliveGrammar) parseBlock(lines []string, i int) (Cue, string) {
	if i+2 >= len(lines) {
		return Cue{}, "truncated block"
	}

	index, err := strconv.Atoi(strings.TrimSpace(lines[i]))
	if err != nil || index < 0 {
		return Cue{}, fmt.Sprintf("invalid cue index %q", strings.TrimSpace(lines[i]))
	}

	matches := g.timing.FindStringSubmatch(strings.TrimSpace(lines[i+1]))
	if len(matches) != 9 {
		return Cue{}, fmt.Sprintf("invalid timing line %q", strings.TrimSpace(lines[i+1]))
	}

	startMS := timestampMS(matches[1], matches[2], matches[3], matches[4])
	endMS := timestampMS(matches[5], matches[6], matches[7], matches[8])
	if endMS < startMS {
		return Cue{}, fmt.Sprintf("cue %d ends before it starts", index)
	}

	text := strings.TrimSpace(lines[i+2])
	if text == "" {
		return Cue{}, fmt.Sprintf("cue %d has no text", index)
	}

	return Cue{
		Index:   index,
		StartMS: startMS,
		EndMS:   endMS,
		Text:    text,
	}, ""
}

// digits are guaranteed by the timing regexp
func timestampMS(hours, minutes, seconds, millis string) int64 {
	h, _ := strconv.ParseInt(hours, 10, 64)
	m, _ := strconv.ParseInt(minutes, 10, 64)
	s, _ := strconv.ParseInt(seconds, 10, 64)
	ms, _ := strconv.ParseInt(millis, 10, 64)

	return h*3600000 + m*60000 + s*1000 + ms
}

func init() {
	if err := Register(NewKdenliveGrammar()); err != nil {
		panic(err)
	}
}

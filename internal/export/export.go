package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpalmeida/narro/internal/audio"
	"github.com/jpalmeida/narro/internal/synth"
	"github.com/jpalmeida/narro/internal/timeline"
)

// Encoder writes an assembled buffer to disk
type Encoder interface {
	Encode(ctx context.Context, buf *audio.Buffer, outputPath, comment string) error
}

var _ Encoder = (*audio.Codec)(nil)

// Exporter joins assembled segments into one track and writes it next
// to a CSV history of the segments that make it up.
type Exporter struct {
	enc Encoder
}

func NewExporter(enc Encoder) *Exporter {
	return &Exporter{enc: enc}
}

type Result struct {
	AudioPath   string
	HistoryPath string
	DurationMS  float64
	Segments    int
}

// Export concatenates the assembly's segments in order, encodes the
// joined track to outputPath tagged with the source it was narrated
// from, and writes the segment history beside it.
func (e *Exporter) Export(
	ctx context.Context,
	assembly *timeline.Assembly,
	outputPath string,
	sourceName string,
) (*Result, error) {
	bufs := make([]*audio.Buffer, len(assembly.Segments))
	for i, seg := range assembly.Segments {
		bufs[i] = seg.Buffer
	}

	joined, err := audio.Concat(bufs)
	if err != nil {
		return nil, fmt.Errorf("failed to join segments: %w", err)
	}

	comment := fmt.Sprintf("Narrated from %s", sourceName)
	if err := e.enc.Encode(ctx, joined, outputPath, comment); err != nil {
		return nil, err
	}

	historyPath := HistoryPath(outputPath)
	history, err := assembly.Ledger.Bytes()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(historyPath, history, 0644); err != nil {
		return nil, fmt.Errorf("failed to write history: %w", err)
	}

	return &Result{
		AudioPath:   outputPath,
		HistoryPath: historyPath,
		DurationMS:  assembly.TotalMS,
		Segments:    len(assembly.Segments),
	}, nil
}

// HistoryPath returns the history file path for an output track,
// replacing the extension with _history.csv
func HistoryPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + "_history.csv"
}

// ClipStore writes each utterance clip beside the output track as
// <basename>_part_NNN.<format>, numbered from 1 in narration order.
type ClipStore struct {
	dir  string
	base string
}

var _ timeline.ClipStore = (*ClipStore)(nil)

func NewClipStore(outputPath string) *ClipStore {
	ext := filepath.Ext(outputPath)
	return &ClipStore{
		dir:  filepath.Dir(outputPath),
		base: strings.TrimSuffix(filepath.Base(outputPath), ext),
	}
}

func (s *ClipStore) Save(index int, clip *synth.Clip) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create clip directory: %w", err)
	}

	name := fmt.Sprintf("%s_part_%03d.%s", s.base, index, clip.Format)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, clip.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write voice clip: %w", err)
	}
	return path, nil
}

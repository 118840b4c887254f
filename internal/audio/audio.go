package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/jpalmeida/narro/internal/ffmpeg"
)

// Codec decodes speech clips to the canonical PCM form and encodes
// assembled tracks to disk, both through ffmpeg pipes.
type Codec struct{}

func NewCodec() *Codec {
	return &Codec{}
}

// Decode converts encoded audio bytes (mp3, wav, ...) into a canonical buffer
func (c *Codec) Decode(ctx context.Context, data []byte) (*Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data to decode")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	err = ffmpeg.Input("pipe:0").
		Output("pipe:1", ffmpeg.KwArgs{
			"f":      "s16le",
			"acodec": "pcm_s16le",
			"ar":     SampleRate,
			"ac":     Channels,
		}).
		WithInput(bytes.NewReader(data)).
		WithOutput(&out).
		SetFfmpegPath(ffmpegPath).
		Silent(true).
		Run()
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio: %w", err)
	}

	if out.Len() == 0 {
		return nil, fmt.Errorf("decoded audio is empty")
	}

	return BufferFromPCM(out.Bytes(), SampleRate, Channels), nil
}

// Encode writes the buffer to outputPath, picking the codec from the file
// extension (mp3 by default, wav and flac supported). The comment string
// is stored as a metadata tag. The file appears atomically: ffmpeg writes
// a temp file which is renamed into place on success.
func (c *Codec) Encode(
	ctx context.Context,
	buf *Buffer,
	outputPath string,
	comment string,
) error {
	if buf == nil || buf.Frames() == 0 {
		return fmt.Errorf("no audio data to encode")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	kwargs := ffmpeg.KwArgs{}
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".wav":
		kwargs["f"] = "wav"
		kwargs["acodec"] = "pcm_s16le"
	case ".flac":
		kwargs["f"] = "flac"
		kwargs["acodec"] = "flac"
	default:
		kwargs["f"] = "mp3"
		kwargs["acodec"] = "libmp3lame"
	}
	if comment != "" {
		kwargs["metadata"] = "comment=" + comment
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	tmpPath := outputPath + ".partial"
	err = ffmpeg.Input("pipe:0", ffmpeg.KwArgs{
		"f":  "s16le",
		"ar": buf.Rate(),
		"ac": Channels,
	}).
		Output(tmpPath, kwargs).
		OverWriteOutput().
		WithInput(bytes.NewReader(buf.PCM())).
		SetFfmpegPath(ffmpegPath).
		Silent(true).
		Run()
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to encode audio: %w", err)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize output file: %w", err)
	}

	return nil
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// duration of an audio file on disk
func GetDuration(filePath string) (time.Duration, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", filePath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var seconds float64
	if _, err := fmt.Sscanf(probe.Format.Duration, "%f", &seconds); err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

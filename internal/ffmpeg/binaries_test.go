package ffmpeg

import (
	"strings"
	"testing"
)

func TestAssetForPlatform(t *testing.T) {
	tests := []struct {
		goos    string
		goarch  string
		want    string
		wantErr bool
	}{
		{"linux", "amd64", "linux-64.zip", false},
		{"linux", "arm64", "linux-arm-64.zip", false},
		{"darwin", "amd64", "macos-64.zip", false},
		{"windows", "amd64", "win-64.zip", false},
		{"plan9", "amd64", "", true},
		{"linux", "mips", "", true},
	}

	for _, tt := range tests {
		got, err := assetForPlatform(tt.goos, tt.goarch)
		if tt.wantErr {
			if err == nil {
				t.Errorf("assetForPlatform(%s, %s) error = nil, want error", tt.goos, tt.goarch)
			}
			continue
		}
		if err != nil {
			t.Errorf("assetForPlatform(%s, %s) error = %v", tt.goos, tt.goarch, err)
			continue
		}
		if !strings.HasSuffix(got, tt.want) {
			t.Errorf("assetForPlatform(%s, %s) = %q, want suffix %q", tt.goos, tt.goarch, got, tt.want)
		}
	}
}

func TestEnvOverridesWinResolution(t *testing.T) {
	t.Setenv(envFFmpegPath, "/opt/tools/ffmpeg")
	t.Setenv(envFFprobePath, "/opt/tools/ffprobe")

	paths, err := resolve()
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	if paths.FFmpeg != "/opt/tools/ffmpeg" || paths.FFprobe != "/opt/tools/ffprobe" {
		t.Errorf("resolve() = %+v, want env override paths", paths)
	}
}

// Package convert implements the format-conversion service: a deterministic
// ffmpeg transcode to web-playable MP4, exposed over HTTP and consumed by the
// remediation orchestrator through a small client.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/blacktop/postcheck/internal/logutil"
)

// encodeArgs are fixed so converting the same bytes twice yields an equivalent
// browser-playable artifact: H.264/AAC, normalized pixel format, progressive
// start.
var encodeArgs = []string{
	"-c:v", "libx264",
	"-c:a", "aac",
	"-movflags", "+faststart",
	"-pix_fmt", "yuv420p",
	"-preset", "veryfast",
	"-crf", "23",
}

// Transcoder shells out to ffmpeg to produce a web-playable MP4.
type Transcoder struct {
	FFmpeg string // ffmpeg binary, resolved from PATH when empty
	Dir    string // parent for per-call temp dirs, os.TempDir() when empty
}

// Transcode converts one file and returns the MP4 bytes. Every intermediate
// artifact lives in a per-call temp directory that is removed on success and
// failure alike.
func (t *Transcoder) Transcode(ctx context.Context, name string, data []byte) ([]byte, error) {
	bin := t.FFmpeg
	if bin == "" {
		bin = "ffmpeg"
	}

	dir, err := os.MkdirTemp(t.Dir, "convert-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	base := uuid.NewString()
	inPath := filepath.Join(dir, base+"-in"+filepath.Ext(name))
	outPath := filepath.Join(dir, base+"-out.mp4")

	if err := os.WriteFile(inPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("write input: %w", err)
	}

	args := append([]string{"-y", "-i", inPath}, encodeArgs...)
	args = append(args, outPath)

	logutil.Debugf("transcoding: name=%s bytes=%d", name, len(data))
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, lastLine(stderr.String()))
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	logutil.Debugf("transcoded: name=%s bytes=%d", name, len(out))

	return out, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

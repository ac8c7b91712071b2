package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"
	_ "golang.org/x/image/webp"

	"github.com/blacktop/postcheck/internal/logutil"
	"github.com/blacktop/postcheck/internal/postcheck"
)

// Extractor probes attached files for metadata. FFprobe points at the ffprobe
// binary used for video probes; when empty it is resolved from PATH.
type Extractor struct {
	FFprobe string
}

// Extract derives metadata for a single file. A failed decode or probe
// degrades the result to kind, size, and name; size is always known from the
// byte length.
func (e *Extractor) Extract(ctx context.Context, f postcheck.MediaFile) postcheck.MediaMeta {
	meta := postcheck.MediaMeta{
		Kind:   Classify(f),
		SizeMB: f.SizeMB(),
		Name:   f.Name,
	}

	switch meta.Kind {
	case postcheck.KindImage:
		cfg, _, err := image.DecodeConfig(bytes.NewReader(f.Data))
		if err != nil {
			logutil.Debugf("image probe failed: name=%s err=%v", f.Name, err)
			return meta
		}
		meta.Width, meta.Height = cfg.Width, cfg.Height
	case postcheck.KindVideo:
		if err := e.probeVideo(ctx, f, &meta); err != nil {
			logutil.Debugf("video probe failed: name=%s err=%v", f.Name, err)
		}
	}

	return meta
}

// ExtractAll probes every file concurrently and assembles the results
// positionally, so metas[i] always describes files[i].
func (e *Extractor) ExtractAll(ctx context.Context, files []postcheck.MediaFile) []postcheck.MediaMeta {
	metas := make([]postcheck.MediaMeta, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			metas[i] = e.Extract(ctx, f)
			return nil
		})
	}
	_ = g.Wait() // probes degrade instead of erroring
	return metas
}

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

func (e *Extractor) probeVideo(ctx context.Context, f postcheck.MediaFile, meta *postcheck.MediaMeta) error {
	bin := e.FFprobe
	if bin == "" {
		bin = "ffprobe"
	}

	tmp, err := os.CreateTemp("", "postcheck-probe-*"+filepath.Ext(f.Name))
	if err != nil {
		return postcheck.ProbeError{Name: f.Name, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close()
		return postcheck.ProbeError{Name: f.Name, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return postcheck.ProbeError{Name: f.Name, Err: err}
	}

	out, err := exec.CommandContext(ctx, bin,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		tmp.Name(),
	).Output()
	if err != nil {
		return postcheck.ProbeError{Name: f.Name, Err: err}
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return postcheck.ProbeError{Name: f.Name, Err: fmt.Errorf("parse ffprobe output: %w", err)}
	}

	if dur, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		meta.Duration = dur
	}
	for _, stream := range probe.Streams {
		if stream.CodecType == "video" && stream.Width > 0 {
			meta.Width, meta.Height = stream.Width, stream.Height
			break
		}
	}

	return nil
}

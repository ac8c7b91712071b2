package remedy_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blacktop/postcheck/internal/postcheck"
	"github.com/blacktop/postcheck/internal/postcheck/convert"
	"github.com/blacktop/postcheck/internal/postcheck/media"
	"github.com/blacktop/postcheck/internal/postcheck/remedy"
)

// fakeConverter records calls and either converts or fails per filename.
type fakeConverter struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (c *fakeConverter) Convert(ctx context.Context, f postcheck.MediaFile) (postcheck.MediaFile, error) {
	c.mu.Lock()
	c.calls = append(c.calls, f.Name)
	c.mu.Unlock()
	if c.fail[f.Name] {
		return postcheck.MediaFile{}, postcheck.ConversionError{Name: f.Name, Status: 500, Reason: "boom"}
	}
	return postcheck.MediaFile{
		Name: convert.ConvertedName(f.Name),
		MIME: "video/mp4",
		Data: []byte("mp4"),
	}, nil
}

func newOrchestrator(c remedy.Converter) *remedy.Orchestrator {
	return &remedy.Orchestrator{
		Converter: c,
		Extractor: &media.Extractor{FFprobe: "/nonexistent/ffprobe"},
	}
}

func TestFixAllConvertsOnlyNonPlayableVideos(t *testing.T) {
	d := postcheck.NewDraft("new clip")
	d.Enable(postcheck.NetworkX)
	d.AddMedia(postcheck.MediaFile{Name: "raw.avi", MIME: "video/x-msvideo", Data: []byte("avi")})
	d.AddMedia(postcheck.MediaFile{Name: "fine.mp4", MIME: "video/mp4", Data: []byte("mp4")})
	d.AddMedia(postcheck.MediaFile{Name: "pic.png", MIME: "image/png", Data: []byte("png")})
	require.NoError(t, d.SetPrimary(1))

	conv := &fakeConverter{}
	report, err := newOrchestrator(conv).FixAll(context.Background(), d)
	require.NoError(t, err)

	require.Equal(t, []string{"raw.avi"}, conv.calls)
	require.Equal(t, 1, report.Converted)
	require.Zero(t, report.Failed)

	// replaced in place, order and primary preserved
	require.Equal(t, "raw_converted.mp4", d.Media[0].Name)
	require.Equal(t, "video/mp4", d.Media[0].MIME)
	require.Equal(t, "fine.mp4", d.Media[1].Name)
	require.Equal(t, "pic.png", d.Media[2].Name)
	require.Equal(t, 1, d.Primary())
}

func TestFixAllFailureLeavesOriginalAndContinues(t *testing.T) {
	d := postcheck.NewDraft("two clips")
	d.Enable(postcheck.NetworkInstagram)
	d.AddMedia(postcheck.MediaFile{Name: "bad.mkv", MIME: "video/x-matroska", Data: []byte("mkv")})
	d.AddMedia(postcheck.MediaFile{Name: "raw.avi", MIME: "video/x-msvideo", Data: []byte("avi")})

	conv := &fakeConverter{fail: map[string]bool{"bad.mkv": true}}
	report, err := newOrchestrator(conv).FixAll(context.Background(), d)
	require.NoError(t, err)

	require.Len(t, conv.calls, 2)
	require.Equal(t, 1, report.Converted)
	require.Equal(t, 1, report.Failed)

	require.Equal(t, "bad.mkv", d.Media[0].Name, "failed file keeps its original bytes")
	require.Equal(t, []byte("mkv"), d.Media[0].Data)
	require.Equal(t, "raw_converted.mp4", d.Media[1].Name)
}

func TestFixAllBlockedSetNeverGrows(t *testing.T) {
	d := postcheck.NewDraft(strings.Repeat("a", 281)) // blocks x, fine elsewhere
	d.Enable(postcheck.NetworkX)
	d.Enable(postcheck.NetworkFacebook)
	d.AddMedia(postcheck.MediaFile{Name: "raw.avi", MIME: "video/x-msvideo", Data: []byte("avi")})

	report, err := newOrchestrator(&fakeConverter{}).FixAll(context.Background(), d)
	require.NoError(t, err)

	for k, after := range report.After {
		if after.Level == postcheck.LevelBlock {
			require.Equal(t, postcheck.LevelBlock, report.Before[k].Level,
				"remediation introduced a new block for %s", k)
		}
	}
	require.Equal(t, postcheck.LevelBlock, report.After[postcheck.NetworkX].Level)
	require.NotEqual(t, postcheck.LevelBlock, report.After[postcheck.NetworkFacebook].Level)
}

func TestFixAllRemainingMessagesDropNetworkPrefix(t *testing.T) {
	d := postcheck.NewDraft(strings.Repeat("a", 281))
	d.Enable(postcheck.NetworkX)

	report, err := newOrchestrator(&fakeConverter{}).FixAll(context.Background(), d)
	require.NoError(t, err)

	require.Len(t, report.Remaining, 1)
	issues := report.Remaining[0]
	require.Equal(t, postcheck.NetworkX, issues.Network)
	require.NotEmpty(t, issues.Messages)
	for _, msg := range issues.Messages {
		require.False(t, strings.HasPrefix(msg, "X (Twitter):"), msg)
	}
}

func TestFixAllPreviewRatioAndAutoNotes(t *testing.T) {
	d := postcheck.NewDraft("hi")
	d.Enable(postcheck.NetworkTikTok)
	d.Enable(postcheck.NetworkX)
	d.AddMedia(postcheck.MediaFile{Name: "pic.png", MIME: "image/png", Data: []byte("png")})
	d.AddMedia(postcheck.MediaFile{Name: "clip.mp4", MIME: "video/mp4", Data: []byte("mp4")})

	report, err := newOrchestrator(&fakeConverter{}).FixAll(context.Background(), d)
	require.NoError(t, err)

	require.Equal(t, "9/16", report.Ratio)
	require.Len(t, report.Auto, 2)
	require.Contains(t, report.Auto[0], "images")
	require.Contains(t, report.Auto[1], "videos")
}

func TestFixAllNoVideosNoConversions(t *testing.T) {
	d := postcheck.NewDraft("text only")
	d.Enable(postcheck.NetworkLinkedIn)

	conv := &fakeConverter{}
	report, err := newOrchestrator(conv).FixAll(context.Background(), d)
	require.NoError(t, err)

	require.Empty(t, conv.calls)
	require.Zero(t, report.Converted)
	require.Empty(t, report.Remaining)
	require.Equal(t, "1.91/1", report.Ratio)
}

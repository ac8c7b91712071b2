package media_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blacktop/postcheck/internal/postcheck"
	"github.com/blacktop/postcheck/internal/postcheck/media"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		mime string
		file string
		want postcheck.MediaKind
	}{
		{"png by mime", "image/png", "shot.png", postcheck.KindImage},
		{"mp4 by mime", "video/mp4", "clip.mp4", postcheck.KindVideo},
		{"pdf by extension", "application/pdf", "report.pdf", postcheck.KindDoc},
		{"docx without mime", "", "notes.DOCX", postcheck.KindDoc},
		{"spreadsheet", "application/octet-stream", "sheet.xlsx", postcheck.KindDoc},
		{"unknown binary", "application/octet-stream", "blob.bin", postcheck.KindOther},
		{"plain text", "text/plain", "readme.txt", postcheck.KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := media.Classify(postcheck.MediaFile{Name: tt.file, MIME: tt.mime})
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPlayable(t *testing.T) {
	tests := []struct {
		name string
		mime string
		file string
		want bool
	}{
		{"mp4 mime", "video/mp4", "clip.dat", true},
		{"webm extension", "", "clip.WEBM", true},
		{"m4v extension", "video/x-m4v", "clip.m4v", true},
		{"quicktime", "video/quicktime", "clip.mov", false},
		{"avi", "video/x-msvideo", "clip.avi", false},
		{"mkv", "video/x-matroska", "clip.mkv", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := media.Playable(postcheck.MediaFile{Name: tt.file, MIME: tt.mime})
			require.Equal(t, tt.want, got)
		})
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestExtractImageDimensions(t *testing.T) {
	e := &media.Extractor{}
	f := postcheck.MediaFile{Name: "shot.png", MIME: "image/png", Data: pngBytes(t, 12, 8)}

	meta := e.Extract(context.Background(), f)
	require.Equal(t, postcheck.KindImage, meta.Kind)
	require.Equal(t, 12, meta.Width)
	require.Equal(t, 8, meta.Height)
	require.Equal(t, "shot.png", meta.Name)
	require.Greater(t, meta.SizeMB, 0.0)
}

func TestExtractImageDecodeFailureDegrades(t *testing.T) {
	e := &media.Extractor{}
	f := postcheck.MediaFile{Name: "corrupt.png", MIME: "image/png", Data: []byte("not a png")}

	meta := e.Extract(context.Background(), f)
	require.Equal(t, postcheck.KindImage, meta.Kind)
	require.Zero(t, meta.Width)
	require.Zero(t, meta.Height)
	require.Equal(t, "corrupt.png", meta.Name)
	require.Greater(t, meta.SizeMB, 0.0)
}

func TestExtractVideoProbeUnavailableDegrades(t *testing.T) {
	e := &media.Extractor{FFprobe: "/nonexistent/ffprobe"}
	f := postcheck.MediaFile{Name: "clip.avi", MIME: "video/x-msvideo", Data: make([]byte, 1024)}

	meta := e.Extract(context.Background(), f)
	require.Equal(t, postcheck.KindVideo, meta.Kind)
	require.Zero(t, meta.Duration)
	require.Zero(t, meta.Width)
	require.Greater(t, meta.SizeMB, 0.0)
}

func TestExtractAllIsPositional(t *testing.T) {
	e := &media.Extractor{FFprobe: "/nonexistent/ffprobe"}
	files := []postcheck.MediaFile{
		{Name: "a.png", MIME: "image/png", Data: pngBytes(t, 4, 4)},
		{Name: "b.avi", MIME: "video/x-msvideo", Data: []byte{1}},
		{Name: "c.pdf", MIME: "application/pdf", Data: []byte{1, 2}},
	}

	metas := e.ExtractAll(context.Background(), files)
	require.Len(t, metas, 3)
	require.Equal(t, "a.png", metas[0].Name)
	require.Equal(t, postcheck.KindImage, metas[0].Kind)
	require.Equal(t, "b.avi", metas[1].Name)
	require.Equal(t, postcheck.KindVideo, metas[1].Kind)
	require.Equal(t, "c.pdf", metas[2].Name)
	require.Equal(t, postcheck.KindDoc, metas[2].Kind)
}

// Package media derives per-file metadata for compliance evaluation: kind,
// pixel dimensions, video duration, and size.
package media

import (
	"path/filepath"
	"strings"

	"github.com/blacktop/postcheck/internal/postcheck"
)

var docExtensions = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".docx": {}, ".ppt": {}, ".pptx": {}, ".xls": {}, ".xlsx": {},
}

var playableExtensions = map[string]struct{}{
	".mp4": {}, ".m4v": {}, ".webm": {}, ".ogg": {}, ".ogv": {},
}

var playableMIMEs = map[string]struct{}{
	"video/mp4": {}, "video/webm": {}, "video/ogg": {},
}

// Classify buckets a file using the MIME type first and the filename extension
// as fallback. Unrecognized files come back as KindOther; the evaluator applies
// document rules to those, so unknown types get the strictest treatment.
func Classify(f postcheck.MediaFile) postcheck.MediaKind {
	mime := strings.ToLower(strings.TrimSpace(f.MIME))
	switch {
	case strings.HasPrefix(mime, "image/"):
		return postcheck.KindImage
	case strings.HasPrefix(mime, "video/"):
		return postcheck.KindVideo
	}
	if _, ok := docExtensions[strings.ToLower(filepath.Ext(f.Name))]; ok {
		return postcheck.KindDoc
	}
	return postcheck.KindOther
}

// Playable reports whether browsers can natively play the file: either the
// MIME type is a web-safe video type or the extension is one of the containers
// every engine handles.
func Playable(f postcheck.MediaFile) bool {
	mime := strings.ToLower(strings.TrimSpace(f.MIME))
	if _, ok := playableMIMEs[mime]; ok {
		return true
	}
	_, ok := playableExtensions[strings.ToLower(filepath.Ext(f.Name))]
	return ok
}

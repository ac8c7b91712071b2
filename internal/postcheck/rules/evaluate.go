package rules

import (
	"fmt"
	"math"
	"regexp"

	"github.com/blacktop/postcheck/internal/postcheck"
)

var linkPattern = regexp.MustCompile(`(?i)\bhttps?://\S+`)

// verdict accumulates rule messages in firing order while tracking the
// strongest level seen. A block never suppresses the warns that also fired.
type verdict struct {
	level    postcheck.Level
	messages []string
}

func (v *verdict) block(msg string) {
	v.messages = append(v.messages, msg)
	v.level = postcheck.LevelBlock
}

func (v *verdict) warn(msg string) {
	v.messages = append(v.messages, msg)
	if v.level < postcheck.LevelWarn {
		v.level = postcheck.LevelWarn
	}
}

// Evaluate runs every compliance rule for one network against a draft
// snapshot. It is deterministic and side-effect free: the same draft and
// metadata always produce the same verdict. Rules run in a fixed order and
// each contributes at most one message, reporting the first offending file.
func Evaluate(k postcheck.NetworkKey, d *postcheck.Draft, meta []postcheck.MediaMeta) postcheck.Verdict {
	caps := Capabilities(k)
	label := k.Label()

	var images, videos, docs []postcheck.MediaMeta
	for _, m := range meta {
		switch m.Kind {
		case postcheck.KindImage:
			images = append(images, m)
		case postcheck.KindVideo:
			videos = append(videos, m)
		default:
			docs = append(docs, m)
		}
	}

	var v verdict

	// 1. text length
	textLen := len([]rune(d.Text))
	if textLen > caps.MaxTextLen {
		v.block(fmt.Sprintf("%s: text %d/%d characters (over limit)", label, textLen, caps.MaxTextLen))
	} else if near := int(math.Round(float64(caps.MaxTextLen) * 0.9)); textLen >= near {
		v.warn(fmt.Sprintf("%s: text %d/%d characters (approaching limit)", label, textLen, caps.MaxTextLen))
	}

	// 2. documents
	if len(docs) > 0 {
		switch caps.DocPolicy {
		case Bad:
			v.block(label + ": documents not supported")
		case Warn:
			v.warn(label + ": documents can only be imported inside groups")
		}
		if caps.DocMaxSizeMB > 0 {
			for _, doc := range docs {
				if doc.SizeMB > caps.DocMaxSizeMB {
					v.block(fmt.Sprintf("%s: document %q too large (> %g MB)", label, doc.Name, caps.DocMaxSizeMB))
					break
				}
			}
		}
	}

	// 3. links
	if linkPattern.MatchString(d.Text) {
		switch caps.LinkPolicy {
		case Bad:
			v.block(label + ": links not supported")
		case Warn:
			if k == postcheck.NetworkTikTok {
				v.warn(label + ": link clickable only from a qualifying business account")
			} else {
				v.warn(label + ": link not clickable outside the bio")
			}
		}
	}

	// 4. video duration and size; unknown duration never triggers
	if caps.VideoMaxDurationSec > 0 {
		for _, vid := range videos {
			if vid.Duration > float64(caps.VideoMaxDurationSec) {
				v.block(fmt.Sprintf("%s: video too long (%d min / limit %d min)",
					label,
					int(math.Round(vid.Duration/60)),
					int(math.Round(float64(caps.VideoMaxDurationSec)/60))))
				break
			}
		}
	}
	if caps.VideoMaxSizeMB > 0 {
		for _, vid := range videos {
			if vid.SizeMB > caps.VideoMaxSizeMB {
				v.block(fmt.Sprintf("%s: video %q too large (> %g MB)", label, vid.Name, caps.VideoMaxSizeMB))
				break
			}
		}
	}

	// 5. image count, size, recommended dimensions
	if caps.ImageMaxCount > 0 && len(images) > caps.ImageMaxCount {
		v.block(fmt.Sprintf("%s: %d images (limit %d)", label, len(images), caps.ImageMaxCount))
	}
	if caps.ImageMaxSizeMB > 0 {
		for _, im := range images {
			if im.SizeMB > caps.ImageMaxSizeMB {
				v.block(fmt.Sprintf("%s: image %q too large (> %g MB)", label, im.Name, caps.ImageMaxSizeMB))
				break
			}
		}
	}
	if caps.ImageRecommendedW > 0 {
		for _, im := range images {
			if im.Width > 0 && im.Height > 0 && (im.Width != caps.ImageRecommendedW || im.Height != caps.ImageRecommendedH) {
				v.warn(fmt.Sprintf("%s: recommended image dimensions %d×%d px", label, caps.ImageRecommendedW, caps.ImageRecommendedH))
				break
			}
		}
	}

	// 6. video-first networks
	if k == postcheck.NetworkYouTube && len(videos) == 0 {
		v.block(label + ": video required")
	}
	if caps.ImagePolicy == Bad && len(images) > 0 {
		v.block(label + ": image unsupported")
	}

	// 7. comments toggle
	if !d.AllowComments {
		if !caps.CommentsOffSupported {
			v.block(label + ": disabling comments is not supported")
		} else if k == postcheck.NetworkFacebook {
			v.warn(label + ": comments can be disabled inside groups only")
		}
	}

	return postcheck.Verdict{Level: v.level, Messages: v.messages}
}

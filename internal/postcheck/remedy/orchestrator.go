// Package remedy implements the best-effort "fix all" pass: convert every
// non-playable video, replace it in the draft, and re-evaluate the enabled
// networks to report what still needs a manual fix.
package remedy

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/blacktop/postcheck/internal/logutil"
	"github.com/blacktop/postcheck/internal/postcheck"
	"github.com/blacktop/postcheck/internal/postcheck/media"
	"github.com/blacktop/postcheck/internal/postcheck/rules"
)

// Converter turns a non-playable video into a web-playable replacement.
type Converter interface {
	Convert(ctx context.Context, f postcheck.MediaFile) (postcheck.MediaFile, error)
}

// NetworkIssues lists the manual fixes still needed for one network, with the
// network prefix stripped from each message for compactness.
type NetworkIssues struct {
	Network  postcheck.NetworkKey
	Messages []string
}

// Report is the outcome of a fix-all pass.
type Report struct {
	Ratio     string   // preview aspect ratio picked for the enabled networks
	Auto      []string // informational auto-adjustments, nothing destructive
	Converted int
	Failed    int
	Before    map[postcheck.NetworkKey]postcheck.Verdict
	After     map[postcheck.NetworkKey]postcheck.Verdict
	Remaining []NetworkIssues
}

// Orchestrator runs remediation over a draft.
type Orchestrator struct {
	Converter Converter
	Extractor *media.Extractor
}

// FixAll converts every video the browser cannot play, replacing each at its
// original index, then re-evaluates the enabled networks. Conversion failures
// are independent: a failed file keeps its original bytes and the batch keeps
// going.
func (o *Orchestrator) FixAll(ctx context.Context, d *postcheck.Draft) (*Report, error) {
	report := &Report{
		Ratio:  previewRatio(d),
		Before: make(map[postcheck.NetworkKey]postcheck.Verdict),
		After:  make(map[postcheck.NetworkKey]postcheck.Verdict),
	}

	metaBefore := o.Extractor.ExtractAll(ctx, d.Media)
	for _, k := range d.EnabledNetworks() {
		report.Before[k] = rules.Evaluate(k, d, metaBefore)
	}

	var imageCount, videoCount int
	for _, f := range d.Media {
		switch media.Classify(f) {
		case postcheck.KindImage:
			imageCount++
		case postcheck.KindVideo:
			videoCount++
		}
	}
	if imageCount > 0 {
		report.Auto = append(report.Auto, fmt.Sprintf("images visually adapted: %d (preview %s)", imageCount, report.Ratio))
	}
	if videoCount > 0 {
		report.Auto = append(report.Auto, fmt.Sprintf("videos visually adapted: %d (preview %s)", videoCount, report.Ratio))
	}

	// fire-and-await-all; each goroutine only ever writes its own index slot
	replacements := make([]*postcheck.MediaFile, len(d.Media))
	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range d.Media {
		if media.Classify(f) != postcheck.KindVideo || media.Playable(f) {
			continue
		}
		i, f := i, f
		g.Go(func() error {
			out, err := o.Converter.Convert(gctx, f)
			if err != nil {
				logutil.Errorf("conversion failed: name=%s err=%v", f.Name, err)
				failed.Add(1)
				return nil
			}
			replacements[i] = &out
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are counted instead

	for i, out := range replacements {
		if out == nil {
			continue
		}
		if err := d.ReplaceMedia(i, *out); err != nil {
			return nil, err
		}
		report.Converted++
	}
	report.Failed = int(failed.Load())

	metaAfter := o.Extractor.ExtractAll(ctx, d.Media)
	for _, k := range d.EnabledNetworks() {
		v := rules.Evaluate(k, d, metaAfter)
		report.After[k] = v
		if len(v.Messages) > 0 {
			report.Remaining = append(report.Remaining, NetworkIssues{
				Network:  k,
				Messages: stripPrefixes(k, v.Messages),
			})
		}
	}

	return report, nil
}

// previewRatio picks the visual preview aspect ratio by a simple network
// priority.
func previewRatio(d *postcheck.Draft) string {
	switch {
	case d.Enabled(postcheck.NetworkTikTok):
		return "9/16"
	case d.Enabled(postcheck.NetworkInstagram):
		return "1/1"
	case d.Enabled(postcheck.NetworkLinkedIn), d.Enabled(postcheck.NetworkFacebook):
		return "1.91/1"
	case d.Enabled(postcheck.NetworkYouTube), d.Enabled(postcheck.NetworkX):
		return "16/9"
	}
	return "16/9"
}

func stripPrefixes(k postcheck.NetworkKey, messages []string) []string {
	prefix := k.Label() + ": "
	out := make([]string, len(messages))
	for i, msg := range messages {
		out[i] = strings.TrimPrefix(msg, prefix)
	}
	return out
}

// Package rules holds the static per-network publishing limits and the
// compliance evaluator that applies them to a draft.
package rules

import "github.com/blacktop/postcheck/internal/postcheck"

// Policy grades how a network treats a content feature.
type Policy int

const (
	Good Policy = iota
	Warn
	Bad
)

// Capability declares the static publishing limits for one network.
// A zero-valued limit means the network declares none.
type Capability struct {
	MaxTextLen          int
	ImageMaxCount       int
	ImageMaxSizeMB      float64
	ImageRecommendedW   int
	ImageRecommendedH   int
	VideoMaxDurationSec int
	VideoMaxSizeMB      float64
	DocMaxSizeMB        float64

	ImagePolicy          Policy
	DocPolicy            Policy
	LinkPolicy           Policy
	CommentsOffSupported bool
}

// Capabilities returns the declared limits for a network. The switch is
// exhaustive over the NetworkKey enumeration so adding a network is a
// compile-surface change, not a silent map miss.
func Capabilities(k postcheck.NetworkKey) Capability {
	switch k {
	case postcheck.NetworkX:
		return Capability{
			MaxTextLen:          280,
			ImageMaxCount:       4,
			VideoMaxDurationSec: 140,
			VideoMaxSizeMB:      512,
			DocPolicy:           Bad,
			LinkPolicy:          Good,
		}
	case postcheck.NetworkInstagram:
		return Capability{
			MaxTextLen:           2200,
			ImageMaxCount:        10,
			VideoMaxDurationSec:  600,
			DocPolicy:            Bad,
			LinkPolicy:           Warn,
			CommentsOffSupported: true,
		}
	case postcheck.NetworkFacebook:
		return Capability{
			MaxTextLen:          63206,
			ImageMaxCount:       10,
			ImageMaxSizeMB:      10,
			VideoMaxDurationSec: 14400,
			DocPolicy:           Warn,
			LinkPolicy:          Good,
			// supported, but only inside groups; the evaluator appends
			// the caveat when comments are turned off
			CommentsOffSupported: true,
		}
	case postcheck.NetworkLinkedIn:
		return Capability{
			MaxTextLen:           3000,
			ImageMaxCount:        9,
			ImageMaxSizeMB:       5,
			VideoMaxDurationSec:  600,
			VideoMaxSizeMB:       5120,
			DocMaxSizeMB:         100,
			DocPolicy:            Good,
			LinkPolicy:           Good,
			CommentsOffSupported: true,
		}
	case postcheck.NetworkYouTube:
		return Capability{
			MaxTextLen:           5000,
			VideoMaxDurationSec:  43200,
			VideoMaxSizeMB:       262144, // 12h, 256 GB
			ImagePolicy:          Bad,
			DocPolicy:            Bad,
			LinkPolicy:           Good,
			CommentsOffSupported: true,
		}
	case postcheck.NetworkTikTok:
		return Capability{
			MaxTextLen:          2200,
			ImageMaxCount:       35,
			ImageRecommendedW:   1080,
			ImageRecommendedH:   1920,
			VideoMaxDurationSec: 600,
			VideoMaxSizeMB:      4096,
			DocPolicy:           Bad,
			// clickable only from a qualifying business account
			LinkPolicy:           Warn,
			CommentsOffSupported: true,
		}
	}
	return Capability{}
}

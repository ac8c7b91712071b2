package postcheck

import "fmt"

// NetworkKey identifies one of the supported social networks.
type NetworkKey string

const (
	NetworkX         NetworkKey = "x"
	NetworkInstagram NetworkKey = "instagram"
	NetworkFacebook  NetworkKey = "facebook"
	NetworkLinkedIn  NetworkKey = "linkedin"
	NetworkYouTube   NetworkKey = "youtube"
	NetworkTikTok    NetworkKey = "tiktok"
)

// AllNetworks returns every supported network in canonical display order.
func AllNetworks() []NetworkKey {
	return []NetworkKey{
		NetworkX,
		NetworkInstagram,
		NetworkFacebook,
		NetworkLinkedIn,
		NetworkYouTube,
		NetworkTikTok,
	}
}

// ParseNetwork maps a user-supplied name onto a NetworkKey.
func ParseNetwork(name string) (NetworkKey, error) {
	switch NetworkKey(name) {
	case NetworkX, NetworkInstagram, NetworkFacebook, NetworkLinkedIn, NetworkYouTube, NetworkTikTok:
		return NetworkKey(name), nil
	}
	switch name {
	case "twitter":
		return NetworkX, nil
	}
	return "", fmt.Errorf("unsupported network %q", name)
}

// Label returns the human-readable platform name used in verdict messages.
func (k NetworkKey) Label() string {
	switch k {
	case NetworkX:
		return "X (Twitter)"
	case NetworkInstagram:
		return "Instagram"
	case NetworkFacebook:
		return "Facebook"
	case NetworkLinkedIn:
		return "LinkedIn"
	case NetworkYouTube:
		return "YouTube"
	case NetworkTikTok:
		return "TikTok"
	}
	return string(k)
}

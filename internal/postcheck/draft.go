package postcheck

import (
	"fmt"
	"time"
)

// MediaFile is a file attached to a draft: the raw bytes plus the declared
// MIME type and original filename.
type MediaFile struct {
	Name string
	MIME string
	Data []byte
}

// SizeMB returns the file size in megabytes.
func (f MediaFile) SizeMB() float64 {
	return float64(len(f.Data)) / (1024 * 1024)
}

// Draft is an in-progress, unpublished post targeting zero or more networks.
// The media sequence is ordered; the primary media index is only ever updated
// through the media operations below so it can never dangle.
type Draft struct {
	Text          string
	Media         []MediaFile
	AllowComments bool
	ScheduledAt   *time.Time
	Networks      map[NetworkKey]bool

	primary int
}

// NewDraft returns a draft with comments enabled and no networks selected.
func NewDraft(text string) *Draft {
	return &Draft{
		Text:          text,
		AllowComments: true,
		Networks:      make(map[NetworkKey]bool),
	}
}

// Enable selects a network for publishing.
func (d *Draft) Enable(k NetworkKey) {
	if d.Networks == nil {
		d.Networks = make(map[NetworkKey]bool)
	}
	d.Networks[k] = true
}

// Enabled reports whether a network is selected.
func (d *Draft) Enabled(k NetworkKey) bool {
	return d.Networks[k]
}

// EnabledNetworks returns the selected networks in canonical order.
func (d *Draft) EnabledNetworks() []NetworkKey {
	var keys []NetworkKey
	for _, k := range AllNetworks() {
		if d.Networks[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// Primary returns the index of the primary media, 0 when no media is attached.
func (d *Draft) Primary() int {
	return d.primary
}

// SetPrimary marks the media at index i as primary.
func (d *Draft) SetPrimary(i int) error {
	if i < 0 || i >= len(d.Media) {
		return fmt.Errorf("primary index %d out of range", i)
	}
	d.primary = i
	return nil
}

// AddMedia appends a file to the media sequence.
func (d *Draft) AddMedia(f MediaFile) {
	d.Media = append(d.Media, f)
}

// RemoveMedia drops the file at index i, shifting the primary pointer down
// when it referenced a later entry.
func (d *Draft) RemoveMedia(i int) error {
	if i < 0 || i >= len(d.Media) {
		return fmt.Errorf("media index %d out of range", i)
	}
	d.Media = append(d.Media[:i], d.Media[i+1:]...)
	switch {
	case d.primary > i:
		d.primary--
	case d.primary == i && d.primary >= len(d.Media) && d.primary > 0:
		d.primary = len(d.Media) - 1
	}
	return nil
}

// MoveMediaUp swaps the file at index i with its predecessor, carrying the
// primary pointer along.
func (d *Draft) MoveMediaUp(i int) {
	if i <= 0 || i >= len(d.Media) {
		return
	}
	d.Media[i-1], d.Media[i] = d.Media[i], d.Media[i-1]
	switch d.primary {
	case i:
		d.primary = i - 1
	case i - 1:
		d.primary = i
	}
}

// MoveMediaDown swaps the file at index i with its successor.
func (d *Draft) MoveMediaDown(i int) {
	if i < 0 || i >= len(d.Media)-1 {
		return
	}
	d.Media[i], d.Media[i+1] = d.Media[i+1], d.Media[i]
	switch d.primary {
	case i:
		d.primary = i + 1
	case i + 1:
		d.primary = i
	}
}

// ReplaceMedia swaps in a new file at index i, keeping order and the primary
// pointer untouched.
func (d *Draft) ReplaceMedia(i int, f MediaFile) error {
	if i < 0 || i >= len(d.Media) {
		return fmt.Errorf("media index %d out of range", i)
	}
	d.Media[i] = f
	return nil
}

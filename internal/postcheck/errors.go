package postcheck

import "fmt"

// ProbeError reports a failed metadata probe for a single file. Callers degrade
// that file's metadata to size-only instead of aborting the batch.
type ProbeError struct {
	Name string
	Err  error
}

func (e ProbeError) Error() string {
	return fmt.Sprintf("probe %q: %v", e.Name, e.Err)
}

func (e ProbeError) Unwrap() error { return e.Err }

// ConversionError is returned when the format-conversion service rejects or
// fails to transcode a file.
type ConversionError struct {
	Name   string
	Status int
	Reason string
}

func (e ConversionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("convert %q: status %d", e.Name, e.Status)
	}
	return fmt.Sprintf("convert %q: %s", e.Name, e.Reason)
}

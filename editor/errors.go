package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrDownloadDisabled is returned when download is triggered outside the stable state
	ErrDownloadDisabled = errors.New("download is not available in the current state")
	// ErrDebounced is returned when a control fires again within its debounce interval
	ErrDebounced = errors.New("action triggered too soon after the previous one")
	// ErrNameRequired is returned when a text card is downloaded without a name
	ErrNameRequired = errors.New("name is required")
)

// ValidationReason identifies why an upload was rejected
type ValidationReason int

const (
	ReasonNotImage ValidationReason = iota
	ReasonTooLarge
	ReasonUnreadable
)

// ValidationError rejects an uploaded file before it reaches the editor
type ValidationError struct {
	Reason   ValidationReason
	MaxBytes int64
	Err      error
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonNotImage:
		return "file is not an image"
	case ReasonTooLarge:
		return fmt.Sprintf("file is larger than %d bytes", e.MaxBytes)
	default:
		if e.Err != nil {
			return fmt.Sprintf("image cannot be read: %v", e.Err)
		}
		return "image cannot be read"
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TrackingError wraps a failed download-tracking call. It is logged and
// never blocks the download.
type TrackingError struct {
	Err error
}

func (e *TrackingError) Error() string {
	return fmt.Sprintf("failed to track download: %v", e.Err)
}

func (e *TrackingError) Unwrap() error {
	return e.Err
}

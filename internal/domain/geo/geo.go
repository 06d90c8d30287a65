package geo

import (
	"context"
	"errors"
)

// Coordinates is the device position at pipeline start. Fetched fresh per
// run, embedded into the metadata attributes, then discarded.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

var (
	// ErrPermissionDenied: foreground location access was not granted.
	// Fatal to the run, not to the process.
	ErrPermissionDenied = errors.New("geo: location permission denied")

	// ErrUnavailable: permission was granted but no fix arrived before the
	// underlying service timed out.
	ErrUnavailable = errors.New("geo: location unavailable")
)

// Locator is the output port for the device location service.
// One-shot high-accuracy fetch with no internal retry. A run without
// coordinates does not proceed; that call is the pipeline's.
type Locator interface {
	Current(ctx context.Context) (Coordinates, error)
}

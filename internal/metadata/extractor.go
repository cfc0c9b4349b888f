// Package metadata defines the contract for probing technical and tag
// metadata from a media file, with an ffprobe-backed default. The
// import engine only consumes the interface.
package metadata

import (
	"context"
	"time"
)

//go:generate mockgen -source=extractor.go -destination=mocks/extractor.go -package=mocks

// Info is the result of probing one file. Zero values mean the probe
// could not determine that field.
type Info struct {
	Title       string
	Artist      string
	Album       string
	Duration    int // seconds
	Width       int
	Height      int
	FrameRate   float64
	VideoCodec  string
	AudioCodec  string
	Bitrate     int // kbps
	ReleaseDate time.Time
}

// Extractor probes a file for metadata. Implementations may fail for
// any reason; callers treat a failure as "no metadata" and continue.
type Extractor interface {
	Extract(ctx context.Context, path string) (*Info, error)
}

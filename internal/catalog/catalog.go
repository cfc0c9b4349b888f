// Package catalog manages the curated store of accepted music videos.
package catalog

import (
	"fmt"
	"time"
)

// Video is one catalog entry. Zero values mean unknown for the optional
// technical fields.
type Video struct {
	ID          int64
	Title       string
	Artist      string
	Album       string
	Year        int
	FilePath    string
	SizeBytes   int64
	Duration    int // seconds
	Width       int
	Height      int
	VideoCodec  string
	AudioCodec  string
	Bitrate     int // kbps
	FrameRate   float64
	ContentHash string // lower-case hex SHA-256, empty if never hashed
	AddedAt     time.Time
	UpdatedAt   time.Time
}

// Resolution formats width x height for display, or "" when unknown.
func (v *Video) Resolution() string {
	if v.Width <= 0 || v.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// Label is the display form used in candidate lists: "Artist - Title",
// or just the title when the artist is unknown.
func (v *Video) Label() string {
	if v.Artist == "" {
		return v.Title
	}
	return v.Artist + " - " + v.Title
}

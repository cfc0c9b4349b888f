package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// FFProbe extracts technical metadata and container tags by shelling
// out to ffprobe.
type FFProbe struct {
	binary string
}

// NewFFProbe creates an ffprobe-backed extractor. An empty binary path
// means "ffprobe" on PATH.
func NewFFProbe(binary string) *FFProbe {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	return &FFProbe{binary: binary}
}

var _ Extractor = (*FFProbe)(nil)

// Extract runs ffprobe against the file and maps its JSON output.
func (f *FFProbe) Extract(ctx context.Context, path string) (*Info, error) {
	cmd := exec.CommandContext(ctx, f.binary,
		"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(string(output)))
	}
	return parseProbeOutput(output)
}

type probeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
}

type probeFormat struct {
	Duration string            `json:"duration"`
	BitRate  string            `json:"bit_rate"`
	Tags     map[string]string `json:"tags"`
}

func parseProbeOutput(output []byte) (*Info, error) {
	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("ffprobe parse: %w", err)
	}

	info := &Info{}
	if d, err := strconv.ParseFloat(strings.TrimSpace(result.Format.Duration), 64); err == nil && d > 0 {
		info.Duration = int(d + 0.5)
	}
	if b, err := strconv.ParseInt(strings.TrimSpace(result.Format.BitRate), 10, 64); err == nil && b > 0 {
		// ffprobe reports bits per second.
		info.Bitrate = int(b / 1000)
	}

	for _, stream := range result.Streams {
		switch strings.ToLower(stream.CodecType) {
		case "video":
			if info.VideoCodec == "" {
				info.VideoCodec = stream.CodecName
				info.Width = stream.Width
				info.Height = stream.Height
				info.FrameRate = parseFrameRate(stream.RFrameRate)
			}
		case "audio":
			if info.AudioCodec == "" {
				info.AudioCodec = stream.CodecName
			}
		}
	}

	for key, value := range result.Format.Tags {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch strings.ToLower(key) {
		case "title":
			info.Title = value
		case "artist", "album_artist":
			if info.Artist == "" || strings.ToLower(key) == "artist" {
				info.Artist = value
			}
		case "album":
			info.Album = value
		case "date", "creation_time":
			if info.ReleaseDate.IsZero() {
				info.ReleaseDate = parseReleaseDate(value)
			}
		}
	}

	return info, nil
}

// parseFrameRate handles ffprobe's fractional form, e.g. "30000/1001".
func parseFrameRate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0
		}
		return n / d
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseReleaseDate accepts the date forms seen in container tags: a
// bare year, a date, or a full timestamp.
func parseReleaseDate(s string) time.Time {
	for _, layout := range []string{"2006", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

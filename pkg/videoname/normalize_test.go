package videoname

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`Music\Videos\Daft Punk - One More Time.mp4`, "music/videos/daft punk - one more time.mp4"},
		{"/library/Pop/track.mkv/", "library/pop/track.mkv"},
		{"  spaced   out  name.mp4  ", "spaced out name.mp4"},
		{"already/normal.mp4", "already/normal.mp4"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeExt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MP4", ".mp4"},
		{".MKV", ".mkv"},
		{"webm", ".webm"},
		{"", ""},
		{"  .MOV ", ".mov"},
	}
	for _, tt := range tests {
		if got := NormalizeExt(tt.in); got != tt.want {
			t.Errorf("NormalizeExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSearchKey(t *testing.T) {
	tests := []struct {
		artist string
		title  string
		want   string
	}{
		{"The Weeknd", "Blinding Lights", "the weeknd blinding lights"},
		{"Beyoncé", "Déjà Vu", "beyonce deja vu"},
		{"AC/DC", "Back in Black!", "ac dc back in black"},
		{"", "Solo Title", "solo title"},
		{"", "", ""},
		{"a--b", "c...d", "a b c d"},
	}
	for _, tt := range tests {
		if got := SearchKey(tt.artist, tt.title); got != tt.want {
			t.Errorf("SearchKey(%q, %q) = %q, want %q", tt.artist, tt.title, got, tt.want)
		}
	}
}

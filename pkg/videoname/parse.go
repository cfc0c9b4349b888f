package videoname

import (
	"regexp"
	"strconv"
	"strings"
)

// Info contains artist/title/year information inferred from a bare file
// name (no directory, no extension). Empty string or zero means unknown.
type Info struct {
	Artist string
	Title  string
	Year   int
}

// yearRegex matches a standalone 4-digit year not adjacent to other digits.
var yearRegex = regexp.MustCompile(`(^|\D)((19|20)\d{2})(\D|$)`)

// separators tried in order when splitting "Artist - Title" style names.
// Hyphen, en-dash, em-dash.
var separators = []string{" - ", " – ", " — "}

// Parse infers artist, title, and year from a bare file name.
//
// A 4-digit year in 1900-2099 is extracted first and removed from the
// working string. Underscores become spaces. The first separator that
// splits the name into two or more parts wins: part 0 is the artist and
// the remaining parts, rejoined with " - ", are the title. Without a
// separator the whole year-stripped name is the title.
func Parse(name string) Info {
	info := Info{}
	working := name

	if m := yearRegex.FindStringSubmatchIndex(working); m != nil {
		year, err := strconv.Atoi(working[m[4]:m[5]])
		if err == nil && year >= 1900 && year <= 2099 {
			info.Year = year
			working = working[:m[4]] + working[m[5]:]
		}
	}

	working = strings.ReplaceAll(working, "_", " ")

	for _, sep := range separators {
		parts := strings.Split(working, sep)
		if len(parts) >= 2 {
			info.Artist = cleanPart(parts[0])
			info.Title = cleanPart(strings.Join(parts[1:], " - "))
			return info
		}
	}

	info.Title = cleanPart(working)
	return info
}

// cleanPart trims whitespace and stray separator punctuation left behind
// by year removal, and collapses internal whitespace runs.
func cleanPart(s string) string {
	s = strings.Trim(s, " -()[]")
	return strings.Join(strings.Fields(s), " ")
}

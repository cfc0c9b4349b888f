// Package videoname parses and normalizes music video file names for
// catalog matching.
package videoname

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizePath converts a file path into a comparison-safe form:
// forward slashes only, single internal spaces, no leading or trailing
// slashes or whitespace, lower case.
func NormalizePath(p string) string {
	s := strings.ReplaceAll(p, `\`, "/")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, "/ ")
	return strings.ToLower(s)
}

// NormalizeExt lower-cases an extension and guarantees a leading dot.
// An empty input stays empty.
func NormalizeExt(ext string) string {
	s := strings.ToLower(strings.TrimSpace(ext))
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, ".") {
		s = "." + s
	}
	return s
}

// SearchKey builds the normalized key used for fuzzy catalog matching:
// "artist title" lower-cased, accents folded, every run of
// non-alphanumeric characters collapsed to a single space.
func SearchKey(artist, title string) string {
	s := strings.TrimSpace(artist + " " + title)
	s = strings.ToLower(s)
	s = removeAccents(s)
	s = nonAlnumRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

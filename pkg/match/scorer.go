// Package match ranks catalog entries against a search key using fuzzy
// string similarity.
package match

import (
	"math"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Scorer computes a similarity score between two strings in [0,100].
// Implementations must be deterministic and symmetric enough for ranking.
type Scorer interface {
	Score(a, b string) int
}

// TokenScorer scores strings with a best-of ratio over whole-string,
// token-sort, and token-set comparisons, making it tolerant of word
// reordering, partial overlap, and case.
type TokenScorer struct{}

// NewTokenScorer returns the default scorer.
func NewTokenScorer() TokenScorer {
	return TokenScorer{}
}

// Score returns an integer similarity in [0,100]. Either input being
// empty after whitespace folding scores 0.
func (TokenScorer) Score(a, b string) int {
	a = fold(a)
	b = fold(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	whole := similarity(a, b)
	tokenSort := similarity(sortTokens(a), sortTokens(b))
	tokenSet := tokenSetSimilarity(a, b)

	// Token-based comparisons are slightly discounted so an exact
	// whole-string match outranks a reordered one.
	best := whole
	if s := tokenSort * 0.95; s > best {
		best = s
	}
	if s := tokenSet * 0.95; s > best {
		best = s
	}

	score := int(math.Round(best * 100))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// similarity is a Levenshtein-based ratio in [0,1].
func similarity(a, b string) float64 {
	res, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(res)
}

func fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// tokenSetSimilarity compares the sorted token intersection against each
// side's full sorted token set and returns the best ratio. Shared words
// dominate, so a key that is a subset of a longer title still scores high.
func tokenSetSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	var shared, onlyA, onlyB []string
	for tok := range setA {
		if setB[tok] {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(shared, " ")
	full1 := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	full2 := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := similarity(full1, full2)
	if base != "" {
		if s := similarity(base, full1); s > best {
			best = s
		}
		if s := similarity(base, full2); s > best {
			best = s
		}
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

package dedupe

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultCopyMarkers are the case-insensitive substrings that mark a filename
// as a likely copy.
var DefaultCopyMarkers = []string{"copy", "duplicate"}

var numberedCopyPattern = regexp.MustCompile(`\(\d+\)`)

// Candidate is one member of a duplicate group as seen by the keeper heuristic.
type Candidate struct {
	Path string
	Name string
}

// HasCopyMarker reports whether name carries a copy marker: one of markers as a
// case-insensitive substring, or a parenthesized integer such as "(1)".
func HasCopyMarker(name string, markers []string) bool {
	lower := strings.ToLower(name)
	for _, marker := range markers {
		if marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return numberedCopyPattern.MatchString(name)
}

// betterKeeper reports whether a should be kept in preference to b.
func betterKeeper(a, b Candidate, markers []string) bool {
	aMarked, bMarked := HasCopyMarker(a.Name, markers), HasCopyMarker(b.Name, markers)
	if aMarked != bMarked {
		return !aMarked
	}
	aLen, bLen := utf8.RuneCountInString(a.Name), utf8.RuneCountInString(b.Name)
	if aLen != bLen {
		return aLen < bLen
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Path < b.Path
}

// SelectKeeper returns the index of the candidate to keep. The result does not
// depend on the order of candidates. It returns -1 for an empty slice.
func SelectKeeper(candidates []Candidate, markers []string) int {
	if len(candidates) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if betterKeeper(candidates[i], candidates[best], markers) {
			best = i
		}
	}
	return best
}

// RankCandidates returns candidates ordered from best keeper to worst.
func RankCandidates(candidates []Candidate, markers []string) []Candidate {
	ranked := append([]Candidate(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return betterKeeper(ranked[i], ranked[j], markers)
	})
	return ranked
}

// Package fuzzy ranks candidate paths against a typed query.
//
// Matching and scoring come from sahilm/fuzzy: every query character must
// appear in order (case insensitive), with bonuses for hits after a path
// separator and for adjacent runs. Ties are broken by edit distance between
// the query and the candidate's base name, then by path.
package fuzzy

import (
	"path"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	sfuzzy "github.com/sahilm/fuzzy"
)

type Match struct {
	Path     string `json:"path"`
	Score    int    `json:"score"`
	Distance int    `json:"distance"`
	// Positions are byte offsets of the matched characters in Path.
	Positions []int `json:"-"`
}

// Find returns candidates matching query, best first. Whitespace in the
// query is ignored. limit <= 0 means no limit. An empty query matches
// nothing.
func Find(query string, candidates []string, limit int) []Match {
	query = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, query)
	if query == "" {
		return nil
	}
	lq := strings.ToLower(query)

	found := sfuzzy.Find(query, candidates)
	out := make([]Match, 0, len(found))
	for _, m := range found {
		out = append(out, Match{
			Path:      m.Str,
			Score:     m.Score,
			Distance:  levenshtein.ComputeDistance(lq, strings.ToLower(path.Base(toSlash(m.Str)))),
			Positions: m.MatchedIndexes,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Path < out[j].Path
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Paths is a convenience returning only the matched paths.
func Paths(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Path
	}
	return out
}

func toSlash(s string) string {
	return strings.ReplaceAll(s, "\\", "/")
}

/*
search.go - Fuzzy member lookup for the directory listing

PURPOSE:
  Ranks the member directory against a free-text query so treasurers can
  find a member from a partially remembered or misspelled name. Substring
  matches rank first, then close names by edit distance.

SEE ALSO:
  - handlers.go: ListMembers wires ?q= through here
*/
package api

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/unionhall/dues-engine/reconcile"
)

// maxEditDistance bounds how far a non-substring match may drift from the
// query before it is dropped from the results.
const maxEditDistance = 3

// rankMembers filters and orders members by how well their name matches the
// query. Matching is case-insensitive. Substring hits always outrank pure
// edit-distance hits; ties keep directory order.
func rankMembers(members []reconcile.Member, query string) []reconcile.Member {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return members
	}

	type scored struct {
		m    reconcile.Member
		rank int // 0 = prefix, 1 = substring, 2 = fuzzy
		dist int
		pos  int
	}

	var hits []scored
	for i, m := range members {
		name := strings.ToLower(m.FullName)
		switch {
		case strings.HasPrefix(name, q):
			hits = append(hits, scored{m, 0, 0, i})
		case strings.Contains(name, q):
			hits = append(hits, scored{m, 1, 0, i})
		default:
			d := bestWordDistance(name, q)
			if d <= maxEditDistance {
				hits = append(hits, scored{m, 2, d, i})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].pos < hits[j].pos
	})

	out := make([]reconcile.Member, len(hits))
	for i, h := range hits {
		out[i] = h.m
	}
	return out
}

// bestWordDistance compares the query against each word of the name as well
// as the whole name, and returns the smallest edit distance. Matching per
// word lets "mensa" find "Ama Mensah".
func bestWordDistance(name, q string) int {
	best := levenshtein.ComputeDistance(name, q)
	for _, w := range strings.Fields(name) {
		if d := levenshtein.ComputeDistance(w, q); d < best {
			best = d
		}
	}
	return best
}

package server

import (
	"sort"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/guilhermegouw/parley/internal/session"
)

// Search weights: a term found in the title counts twice as much as one
// found only in the messages.
const (
	titleWeight   = 2.0
	messageWeight = 1.0

	snippetWidth = 80
	snippetLead  = 20
	ellipsis     = "…"
)

type document struct {
	chat     *session.Session
	messages []string
}

type hit struct {
	chat    *session.Session
	score   float64
	snippet string
}

// queryTerms returns the distinct lower-cased words of a query.
func queryTerms(query string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if !seen[w] {
			seen[w] = true
			terms = append(terms, w)
		}
	}
	return terms
}

// rank scores each document by term coverage and returns the best limit
// documents with a non-zero score, highest first. Ties keep input order.
func rank(query string, docs []document, limit int) []hit {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil
	}
	best := float64(len(terms)) * (titleWeight + messageWeight)

	var hits []hit
	for _, d := range docs {
		title := strings.ToLower(d.chat.Title)
		lowered := make([]string, len(d.messages))
		for i, m := range d.messages {
			lowered[i] = strings.ToLower(m)
		}

		var total float64
		for _, term := range terms {
			if strings.Contains(title, term) {
				total += titleWeight
			}
			for _, m := range lowered {
				if strings.Contains(m, term) {
					total += messageWeight
					break
				}
			}
		}
		if total == 0 {
			continue
		}
		hits = append(hits, hit{
			chat:    d.chat,
			score:   min(total/best, 1),
			snippet: snippetFor(d.messages, lowered, terms),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// snippetFor cuts a window around the first term hit in the messages, or
// the start of the first message when only the title matched.
func snippetFor(messages, lowered, terms []string) string {
	for i, m := range lowered {
		if !containsAny(m, terms) {
			continue
		}
		text := collapseSpace(messages[i])
		lower := strings.ToLower(text)
		at := -1
		for _, term := range terms {
			if idx := strings.Index(lower, term); idx >= 0 && (at < 0 || idx < at) {
				at = idx
			}
		}
		// Lower-casing can change byte lengths; fall back to the start.
		if at < 0 || len(lower) != len(text) {
			at = 0
		}
		return snippet(text, at)
	}
	if len(messages) > 0 {
		return snippet(collapseSpace(messages[0]), 0)
	}
	return ""
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// snippet returns about snippetWidth grapheme clusters of text starting a
// little before byte offset at, with ellipses where text was cut.
func snippet(text string, at int) string {
	if at < 0 || at > len(text) {
		at = 0
	}

	var starts []int
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		from, _ := gr.Positions()
		starts = append(starts, from)
	}
	n := len(starts)
	if n == 0 {
		return ""
	}

	hitCluster := sort.SearchInts(starts, at+1) - 1
	first := max(hitCluster-snippetLead, 0)
	last := min(first+snippetWidth, n)
	if last-first < snippetWidth {
		first = max(last-snippetWidth, 0)
	}

	end := len(text)
	if last < n {
		end = starts[last]
	}
	out := strings.TrimSpace(text[starts[first]:end])
	if first > 0 {
		out = ellipsis + out
	}
	if last < n {
		out += ellipsis
	}
	return out
}

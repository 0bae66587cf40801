package agent

import (
	"sort"
	"strings"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/models"
)

// SelectionMarker is the literal line prefix the model uses to name the
// claims it wants rendered.
const SelectionMarker = "SHOW_CLAIMS:"

// Selection is the parsed form of a model response on the claims path.
type Selection struct {
	// Lead is the response text with the marker line removed.
	Lead string
	// IDs are the raw identifiers after the marker, trimmed, fabricated or
	// not. Reconcile filters them against the candidate set.
	IDs []string
	// HasMarker distinguishes "marker with no ids" from "no marker at all".
	HasMarker bool
}

// ParseSelection scans the response for a line beginning with SelectionMarker.
// Missing marker is a valid outcome, not an error: the caller degrades to
// showing the text with zero records.
func ParseSelection(response string) Selection {
	var sel Selection
	var lead []string
	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if !sel.HasMarker && strings.HasPrefix(trimmed, SelectionMarker) {
			sel.HasMarker = true
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, SelectionMarker))
			for _, id := range strings.Split(rest, ",") {
				if id = strings.TrimSpace(id); id != "" {
					sel.IDs = append(sel.IDs, id)
				}
			}
			continue
		}
		lead = append(lead, line)
	}
	sel.Lead = strings.TrimSpace(strings.Join(lead, "\n"))
	return sel
}

// Reconcile intersects the selected identifiers against the candidate set and
// returns the matching claims sorted by service date, most recent first.
// Identifiers outside the candidate set are dropped; that intersection is the
// only safeguard against fabricated claim ids, so it must never be skipped.
func Reconcile(sel Selection, candidates []models.Claim) (claims []models.Claim, fabricated int) {
	if !sel.HasMarker || len(sel.IDs) == 0 {
		return nil, 0
	}
	byID := make(map[string]models.Claim, len(candidates))
	for _, c := range candidates {
		byID[c.ClaimID] = c
	}
	seen := make(map[string]bool, len(sel.IDs))
	for _, id := range sel.IDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		c, ok := byID[id]
		if !ok {
			fabricated++
			continue
		}
		claims = append(claims, c)
	}
	sort.SliceStable(claims, func(i, j int) bool {
		return claims[i].ServiceDate.After(claims[j].ServiceDate)
	})
	return claims, fabricated
}

package leads

import (
	"sort"

	"github.com/lendhub/leaddesk/pkg/models"
)

// Rank filters leads by search term and filters, then orders them by
// effective lead score, highest first. Ties keep their input order.
// The input slice is never modified.
func Rank(leads []models.Lead, search string, filters FilterSet) []models.Lead {
	preds := append(filters.Predicates(), SearchPredicate(search))
	out := Filter(leads, preds...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveScore() > out[j].EffectiveScore()
	})
	return out
}

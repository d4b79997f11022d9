package application

import (
	"math"
	"sort"

	"github.com/oksasatya/campus-events/internal/domain/entity"
)

const defaultRecommendationLimit = 3

// Recommend ranks catalog events by TF-IDF cosine similarity between the
// categories in history and each event's category. Events already in
// registered are skipped. Ties keep catalog order. The result is empty when
// history or catalog is.
func Recommend(catalog []entity.Event, history []entity.Category, registered map[int64]bool, limit int) []entity.Event {
	if len(catalog) == 0 || len(history) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	// document frequency: each event is a one-term document
	df := make(map[entity.Category]int)
	for _, e := range catalog {
		df[e.Category]++
	}
	n := float64(len(catalog))
	idf := func(c entity.Category) float64 {
		return math.Log((1+n)/(1+float64(df[c]))) + 1
	}

	tf := make(map[entity.Category]float64)
	for _, c := range history {
		if df[c] > 0 {
			tf[c]++
		}
	}
	user := make(map[entity.Category]float64, len(tf))
	var norm float64
	for c, f := range tf {
		w := f * idf(c)
		user[c] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(catalog))
	for i, e := range catalog {
		var sim float64
		if norm > 0 {
			// the event vector is a unit vector on its own category
			sim = user[e.Category] / norm
		}
		ranked[i] = scored{idx: i, score: sim}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })

	out := make([]entity.Event, 0, limit)
	for _, r := range ranked {
		e := catalog[r.idx]
		if registered[e.ID] {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}

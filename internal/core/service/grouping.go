package service

import (
	"cmp"
	"slices"

	"github.com/officina/workshop-system/internal/core/domain"
)

// TopN is the length of every dashboard ranking.
const TopN = 5

// tally accumulates amounts per key, remembering first-appearance order.
type tally struct {
	keys   []string
	totals map[string]float64
	counts map[string]int
}

func newTally() *tally {
	return &tally{totals: make(map[string]float64), counts: make(map[string]int)}
}

func (t *tally) add(key string, amount float64) {
	if _, seen := t.counts[key]; !seen {
		t.keys = append(t.keys, key)
	}
	t.totals[key] += amount
	t.counts[key]++
}

func (t *tally) total(key string) float64 { return t.totals[key] }
func (t *tally) count(key string) int     { return t.counts[key] }

// sortedKeys returns keys in ascending order, for time-bucketed groups.
func (t *tally) sortedKeys() []string {
	keys := slices.Clone(t.keys)
	slices.Sort(keys)
	return keys
}

// RankTop sorts entries by value descending and keeps the first n. Equal
// values keep their input order.
func RankTop(entries []domain.RankedEntry, n int) []domain.RankedEntry {
	ranked := slices.Clone(entries)
	slices.SortStableFunc(ranked, func(a, b domain.RankedEntry) int {
		return cmp.Compare(b.Value, a.Value)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func sumOf[T any](items []T, f func(T) float64) float64 {
	var total float64
	for _, it := range items {
		total += f(it)
	}
	return total
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

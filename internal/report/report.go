// Package report derives the sales-report and daily-cut aggregates from raw
// sale records: grouped totals per hour of day, per calendar date, and per
// calendar month.
package report

import (
	"sort"

	"github.com/ohana-pos/pos/internal/posapi"
)

// NoDateBucket labels the day/month bucket collecting sales whose timestamp
// could not be resolved. Hour buckets drop such sales instead.
const NoDateBucket = "no date"

type HourBucket struct {
	Hour  int     `json:"hour"`
	Total float64 `json:"total"`
}

type Bucket struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
}

// ByHour sums totals per hour of day, ascending by hour. Sales without a
// usable timestamp are excluded.
func ByHour(sales []posapi.Sale) []HourBucket {
	totals := make(map[int]float64)
	for _, s := range sales {
		when, ok := s.When()
		if !ok {
			continue
		}
		totals[when.Hour()] += s.Total
	}

	buckets := make([]HourBucket, 0, len(totals))
	for hour, total := range totals {
		buckets = append(buckets, HourBucket{Hour: hour, Total: total})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Hour < buckets[j].Hour })
	return buckets
}

// ByDay sums totals per calendar date (YYYY-MM-DD), buckets ordered by the
// first sale that opened them. Undated sales land in NoDateBucket.
func ByDay(sales []posapi.Sale) []Bucket {
	return bucketBy(sales, "2006-01-02")
}

// ByMonth sums totals per calendar month, same ordering and no-date rule
// as ByDay.
func ByMonth(sales []posapi.Sale) []Bucket {
	return bucketBy(sales, "January 2006")
}

func bucketBy(sales []posapi.Sale, layout string) []Bucket {
	var buckets []Bucket
	index := make(map[string]int)

	for _, s := range sales {
		key := NoDateBucket
		if when, ok := s.When(); ok {
			key = when.Format(layout)
		}
		if i, seen := index[key]; seen {
			buckets[i].Total += s.Total
		} else {
			index[key] = len(buckets)
			buckets = append(buckets, Bucket{Key: key, Total: s.Total})
		}
	}
	return buckets
}

// Sum is the plain revenue total over the given sales.
func Sum(sales []posapi.Sale) float64 {
	var total float64
	for _, s := range sales {
		total += s.Total
	}
	return total
}

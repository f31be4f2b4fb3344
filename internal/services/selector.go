package services

import (
	"ambulance-dispatch-service/internal/domain"
	"slices"
)

// SelectNearest returns the result with the smallest distance. Among equal
// distances the earliest entry wins. Empty input yields ErrCandidateUnavailable.
func SelectNearest(results []domain.DistanceResult) (domain.DistanceResult, error) {
	if len(results) == 0 {
		return domain.DistanceResult{}, ErrCandidateUnavailable
	}

	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].DistanceMeters < results[best].DistanceMeters {
			best = i
		}
	}
	return results[best], nil
}

// RankByDistance returns a copy of results ordered nearest first. The sort
// is stable, so ties keep their oracle order and RankByDistance(r)[0] is
// always SelectNearest(r).
func RankByDistance(results []domain.DistanceResult) []domain.DistanceResult {
	ranked := slices.Clone(results)
	slices.SortStableFunc(ranked, func(a, b domain.DistanceResult) int {
		return a.DistanceMeters - b.DistanceMeters
	})
	return ranked
}

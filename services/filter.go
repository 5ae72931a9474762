package services

import (
	"math"

	"rental-explorer/models"
)

// Filter replaces the working set with the subsequence matching all present
// criteria, preserving the records' relative order. Repeated calls compose:
// each filters the already-filtered set, and there is no reset short of
// reloading the dataset.
//
// Coercion policy is deliberately permissive: a malformed price fails the
// range check (the record is dropped, not an error), while malformed
// bedrooms/review values count as 0 against minimum thresholds. Garbage
// numeric input never aborts a filter.
func (s *Store) Filter(c models.Criteria) *Store {
	matched := make([]models.Record, 0, len(s.working))
	for _, rec := range s.working {
		if matches(rec, c) {
			matched = append(matched, rec)
		}
	}

	s.logger.Info("[filter] %d → %d listings", len(s.working), len(matched))
	s.working = matched
	return s
}

func matches(rec models.Record, c models.Criteria) bool {
	if c.PriceRange != nil {
		// NaN fails both comparisons, rejecting malformed prices.
		price := rec.Num(models.FieldPrice)
		if math.IsNaN(price) || price < c.PriceRange.Min || price > c.PriceRange.Max {
			return false
		}
	}
	if c.MinRooms != nil && rec.IntOrZero(models.FieldBedrooms) < *c.MinRooms {
		return false
	}
	if c.MinReviewScore != nil && rec.NumOrZero(models.FieldReviewScore) < *c.MinReviewScore {
		return false
	}
	return true
}

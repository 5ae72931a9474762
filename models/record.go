package models

import (
	"math"
	"strconv"
	"strings"
)

// Conventional field names in a listings dataset. The loader accepts any
// columns; these are the ones the analysis operations consume.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldPrice       = "price"
	FieldBedrooms    = "bedrooms"
	FieldHostID      = "host_id"
	FieldReviewScore = "review_scores_rating"
)

// Record is a single listing row: field name → raw string value, exactly as
// parsed from the input file. Records are never mutated after load — the
// pipeline only filters, reorders, and reads them.
type Record map[string]string

// Num coerces a field to a float64. A malformed or missing value yields NaN,
// which fails every range comparison — the record simply doesn't match.
func (r Record) Num(field string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(r[field]), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// NumOrZero coerces a field to a float64, falling back to 0 for malformed
// or missing values. Used for threshold checks and aggregation sums, where
// dirty data must count as nothing rather than poison the result.
func (r Record) NumOrZero(field string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(r[field]), 64)
	if err != nil {
		return 0
	}
	return v
}

// IntOrZero coerces a field to an int, falling back to 0.
func (r Record) IntOrZero(field string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r[field]))
	if err != nil {
		return 0
	}
	return n
}

// PriceRange is an inclusive [Min, Max] nightly-price bound.
type PriceRange struct {
	Min float64
	Max float64
}

// Criteria is a set of independently-optional filter constraints.
// A nil field imposes no constraint; present fields are ANDed together.
type Criteria struct {
	PriceRange     *PriceRange
	MinRooms       *int
	MinReviewScore *float64
}

// Stats holds the aggregates computed over the current working set.
type Stats struct {
	Count              int
	AvgPricePerBedroom float64
}

// HostRank is one entry in the host ranking: a distinct host_id value and
// how many working-set listings it owns.
type HostRank struct {
	HostID string
	Count  int
}

package services

import (
	"testing"

	"rental-explorer/models"
)

func TestFilterEmptyCriteriaIsIdentity(t *testing.T) {
	s := newTestStore()
	s.Filter(models.Criteria{})
	if s.Size() != 5 {
		t.Errorf("size after empty filter: got %d, want 5", s.Size())
	}
	if got := ids(s.Data()); !sameIDs(got, "L1", "L2", "L3", "L4", "L5") {
		t.Errorf("order after empty filter: got %v", got)
	}
}

func TestFilterPriceRangeInclusive(t *testing.T) {
	s := newTestStore()
	s.Filter(models.Criteria{PriceRange: &models.PriceRange{Min: 50, Max: 200}})
	// Bounds are inclusive: L2 (50) and L1 (200) both pass.
	if got := ids(s.Data()); !sameIDs(got, "L1", "L2", "L3") {
		t.Errorf("price filter: got %v, want [L1 L2 L3]", got)
	}
}

func TestFilterMalformedPriceFailsRange(t *testing.T) {
	s := newTestStore()
	// L5 has price "free" — coerces to NaN and never matches a range.
	s.Filter(models.Criteria{PriceRange: &models.PriceRange{Min: 0, Max: 10000}})
	for _, id := range ids(s.Data()) {
		if id == "L5" {
			t.Error("record with malformed price should not pass a price range")
		}
	}
	if s.Size() != 4 {
		t.Errorf("size: got %d, want 4", s.Size())
	}
}

func TestFilterMinRooms(t *testing.T) {
	tests := []struct {
		min  int
		want []string
	}{
		{0, []string{"L1", "L2", "L3", "L4", "L5"}},
		{2, []string{"L1", "L3", "L4"}},
		{4, []string{"L4"}},
		{9, nil},
	}

	for _, tt := range tests {
		s := newTestStore()
		min := tt.min
		s.Filter(models.Criteria{MinRooms: &min})
		got := ids(s.Data())
		if !sameIDs(got, tt.want...) {
			t.Errorf("MinRooms=%d: got %v, want %v", tt.min, got, tt.want)
		}
	}
}

func TestFilterMinReviewScoreTreatsMissingAsZero(t *testing.T) {
	s := newTestStore()
	score := 4.6
	// L4 has an empty review score (coerces to 0) and must be dropped.
	s.Filter(models.Criteria{MinReviewScore: &score})
	if got := ids(s.Data()); !sameIDs(got, "L1", "L3", "L5") {
		t.Errorf("review filter: got %v, want [L1 L3 L5]", got)
	}
}

func TestFilterCriteriaAreANDed(t *testing.T) {
	s := newTestStore()
	min := 2
	score := 4.8
	s.Filter(models.Criteria{
		PriceRange:     &models.PriceRange{Min: 100, Max: 250},
		MinRooms:       &min,
		MinReviewScore: &score,
	})
	if got := ids(s.Data()); !sameIDs(got, "L1", "L3") {
		t.Errorf("combined filter: got %v, want [L1 L3]", got)
	}
}

func TestFilterComposesIntersectively(t *testing.T) {
	min := 2
	score := 4.8

	sequential := newTestStore()
	sequential.Filter(models.Criteria{MinRooms: &min}).
		Filter(models.Criteria{MinReviewScore: &score})

	combined := newTestStore()
	combined.Filter(models.Criteria{MinRooms: &min, MinReviewScore: &score})

	got := ids(sequential.Data())
	want := ids(combined.Data())
	if !sameIDs(got, want...) {
		t.Errorf("sequential %v != combined %v", got, want)
	}
}

func TestFilterNeverGrowsWorkingSet(t *testing.T) {
	s := newTestStore()
	before := s.Size()
	min := 1
	for i := 0; i < 3; i++ {
		s.Filter(models.Criteria{MinRooms: &min})
		if s.Size() > before {
			t.Fatalf("filter grew the working set: %d → %d", before, s.Size())
		}
		before = s.Size()
	}
}

package airbnb

import (
	"testing"

	"rental-explorer/models"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"$120 night", 120},
		{"฿3,500 /night", 3500},
		{"$450 for 3 nights", 150},
		{"", 0},
		{"free", 0},
		{"$1,200.50", 1200.50},
	}

	for _, tt := range tests {
		if got := parsePrice(tt.raw); got != tt.want {
			t.Errorf("parsePrice(%q) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"4.85", 4.85},
		{"5.0", 5.0},
		{"3.5 (120 reviews)", 3.5},
		{"", 0},
		{"New", 0},
		{"6.0", 0},
	}

	for _, tt := range tests {
		if got := parseRating(tt.raw); got != tt.want {
			t.Errorf("parseRating(%q) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestRoomAndHostIDs(t *testing.T) {
	if got := roomID("https://www.airbnb.com/rooms/12345?adults=2"); got != "12345" {
		t.Errorf("roomID: got %q, want 12345", got)
	}
	if got := roomID("https://www.airbnb.com/s/Bangkok/homes"); got != "" {
		t.Errorf("roomID on non-room URL: got %q, want empty", got)
	}
	if got := hostID("https://www.airbnb.com/users/show/987"); got != "987" {
		t.Errorf("hostID: got %q, want 987", got)
	}
	if got := hostID(""); got != "" {
		t.Errorf("hostID on empty URL: got %q, want empty", got)
	}
}

func TestConvertCards(t *testing.T) {
	cards := []*rawCard{
		{
			Title:    "  Cozy   loft  ",
			Price:    "$360 for 3 nights",
			Rating:   "4.92",
			URL:      "https://www.airbnb.com/rooms/111",
			Bedrooms: "2",
			HostURL:  "https://www.airbnb.com/users/show/42",
		},
		{Title: "No room id", URL: "https://www.airbnb.com/experiences/9"},
	}

	records := convertCards(cards)
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1 (card without room id dropped)", len(records))
	}

	rec := records[0]
	if rec[models.FieldID] != "111" {
		t.Errorf("id: got %q, want 111", rec[models.FieldID])
	}
	if rec[models.FieldName] != "Cozy loft" {
		t.Errorf("name: got %q, want %q", rec[models.FieldName], "Cozy loft")
	}
	if rec[models.FieldPrice] != "120" {
		t.Errorf("price: got %q, want 120", rec[models.FieldPrice])
	}
	if rec[models.FieldHostID] != "42" {
		t.Errorf("host_id: got %q, want 42", rec[models.FieldHostID])
	}
	if rec[models.FieldReviewScore] != "4.92" {
		t.Errorf("review score: got %q, want 4.92", rec[models.FieldReviewScore])
	}
}

func TestScrapedRecordsSurviveCoercion(t *testing.T) {
	cards := []*rawCard{{
		Price:    "$150 night",
		Rating:   "4.5",
		URL:      "https://www.airbnb.com/rooms/7",
		Bedrooms: "3",
	}}

	rec := convertCards(cards)[0]
	if got := rec.NumOrZero(models.FieldPrice); got != 150 {
		t.Errorf("coerced price: got %f, want 150", got)
	}
	if got := rec.IntOrZero(models.FieldBedrooms); got != 3 {
		t.Errorf("coerced bedrooms: got %d, want 3", got)
	}
}

package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"rental-explorer/config"
	"rental-explorer/models"
	"rental-explorer/services"
	"rental-explorer/storage"
	"rental-explorer/utils"
)

func testStore() *services.Store {
	header := []string{"id", "name", "host_id", "price", "bedrooms", "review_scores_rating"}
	records := []models.Record{
		{"id": "L1", "name": "Villa A", "host_id": "H1", "price": "200", "bedrooms": "3", "review_scores_rating": "4.9"},
		{"id": "L2", "name": "Studio B", "host_id": "H2", "price": "50", "bedrooms": "1", "review_scores_rating": "4.5"},
		{"id": "L3", "name": "Loft C", "host_id": "H1", "price": "120", "bedrooms": "2", "review_scores_rating": "4.8"},
		{"id": "L4", "name": "Cabin D", "host_id": "H3", "price": "900", "bedrooms": "4", "review_scores_rating": "4.1"},
	}
	return services.NewStore(header, records, utils.NewLogger())
}

func TestParsePriceRange(t *testing.T) {
	tests := []struct {
		raw  string
		want *models.PriceRange
	}{
		{"100,300", &models.PriceRange{Min: 100, Max: 300}},
		{" 50 , 200 ", &models.PriceRange{Min: 50, Max: 200}},
		{"", nil},
		{"100", nil},
		{"low,high", nil},
		{"100,200,300", nil},
	}

	for _, tt := range tests {
		got := parsePriceRange(tt.raw)
		if (got == nil) != (tt.want == nil) {
			t.Errorf("parsePriceRange(%q) = %v; want %v", tt.raw, got, tt.want)
			continue
		}
		if got != nil && *got != *tt.want {
			t.Errorf("parsePriceRange(%q) = %+v; want %+v", tt.raw, *got, *tt.want)
		}
	}
}

func TestParseOptionalNumbers(t *testing.T) {
	if got := parseIntOpt("3"); got == nil || *got != 3 {
		t.Errorf("parseIntOpt(3): got %v", got)
	}
	if got := parseIntOpt("three"); got != nil {
		t.Errorf("non-numeric input should drop the constraint, got %v", *got)
	}
	if got := parseFloatOpt("4.5"); got == nil || *got != 4.5 {
		t.Errorf("parseFloatOpt(4.5): got %v", got)
	}
	if got := parseFloatOpt(""); got != nil {
		t.Errorf("blank input should drop the constraint, got %v", *got)
	}
}

func TestMenuScriptedSession(t *testing.T) {
	store := testStore()
	exportPath := filepath.Join(t.TempDir(), "view.csv")

	// Filter to 50-200 with at least 1 bedroom, pin L2, export, exit.
	script := strings.Join([]string{
		"1", "50,200", "1", "",
		"5", "L2",
		"4", exportPath,
		"7",
	}, "\n") + "\n"

	var out bytes.Buffer
	menu := New(store, &config.Config{ExportPath: "unused.csv"}, utils.NewLogger(),
		strings.NewReader(script), &out)
	menu.Run()

	if store.Size() != 3 {
		t.Fatalf("filtered size: got %d, want 3", store.Size())
	}

	_, records, err := storage.ReadCSV(exportPath)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("exported records: got %d, want 3", len(records))
	}
	if records[0]["id"] != "L2" {
		t.Errorf("pinned listing should come first, got %q", records[0]["id"])
	}
}

func TestMenuUnknownSelection(t *testing.T) {
	var out bytes.Buffer
	menu := New(testStore(), &config.Config{}, utils.NewLogger(),
		strings.NewReader("9\n7\n"), &out)
	menu.Run()

	if !strings.Contains(out.String(), "Invalid option") {
		t.Error("unknown selection should be reported")
	}
}

func TestMenuEndsOnEOF(t *testing.T) {
	var out bytes.Buffer
	menu := New(testStore(), &config.Config{}, utils.NewLogger(),
		strings.NewReader(""), &out)
	menu.Run() // must return rather than loop forever
}

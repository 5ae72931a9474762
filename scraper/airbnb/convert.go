package airbnb

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"rental-explorer/models"
)

var (
	// priceRegexp captures numeric price values
	priceRegexp = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)
	// nightsRegexp captures "X nights" or "X night" patterns
	nightsRegexp = regexp.MustCompile(`(\d+)\s*nights?`)
	// ratingRegexp captures a numeric rating in the 0.0–5.0 range
	ratingRegexp = regexp.MustCompile(`\b([0-5](?:\.\d{1,2})?)\b`)
	// roomIDRegexp pulls the numeric listing id out of a /rooms/ URL
	roomIDRegexp = regexp.MustCompile(`/rooms/(\d+)`)
	// hostIDRegexp pulls the numeric host id out of a /users/show/ URL
	hostIDRegexp = regexp.MustCompile(`/users/show/(\d+)`)
)

// recordHeader is the column order of scraped datasets.
func recordHeader() []string {
	return []string{
		models.FieldID,
		models.FieldName,
		models.FieldHostID,
		models.FieldPrice,
		models.FieldBedrooms,
		models.FieldReviewScore,
		"url",
	}
}

// convertCards turns raw scraped cards into records with the numeric
// fields normalized to plain numeric strings, so the loaded dataset
// behaves like a file-based one. Cards without a usable listing id are
// dropped.
func convertCards(cards []*rawCard) []models.Record {
	records := make([]models.Record, 0, len(cards))
	for _, c := range cards {
		id := roomID(c.URL)
		if id == "" {
			continue
		}
		records = append(records, models.Record{
			models.FieldID:          id,
			models.FieldName:        normaliseText(c.Title),
			models.FieldHostID:      hostID(c.HostURL),
			models.FieldPrice:       formatFloat(parsePrice(c.Price)),
			models.FieldBedrooms:    strings.TrimSpace(c.Bedrooms),
			models.FieldReviewScore: formatFloat(parseRating(c.Rating)),
			"url":                   strings.TrimSpace(c.URL),
		})
	}
	return records
}

// parsePrice extracts a price and converts multi-night totals to a
// per-night rate. Examples:
//
//	"$150 night" → 150
//	"$450 for 3 nights" → 150
func parsePrice(raw string) float64 {
	raw = strings.ToLower(raw)

	cleaned := strings.ReplaceAll(raw, ",", "")
	match := priceRegexp.FindString(cleaned)
	if match == "" {
		return 0
	}

	total, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}

	nightsMatch := nightsRegexp.FindStringSubmatch(raw)
	if len(nightsMatch) >= 2 {
		nights, err := strconv.Atoi(nightsMatch[1])
		if err == nil && nights > 1 {
			return total / float64(nights)
		}
	}

	return total
}

// parseRating extracts a 0.0–5.0 numeric rating from a raw string.
func parseRating(raw string) float64 {
	match := ratingRegexp.FindStringSubmatch(raw)
	if len(match) < 2 {
		return 0
	}
	val, err := strconv.ParseFloat(match[1], 64)
	if err != nil || val < 0 || val > 5 {
		return 0
	}
	return val
}

func roomID(url string) string {
	match := roomIDRegexp.FindStringSubmatch(url)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

func hostID(url string) string {
	match := hostIDRegexp.FindStringSubmatch(url)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// normaliseText strips leading/trailing whitespace and collapses internal
// whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}

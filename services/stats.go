package services

import (
	"sort"

	"rental-explorer/models"
)

// ComputeStats recomputes the stats snapshot from the current working set,
// overwriting the previous one. The average price per bedroom is the sum of
// coerced prices over the sum of coerced bedroom counts; an all-zero
// bedroom sum yields 0 rather than a division-by-zero Inf/NaN.
func (s *Store) ComputeStats() *Store {
	stats := &models.Stats{Count: len(s.working)}

	var priceSum float64
	var bedroomSum int
	for _, rec := range s.working {
		priceSum += rec.NumOrZero(models.FieldPrice)
		bedroomSum += rec.IntOrZero(models.FieldBedrooms)
	}
	if bedroomSum > 0 {
		stats.AvgPricePerBedroom = priceSum / float64(bedroomSum)
	}

	s.stats = stats
	s.logger.Debug("[stats] count=%d avgPricePerBedroom=%.2f", stats.Count, stats.AvgPricePerBedroom)
	return s
}

// ComputeHostRanking recomputes the host ranking from the current working
// set: one entry per distinct raw host_id value, counts descending. The sort
// is stable over first-encountered order, so ties are deterministic for a
// deterministic input order.
func (s *Store) ComputeHostRanking() *Store {
	counts := make(map[string]int)
	var order []string
	for _, rec := range s.working {
		host := rec[models.FieldHostID]
		if counts[host] == 0 {
			order = append(order, host)
		}
		counts[host]++
	}

	ranking := make([]models.HostRank, 0, len(order))
	for _, host := range order {
		ranking = append(ranking, models.HostRank{HostID: host, Count: counts[host]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})

	s.ranking = ranking
	s.logger.Debug("[stats] ranked %d distinct hosts", len(ranking))
	return s
}

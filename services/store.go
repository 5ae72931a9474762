package services

import (
	"rental-explorer/models"
	"rental-explorer/storage"
	"rental-explorer/utils"
)

// Store owns the working set of listings plus the session's pinned ids.
// Every operation mutates or reads the store and returns the store itself,
// so callers can chain: store.Filter(c).ComputeStats().ComputeHostRanking().
//
// One Store per loaded dataset; it is not safe for concurrent use.
type Store struct {
	logger *utils.Logger

	header  []string
	working []models.Record

	pinnedIDs []string
	pinnedSet map[string]struct{}

	stats   *models.Stats
	ranking []models.HostRank
}

// NewStore creates a store whose working set is the full loaded dataset.
// The header preserves the input column order for export.
func NewStore(header []string, records []models.Record, logger *utils.Logger) *Store {
	return &Store{
		logger:    logger,
		header:    header,
		working:   records,
		pinnedSet: make(map[string]struct{}),
	}
}

// Header returns the column order captured at load time.
func (s *Store) Header() []string { return s.header }

// Size returns the number of records in the current working set.
func (s *Store) Size() int { return len(s.working) }

// Stats returns the snapshot from the last ComputeStats call, or nil if
// stats have not been computed yet.
func (s *Store) Stats() *models.Stats { return s.stats }

// HostRanking returns the ranking from the last ComputeHostRanking call.
func (s *Store) HostRanking() []models.HostRank { return s.ranking }

// PinListing marks a listing id for priority display. Re-pinning an already
// pinned id is a no-op, so insertion order reflects first pin. Pins only
// grow for the lifetime of the store; there is no unpin.
func (s *Store) PinListing(id string) *Store {
	if _, ok := s.pinnedSet[id]; ok {
		return s
	}
	s.pinnedSet[id] = struct{}{}
	s.pinnedIDs = append(s.pinnedIDs, id)
	s.logger.Debug("[store] Pinned listing %s (%d pinned total)", id, len(s.pinnedIDs))
	return s
}

// PinnedListings returns the working-set records whose id is pinned, in
// working-set order. A pinned id filtered out of the working set yields
// nothing — pinning never resurrects hidden records.
func (s *Store) PinnedListings() []models.Record {
	pinned := make([]models.Record, 0, len(s.pinnedIDs))
	for _, rec := range s.working {
		if id, ok := rec[models.FieldID]; ok {
			if _, hit := s.pinnedSet[id]; hit {
				pinned = append(pinned, rec)
			}
		}
	}
	return pinned
}

// Data returns the current view for export: pinned records first, then the
// rest of the working set, each group in working-set order and no record
// appearing twice. With nothing pinned it is the working set unchanged.
func (s *Store) Data() []models.Record {
	if len(s.pinnedIDs) == 0 {
		return s.working
	}

	out := make([]models.Record, 0, len(s.working))
	out = append(out, s.PinnedListings()...)
	for _, rec := range s.working {
		if id, ok := rec[models.FieldID]; ok {
			if _, hit := s.pinnedSet[id]; hit {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

// ExportResults encodes the current view through the given writer. A sink
// failure comes back as an error and leaves the store untouched.
func (s *Store) ExportResults(w storage.RecordWriter) error {
	data := s.Data()
	if err := w.Write(s.header, data); err != nil {
		return err
	}
	s.logger.Info("[store] Exported %d records", len(data))
	return nil
}

package storage

import "rental-explorer/models"

// RecordWriter is the interface any export sink must satisfy. Write
// receives the column order alongside the records because a Record carries
// no order of its own.
type RecordWriter interface {
	Write(header []string, records []models.Record) error
	Close() error
}

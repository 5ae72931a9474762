package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"rental-explorer/models"
)

// PostgresWriter persists the current exported view to PostgreSQL so it can
// be queried outside the session. Each Write replaces the previous view.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection, runs schema migrations, and returns
// a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listing_views (
			id           SERIAL PRIMARY KEY,
			listing_id   TEXT          NOT NULL,
			name         TEXT          NOT NULL DEFAULT '',
			host_id      TEXT          NOT NULL DEFAULT '',
			price        NUMERIC(10,2) NOT NULL DEFAULT 0,
			bedrooms     INT           NOT NULL DEFAULT 0,
			review_score NUMERIC(5,2)  NOT NULL DEFAULT 0,
			exported_at  TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listing_views_host  ON listing_views(host_id);
		CREATE INDEX IF NOT EXISTS idx_listing_views_price ON listing_views(price);
	`)
	return err
}

// Clear deletes the previously stored view.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM listing_views")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write replaces the stored view with the given records. The numeric
// columns use the same permissive coercions as the analysis pipeline, so a
// dirty price lands as 0 instead of failing the insert.
func (pw *PostgresWriter) Write(header []string, records []models.Record) error {
	if err := pw.Clear(); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := pw.insertBatch(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.Record) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*6)

	for idx, rec := range batch {
		base := idx * 6
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6))
		valueArgs = append(valueArgs,
			rec[models.FieldID],
			rec[models.FieldName],
			rec[models.FieldHostID],
			rec.NumOrZero(models.FieldPrice),
			rec.IntOrZero(models.FieldBedrooms),
			rec.NumOrZero(models.FieldReviewScore))
	}

	query := fmt.Sprintf(`
		INSERT INTO listing_views (listing_id, name, host_id, price, bedrooms, review_score)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

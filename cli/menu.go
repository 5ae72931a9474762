package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"rental-explorer/config"
	"rental-explorer/models"
	"rental-explorer/services"
	"rental-explorer/storage"
	"rental-explorer/utils"
)

// Menu is the interactive front end driving the store's pipeline. It only
// collects text input and prints results; all semantics live in the store.
type Menu struct {
	store  *services.Store
	cfg    *config.Config
	logger *utils.Logger
	in     *bufio.Scanner
	out    io.Writer

	pg *storage.PostgresWriter
}

// New creates a menu reading from the given input stream.
func New(store *services.Store, cfg *config.Config, logger *utils.Logger, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		store:  store,
		cfg:    cfg,
		logger: logger,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// Run loops until the user exits or input ends. Operation failures are
// reported and the session continues.
func (m *Menu) Run() {
	for {
		m.printOptions()
		choice, ok := m.prompt("Select an option: ")
		if !ok {
			return
		}

		switch strings.TrimSpace(choice) {
		case "1":
			m.runFilter()
		case "2":
			m.runStats()
		case "3":
			m.runHostRanking()
		case "4":
			m.runExport()
		case "5":
			m.runPin()
		case "6":
			m.runListPinned()
		case "7":
			fmt.Fprintln(m.out, "Bye.")
			return
		case "8":
			m.runPostgresExport()
		default:
			fmt.Fprintf(m.out, "Invalid option %q — enter 1-8.\n", strings.TrimSpace(choice))
		}
	}
}

func (m *Menu) printOptions() {
	fmt.Fprintf(m.out, "\n\033[1;35m── Rental Explorer ─────────────────────\033[0m\n")
	fmt.Fprintf(m.out, "  Current view: \033[1m%d\033[0m listings\n\n", m.store.Size())
	fmt.Fprintln(m.out, "  1. Filter listings")
	fmt.Fprintln(m.out, "  2. Compute statistics")
	fmt.Fprintln(m.out, "  3. Compute host ranking")
	fmt.Fprintln(m.out, "  4. Export results to CSV")
	fmt.Fprintln(m.out, "  5. Pin a listing by id")
	fmt.Fprintln(m.out, "  6. List pinned listings")
	fmt.Fprintln(m.out, "  7. Exit")
	fmt.Fprintln(m.out, "  8. Store current view in PostgreSQL")
	fmt.Fprintln(m.out)
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

// runFilter collects the optional criteria. Blank or non-numeric input for
// a parameter drops that constraint; it is never an error.
func (m *Menu) runFilter() {
	criteria := models.Criteria{}

	if raw, ok := m.prompt("Price range as min,max (blank = none): "); ok {
		criteria.PriceRange = parsePriceRange(raw)
	}
	if raw, ok := m.prompt("Minimum bedrooms (blank = none): "); ok {
		criteria.MinRooms = parseIntOpt(raw)
	}
	if raw, ok := m.prompt("Minimum review score (blank = none): "); ok {
		criteria.MinReviewScore = parseFloatOpt(raw)
	}

	m.store.Filter(criteria)
	fmt.Fprintf(m.out, "View narrowed to %d listings.\n", m.store.Size())
}

func (m *Menu) runStats() {
	stats := m.store.ComputeStats().Stats()
	fmt.Fprintf(m.out, "\n\033[1;33m  Statistics\033[0m\n")
	fmt.Fprintf(m.out, "  Listings in view       : \033[1m%d\033[0m\n", stats.Count)
	fmt.Fprintf(m.out, "  Avg price per bedroom  : \033[1;32m$%.2f\033[0m\n", stats.AvgPricePerBedroom)
}

func (m *Menu) runHostRanking() {
	ranking := m.store.ComputeHostRanking().HostRanking()
	fmt.Fprintf(m.out, "\n\033[1;33m  Hosts by listing count\033[0m\n")
	if len(ranking) == 0 {
		fmt.Fprintln(m.out, "  No listings in view")
		return
	}
	for _, entry := range ranking {
		host := entry.HostID
		if host == "" {
			host = "(no host id)"
		}
		bar := entry.Count
		if bar > 40 {
			bar = 40
		}
		fmt.Fprintf(m.out, "  %-20s %s (%d)\n", host, strings.Repeat("█", bar), entry.Count)
	}
}

func (m *Menu) runExport() {
	path, ok := m.prompt(fmt.Sprintf("Destination file (blank = %s): ", m.cfg.ExportPath))
	if !ok {
		return
	}
	path = strings.TrimSpace(path)
	if path == "" {
		path = m.cfg.ExportPath
	}

	w, err := storage.NewCSVWriter(path)
	if err != nil {
		m.logger.Error("Export failed: %v", err)
		return
	}
	defer w.Close()

	if err := m.store.ExportResults(w); err != nil {
		m.logger.Error("Export failed: %v", err)
		return
	}
	fmt.Fprintf(m.out, "Exported current view to %s\n", path)
}

func (m *Menu) runPin() {
	id, ok := m.prompt("Listing id to pin: ")
	if !ok {
		return
	}
	id = strings.TrimSpace(id)
	if id == "" {
		fmt.Fprintln(m.out, "No id given — nothing pinned.")
		return
	}
	m.store.PinListing(id)
	fmt.Fprintf(m.out, "Pinned %s.\n", id)
}

func (m *Menu) runListPinned() {
	pinned := m.store.PinnedListings()
	if len(pinned) == 0 {
		fmt.Fprintln(m.out, "No pinned listings in the current view.")
		return
	}
	fmt.Fprintf(m.out, "\n\033[1;33m  Pinned listings (%d)\033[0m\n", len(pinned))
	for _, rec := range pinned {
		fmt.Fprintf(m.out, "  %-12s %-40s $%s\n",
			rec[models.FieldID], rec[models.FieldName], rec[models.FieldPrice])
	}
}

// runPostgresExport connects lazily on first use so the tool works without
// a database.
func (m *Menu) runPostgresExport() {
	if m.pg == nil {
		pg, err := storage.NewPostgresWriter(m.cfg.DSN())
		if err != nil {
			m.logger.Error("PostgreSQL connect failed: %v", err)
			return
		}
		m.pg = pg
	}

	if err := m.store.ExportResults(m.pg); err != nil {
		m.logger.Error("PostgreSQL export failed: %v", err)
		return
	}
	fmt.Fprintln(m.out, "Current view stored in PostgreSQL (table: listing_views).")
}

// Close releases the lazily opened database connection, if any.
func (m *Menu) Close() error {
	if m.pg != nil {
		return m.pg.Close()
	}
	return nil
}

// parsePriceRange parses "min,max". Anything malformed means no constraint.
func parsePriceRange(raw string) *models.PriceRange {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 2 {
		return nil
	}
	min, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	max, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	return &models.PriceRange{Min: min, Max: max}
}

func parseIntOpt(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &n
}

func parseFloatOpt(raw string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}
	return &f
}

package main

import (
	"fmt"
	"os"

	"rental-explorer/cli"
	"rental-explorer/config"
	"rental-explorer/scraper/airbnb"
	"rental-explorer/services"
	"rental-explorer/storage"
	"rental-explorer/utils"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <listings.csv>\n", os.Args[0])
		os.Exit(2)
	}
	inputPath := os.Args[1]

	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetDebug(cfg.Debug)

	logger.Info("=== Rental Explorer starting ===")

	if _, err := os.Stat(inputPath); os.IsNotExist(err) && cfg.ScrapeOnMissing {
		logger.Info("Input %s not found — scraping a fresh dataset", inputPath)
		if err := scrapeDataset(cfg, logger, inputPath); err != nil {
			logger.Error("Scrape failed: %v", err)
			os.Exit(1)
		}
	}

	header, records, err := storage.ReadCSV(inputPath)
	if err != nil {
		logger.Error("Failed to load dataset: %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded %d listings (%d columns) from %s", len(records), len(header), inputPath)

	store := services.NewStore(header, records, logger)

	menu := cli.New(store, cfg, logger, os.Stdin, os.Stdout)
	defer menu.Close()
	menu.Run()
}

// scrapeDataset fetches live listings and saves them to the input path, so
// the normal load path takes over from there.
func scrapeDataset(cfg *config.Config, logger *utils.Logger, path string) error {
	scraper := airbnb.New(cfg, logger)
	header, records, err := scraper.Scrape()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("scrape returned no listings")
	}

	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Write(header, records); err != nil {
		return err
	}
	logger.Info("Scraped dataset saved to %s (%d listings)", path, len(records))
	return nil
}

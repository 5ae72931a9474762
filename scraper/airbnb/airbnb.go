package airbnb

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"rental-explorer/config"
	"rental-explorer/models"
	"rental-explorer/utils"
)

const startURL = "https://www.airbnb.com/"

// rawCard holds the unprocessed strings pulled out of a search-result card
// or detail page before conversion into a Record.
type rawCard struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	Rating   string `json:"rating"`
	URL      string `json:"url"`
	Bedrooms string `json:"bedrooms"`
	HostURL  string `json:"hostUrl"`
}

// Scraper fetches live listings and converts them into the analyzer's
// record schema. It is the fallback dataset source when no input file
// exists yet.
type Scraper struct {
	cfg        *config.Config
	logger     *utils.Logger
	pool       *utils.WorkerPool
	visitedURL *utils.URLSet
	retry      *utils.RetryConfig

	mu    sync.Mutex
	cards []*rawCard
}

// New creates a ready-to-use Airbnb Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:        cfg,
		logger:     logger,
		pool:       utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		visitedURL: utils.NewURLSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Scrape drives pagination and detail-page enrichment, then converts the
// collected cards to records. The returned header matches the record schema.
func (s *Scraper) Scrape() ([]string, []models.Record, error) {
	s.logger.Info("[airbnb] Starting scrape — target: %d pages, %d listings/page",
		s.cfg.PagesToScrape, s.cfg.ListingsPerPage)

	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Info("[airbnb] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	allocCtx, cancelSilent := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelSilent()

	searchURL, err := s.findSearchLink(allocCtx)
	if err != nil {
		return nil, nil, fmt.Errorf("could not find a search results page: %w", err)
	}
	s.logger.Info("[airbnb] Search URL: %s", searchURL)

	currentURL := searchURL
	for page := 1; page <= s.cfg.PagesToScrape; page++ {
		pageCards, nextURL, err := s.scrapePage(allocCtx, currentURL, page)
		if err != nil {
			s.logger.Error("[airbnb] Page %d failed: %v", page, err)
			break
		}
		if len(pageCards) == 0 {
			s.logger.Warn("[airbnb] Page %d returned 0 listings — stopping", page)
			break
		}

		s.enrichCards(allocCtx, pageCards)

		s.mu.Lock()
		s.cards = append(s.cards, pageCards...)
		s.mu.Unlock()
		s.logger.Info("[airbnb] Page %d done — %d cards so far", page, len(s.cards))

		if nextURL == "" {
			break
		}
		currentURL = nextURL
		time.Sleep(time.Duration(s.cfg.RateLimitMs) * time.Millisecond)
	}

	records := convertCards(s.cards)
	s.logger.Info("[airbnb] Scrape complete — %d records", len(records))
	return recordHeader(), records, nil
}

// findSearchLink navigates to the homepage and extracts a search results
// URL from the "Popular homes" carousel, falling back to a fixed search.
func (s *Scraper) findSearchLink(allocCtx context.Context) (string, error) {
	var searchURL string

	err := s.retry.Do("find-search-link", func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		var foundURL string
		err := chromedp.Run(ctx,
			chromedp.Navigate(startURL),
			chromedp.Sleep(5*time.Second),
			chromedp.Evaluate(`
				(function() {
					var headings = document.querySelectorAll('h2, h3, div[role="heading"]');
					for (var i = 0; i < headings.length; i++) {
						var text = headings[i].textContent || '';
						if (!text.toLowerCase().includes('popular homes in')) continue;
						var section = headings[i].closest('section') || headings[i].parentElement;
						if (!section) continue;
						var showAll = section.querySelector('a[href*="/s/"]');
						if (showAll && showAll.href) return showAll.href;
						var m = text.match(/popular homes in ([^<]+)/i);
						if (m) return 'https://www.airbnb.com/s/' + encodeURIComponent(m[1].trim()) + '/homes';
					}
					var any = document.querySelector('a[href*="/s/"]');
					return any ? any.href : '';
				})()
			`, &foundURL),
		)
		if err != nil {
			return fmt.Errorf("chromedp evaluate: %w", err)
		}

		if foundURL == "" {
			s.logger.Warn("[airbnb] No popular homes section found, using Bangkok fallback")
			foundURL = "https://www.airbnb.com/s/Bangkok/homes"
		}
		searchURL = foundURL
		return nil
	})

	return searchURL, err
}

// scrapePage loads one search results page and extracts listing cards plus
// the next-page link.
func (s *Scraper) scrapePage(allocCtx context.Context, pageURL string, pageNum int) ([]*rawCard, string, error) {
	var cards []*rawCard
	var nextURL string

	err := s.retry.Do(fmt.Sprintf("scrape-page-%d", pageNum), func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 90*time.Second)
		defer cancelTimeout()

		var extracted []rawCard
		var nextPageURL string

		err := chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			chromedp.Sleep(6*time.Second),
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(2*time.Second),
			chromedp.Evaluate(`
				(function() {
					var results = [];
					var limit = `+fmt.Sprintf("%d", s.cfg.ListingsPerPage)+`;
					var cards = document.querySelectorAll('[data-testid="card-container"], [itemprop="itemListElement"]');
					var seen = {};
					for (var i = 0; i < cards.length && results.length < limit; i++) {
						var card = cards[i];
						var linkEl = card.querySelector('a[href*="/rooms/"]');
						var url = linkEl ? linkEl.href : '';
						if (!url || seen[url]) continue;
						seen[url] = true;

						var titleEl = card.querySelector('[data-testid="listing-card-title"]');
						var priceEl = card.querySelector('[data-testid="price-availability-row"]') ||
						              card.querySelector('span[class*="price"]');
						var price = '';
						if (priceEl) {
							var pm = priceEl.innerText.match(/(\$|฿|€|£)\s*[\d,]+/);
							price = pm ? pm[0] : priceEl.innerText.split('\n')[0];
						}
						var ratingEl = card.querySelector('[aria-label*="rating"]');
						var rating = '';
						if (ratingEl) {
							var rm = (ratingEl.innerText || ratingEl.getAttribute('aria-label') || '').match(/(\d\.\d+)/);
							rating = rm ? rm[1] : '';
						}

						results.push({
							title:  titleEl ? titleEl.innerText.trim() : '',
							price:  price,
							rating: rating,
							url:    url
						});
					}
					return results;
				})()
			`, &extracted),
			chromedp.Evaluate(`
				(function() {
					var next = document.querySelector('a[aria-label="Next"]') ||
					           document.querySelector('[data-testid="pagination-next-button"]');
					return next && next.href ? next.href : '';
				})()
			`, &nextPageURL),
		)
		if err != nil {
			return fmt.Errorf("chromedp page scrape: %w", err)
		}

		s.logger.Debug("[airbnb] Page %d — found %d cards", pageNum, len(extracted))

		cards = cards[:0]
		for i := range extracted {
			c := extracted[i]
			if c.URL == "" || !s.visitedURL.Add(c.URL) {
				continue
			}
			cards = append(cards, &c)
		}

		nextURL = nextPageURL
		return nil
	})

	return cards, nextURL, err
}

// enrichCards visits detail pages concurrently to fill in bedrooms and the
// host profile link, which search-result cards do not carry.
func (s *Scraper) enrichCards(allocCtx context.Context, cards []*rawCard) {
	for _, card := range cards {
		c := card
		s.pool.Submit(func() {
			detail, err := s.scrapeDetailPage(allocCtx, c.URL)
			if err != nil {
				s.logger.Warn("[airbnb] Detail page failed for %s: %v", c.URL, err)
				return
			}
			if c.Title == "" {
				c.Title = detail.Title
			}
			if c.Price == "" {
				c.Price = detail.Price
			}
			if c.Rating == "" {
				c.Rating = detail.Rating
			}
			c.Bedrooms = detail.Bedrooms
			c.HostURL = detail.HostURL
			s.logger.Debug("[airbnb] Enriched: %s", c.Title)
		})
	}
	s.pool.Wait()
}

// scrapeDetailPage extracts full information from a property detail page.
func (s *Scraper) scrapeDetailPage(allocCtx context.Context, url string) (*rawCard, error) {
	detail := &rawCard{URL: url}

	err := s.retry.Do("detail-page", func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		var extracted rawCard
		err := chromedp.Run(ctx,
			chromedp.Navigate(url),
			chromedp.Sleep(4*time.Second),
			chromedp.Evaluate(`
				(function() {
					var result = { title: '', price: '', rating: '', bedrooms: '', hostUrl: '' };

					var titleEl = document.querySelector('h1');
					if (titleEl) result.title = titleEl.innerText.trim();

					var priceEl = document.querySelector('span[class*="price"]') ||
					              document.querySelector('[data-testid="book-it-default"] span');
					if (priceEl) {
						var pm = priceEl.innerText.match(/(\$|฿|€|£)\s*[\d,]+/);
						result.price = pm ? pm[0] : priceEl.innerText;
					}

					var ratingEl = document.querySelector('button[aria-label*="rating"]');
					if (ratingEl) {
						var rm = (ratingEl.innerText || ratingEl.getAttribute('aria-label') || '').match(/(\d\.\d+)/);
						result.rating = rm ? rm[1] : '';
					}

					// Overview line: "4 guests · 2 bedrooms · 2 beds · 1 bath"
					var bm = document.body.innerText.match(/(\d+)\s*bedrooms?/i);
					if (bm) result.bedrooms = bm[1];

					var hostEl = document.querySelector('a[href*="/users/show/"]');
					if (hostEl) result.hostUrl = hostEl.href;

					return result;
				})()
			`, &extracted),
		)
		if err != nil {
			return fmt.Errorf("chromedp detail extract: %w", err)
		}

		detail.Title = extracted.Title
		detail.Price = extracted.Price
		detail.Rating = extracted.Rating
		detail.Bedrooms = extracted.Bedrooms
		detail.HostURL = extracted.HostURL
		return nil
	})

	return detail, err
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

package feed

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/mmcdole/gofeed"

	"github.com/project-tktt/jobscout/internal/common/normalizer"
	"github.com/project-tktt/jobscout/internal/domain"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultTimeout   = 15 * time.Second
)

var xmlEncodingDecl = regexp.MustCompile(`^(\s*<\?xml[^>]*?encoding\s*=\s*["'])[^"']*(["'])`)

// Config holds feed fetching configuration
type Config struct {
	UserAgent string
	Timeout   time.Duration
	// ProxyURL routes feed requests through an HTTP proxy when set
	ProxyURL string
}

// Scraper fetches RSS/Atom/JSON feeds and turns entries into jobs
type Scraper struct {
	collector  *colly.Collector
	normalizer *normalizer.Normalizer
	config     Config
}

// NewScraper creates a new feed scraper
func NewScraper(norm *normalizer.Normalizer, cfg Config) *Scraper {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
		// status is checked in fetch so every 2xx counts as success
		colly.ParseHTTPErrorResponse(),
	)
	c.SetRequestTimeout(cfg.Timeout)

	// Set proxy if configured
	if cfg.ProxyURL != "" {
		if err := c.SetProxy(cfg.ProxyURL); err != nil {
			log.Printf("[Feed] Ignoring invalid proxy %q: %v", cfg.ProxyURL, err)
		}
	}

	return &Scraper{
		collector:  c,
		normalizer: norm,
		config:     cfg,
	}
}

func (s *Scraper) Strategy() domain.Strategy {
	return domain.StrategyFeed
}

// Scrape fetches and parses the source's feed. Any network, status or parse
// failure yields no jobs.
func (s *Scraper) Scrape(ctx context.Context, src domain.Source) ([]*domain.Job, error) {
	log.Printf("[Feed] Fetching content from %s...", src.Name)

	body, err := s.fetch(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src.Name, err)
	}

	parsed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.Name, err)
	}

	jobs := make([]*domain.Job, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}

		job, err := s.normalizer.Normalize(src.Name, normalizer.Raw{
			Title:              item.Title,
			Link:               itemLink(item),
			Published:          item.Published,
			Company:            itemCompany(item),
			Description:        itemDescription(item),
			DescriptionDefault: domain.DefaultFeedDescription,
		})
		if err != nil {
			log.Printf("[Feed] Skipping entry from %s: %v", src.Name, err)
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func (s *Scraper) fetch(ctx context.Context, url string) (string, error) {
	var body []byte
	var fetchErr error

	collector := s.collector.Clone()
	collector.Context = ctx

	collector.OnResponse(func(r *colly.Response) {
		if r.StatusCode < 200 || r.StatusCode >= 300 {
			fetchErr = fmt.Errorf("unexpected status: %d", r.StatusCode)
			return
		}
		body = r.Body
		if transcoded(r.Headers.Get("Content-Type")) {
			// colly already decoded the body with the header charset
			body = xmlEncodingDecl.ReplaceAll(body, []byte("${1}UTF-8${2}"))
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("colly error: %w (status: %d)", err, r.StatusCode)
	})

	if err := collector.Visit(url); err != nil {
		if fetchErr != nil {
			return "", fetchErr
		}
		return "", fmt.Errorf("visit url: %w", err)
	}

	if fetchErr != nil {
		return "", fetchErr
	}

	return string(body), nil
}

// transcoded reports whether colly converted the body to UTF-8, which it
// does whenever the Content-Type header names a non-UTF-8 charset
func transcoded(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "charset") && !strings.Contains(ct, "utf-8") && !strings.Contains(ct, "utf8")
}

func itemLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if len(item.Links) > 0 && item.Links[0] != "" {
		return item.Links[0]
	}
	// some feeds only carry a permalink GUID
	if strings.HasPrefix(item.GUID, "http://") || strings.HasPrefix(item.GUID, "https://") {
		return item.GUID
	}
	return ""
}

// itemCompany prefers the author, then the dublin-core creator
func itemCompany(item *gofeed.Item) string {
	for _, a := range item.Authors {
		if a == nil {
			continue
		}
		if name := strings.TrimSpace(a.Name); name != "" {
			return name
		}
	}
	if item.DublinCoreExt != nil {
		for _, creator := range item.DublinCoreExt.Creator {
			if c := strings.TrimSpace(creator); c != "" {
				return c
			}
		}
	}
	return ""
}

func itemDescription(item *gofeed.Item) string {
	if strings.TrimSpace(item.Description) != "" {
		return item.Description
	}
	return item.Content
}

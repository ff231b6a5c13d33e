package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/project-tktt/jobscout/internal/common/normalizer"
	"github.com/project-tktt/jobscout/internal/domain"
)

const (
	DefaultNavigationTimeout = 60 * time.Second
	DefaultSelectorTimeout   = 30 * time.Second
	// DefaultMaxCards limits cards per source to keep scrapes cheap for the site
	DefaultMaxCards = 20
)

var errMissingField = errors.New("required field missing")

// Config holds browser scraping configuration
type Config struct {
	NavigationTimeout time.Duration
	SelectorTimeout   time.Duration
	MaxCards          int
}

// Scraper renders a page and extracts one job per card
type Scraper struct {
	renderer   Renderer
	normalizer *normalizer.Normalizer
	config     Config
}

// NewScraper creates a new browser scraper
func NewScraper(renderer Renderer, norm *normalizer.Normalizer, cfg Config) *Scraper {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DefaultNavigationTimeout
	}
	if cfg.SelectorTimeout <= 0 {
		cfg.SelectorTimeout = DefaultSelectorTimeout
	}
	if cfg.MaxCards <= 0 {
		cfg.MaxCards = DefaultMaxCards
	}

	return &Scraper{
		renderer:   renderer,
		normalizer: norm,
		config:     cfg,
	}
}

func (s *Scraper) Strategy() domain.Strategy {
	return domain.StrategyBrowser
}

// Scrape renders the source page and extracts up to MaxCards jobs. A card
// that cannot be parsed is skipped; launch, navigation and missing card
// failures abort the whole source.
func (s *Scraper) Scrape(ctx context.Context, src domain.Source) ([]*domain.Job, error) {
	log.Printf("[Browser] Launching %s browser to scrape %s...", s.renderer.Name(), src.Name)

	page, err := s.renderer.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			log.Printf("[Browser] Close session for %s: %v", src.Name, cerr)
		}
	}()

	if err := page.Goto(ctx, src.URL, s.config.NavigationTimeout); err != nil {
		return nil, fmt.Errorf("goto %s: %w", src.URL, err)
	}

	sel := src.Selectors
	if err := page.WaitFor(ctx, sel.JobCard, s.config.SelectorTimeout); err != nil {
		return nil, fmt.Errorf("wait for %q: %w", sel.JobCard, err)
	}

	cards, err := page.All(sel.JobCard)
	if err != nil {
		return nil, fmt.Errorf("locate cards: %w", err)
	}
	log.Printf("[Browser] Found %d potential job cards on %s", len(cards), src.Name)

	if len(cards) > s.config.MaxCards {
		cards = cards[:s.config.MaxCards]
	}

	jobs := make([]*domain.Job, 0, len(cards))
	for i, card := range cards {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		job, err := s.extractCard(src, card)
		if err != nil {
			if !errors.Is(err, errMissingField) {
				log.Printf("[Browser] Could not parse job card %d for %s: %v", i, src.Name, err)
			}
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func (s *Scraper) extractCard(src domain.Source, card Node) (*domain.Job, error) {
	sel := src.Selectors

	titleNode, err := first(card, sel.Title)
	if err != nil {
		return nil, err
	}
	linkNode, err := first(card, sel.Link)
	if err != nil {
		return nil, err
	}

	title, err := titleNode.Text()
	if err != nil {
		return nil, fmt.Errorf("title text: %w", err)
	}
	href, err := linkNode.Attr("href")
	if err != nil {
		return nil, fmt.Errorf("link href: %w", err)
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(href) == "" {
		return nil, errMissingField
	}

	return s.normalizer.Normalize(src.Name, normalizer.Raw{
		Title:              title,
		Link:               resolveLink(src.BaseURL, href),
		Company:            optionalText(card, sel.Company),
		Description:        optionalText(card, sel.Description),
		Location:           optionalText(card, sel.Location),
		DescriptionDefault: domain.DefaultCardDescription,
	})
}

// first returns the first match of a required selector inside card
func first(card Node, selector string) (Node, error) {
	nodes, err := card.All(selector)
	if err != nil {
		return nil, fmt.Errorf("locate %q: %w", selector, err)
	}
	if len(nodes) == 0 {
		return nil, errMissingField
	}
	return nodes[0], nil
}

// optionalText never fails: any lookup problem means "not available"
func optionalText(card Node, selector string) string {
	if selector == "" {
		return ""
	}
	nodes, err := card.All(selector)
	if err != nil || len(nodes) == 0 {
		return ""
	}
	text, err := nodes[0].Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// resolveLink makes href absolute using the source's base URL
func resolveLink(baseURL, href string) string {
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err == nil && ref.IsAbs() {
		return href
	}
	if baseURL == "" {
		return href
	}

	base, err := url.Parse(baseURL)
	if err != nil || ref == nil {
		return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(href, "/")
	}
	return base.ResolveReference(ref).String()
}

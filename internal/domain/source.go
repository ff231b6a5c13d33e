package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy identifies how a source is scraped
type Strategy string

const (
	StrategyFeed    Strategy = "rss"
	StrategyBrowser Strategy = "browser"
)

var ErrUnknownStrategy = errors.New("unknown scraping strategy")

// ParseStrategy maps a configured type tag to a Strategy
func ParseStrategy(tag string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "rss", "feed", "atom":
		return StrategyFeed, nil
	case "browser":
		return StrategyBrowser, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, tag)
	}
}

// Selectors are CSS selectors for extracting job cards from a rendered page
type Selectors struct {
	JobCard     string `yaml:"job_card"`
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Company     string `yaml:"company"`
	Description string `yaml:"description"`
	Location    string `yaml:"location"`
}

// Source describes one external origin of job postings.
// Sources are loaded once per run and never modified by the pipeline.
type Source struct {
	Name      string    `yaml:"name"`
	Strategy  Strategy  `yaml:"type"`
	URL       string    `yaml:"url"`
	BaseURL   string    `yaml:"base_url"`
	Selectors Selectors `yaml:"selectors"`
}

// Validate checks the fields required by the source's strategy
func (s Source) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("source name is required")
	}
	if strings.TrimSpace(s.URL) == "" {
		return fmt.Errorf("source %q: url is required", s.Name)
	}
	if s.Strategy == StrategyBrowser {
		sel := s.Selectors
		if sel.JobCard == "" || sel.Title == "" || sel.Link == "" {
			return fmt.Errorf("source %q: job_card, title and link selectors are required", s.Name)
		}
	}
	return nil
}

// Identity returns the key used to detect the same source listed twice
func (s Source) Identity() string {
	return string(s.Strategy) + "|" + strings.TrimSpace(s.URL)
}

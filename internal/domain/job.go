package domain

import (
	"errors"
	"strings"
	"time"
)

// Default values used when a source does not expose a field
const (
	DefaultCompany         = "Not Specified"
	DefaultLocation        = "Not Specified"
	DefaultFeedDescription = "No description available."
	DefaultCardDescription = "No description"
)

var (
	ErrMissingTitle  = errors.New("job title is required")
	ErrMissingSource = errors.New("job source is required")
)

// Job represents a normalized job posting from any source
type Job struct {
	Title            string    `json:"title"`
	Link             string    `json:"link"` // canonical identity, unique in the store
	PublishedDate    *string   `json:"published_date"`
	Source           string    `json:"source"`
	Company          string    `json:"company"`
	Description      string    `json:"description"`
	Location         string    `json:"location"`
	LocationCategory string    `json:"location_category"`
	JobRole          string    `json:"job_role"`
	ExperienceLevel  string    `json:"experience_level"`
	ScrapedAt        time.Time `json:"scraped_at"`
}

// NewJob creates a job with default optional fields.
// The link may be empty here; such records are dropped before persistence.
func NewJob(title, link, source string) (*Job, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrMissingTitle
	}
	if strings.TrimSpace(source) == "" {
		return nil, ErrMissingSource
	}

	return &Job{
		Title:       title,
		Link:        strings.TrimSpace(link),
		Source:      source,
		Company:     DefaultCompany,
		Description: DefaultFeedDescription,
		Location:    DefaultLocation,
		ScrapedAt:   time.Now().UTC(),
	}, nil
}

// Key returns the deduplication key of the job
func (j *Job) Key() string {
	return j.Link
}

// HasLink reports whether the job can be keyed in the store
func (j *Job) HasLink() bool {
	return j.Link != ""
}

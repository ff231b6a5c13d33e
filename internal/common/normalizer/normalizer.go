package normalizer

import (
	"strings"

	"github.com/project-tktt/jobscout/internal/classifier"
	"github.com/project-tktt/jobscout/internal/common/cleaner"
	"github.com/project-tktt/jobscout/internal/domain"
)

// Raw holds the fields a scraper managed to extract for one posting.
// Empty strings mean "not available".
type Raw struct {
	Title       string
	Link        string
	Published   string
	Company     string
	Description string
	Location    string

	// DescriptionDefault replaces an empty description; feeds and cards
	// use different wording.
	DescriptionDefault string
}

// Normalizer converts raw extracted fields into a classified domain.Job
type Normalizer struct {
	classifier *classifier.Classifier
	cleaner    *cleaner.Cleaner
}

// NewNormalizer creates a new normalizer. A nil classifier uses the defaults.
func NewNormalizer(c *classifier.Classifier, cl *cleaner.Cleaner) *Normalizer {
	if c == nil {
		c = classifier.Default
	}
	if cl == nil {
		cl = cleaner.NewCleaner()
	}
	return &Normalizer{classifier: c, cleaner: cl}
}

// Normalize builds a job for the given source. It fails only when the title
// is unusable.
func (n *Normalizer) Normalize(source string, raw Raw) (*domain.Job, error) {
	job, err := domain.NewJob(n.cleaner.CleanToText(raw.Title), raw.Link, source)
	if err != nil {
		return nil, err
	}

	if published := strings.TrimSpace(raw.Published); published != "" {
		job.PublishedDate = &published
	}

	job.Company = n.cleaner.Text(raw.Company, domain.DefaultCompany)
	job.Location = n.cleaner.Text(raw.Location, domain.DefaultLocation)

	descDefault := raw.DescriptionDefault
	if descDefault == "" {
		descDefault = domain.DefaultFeedDescription
	}
	job.Description = n.cleaner.Text(raw.Description, descDefault)

	job.JobRole = n.classifier.ClassifyRole(job.Title)
	job.ExperienceLevel = n.classifier.ClassifyExperience(job.Title)
	job.LocationCategory = n.classifier.ClassifyLocation(job.Title, n.locationText(job))

	return job, nil
}

// locationText is what location classification reads besides the title.
// Defaults are placeholders, not text.
func (n *Normalizer) locationText(job *domain.Job) string {
	var parts []string
	if job.Location != domain.DefaultLocation {
		parts = append(parts, job.Location)
	}
	if job.Description != domain.DefaultFeedDescription && job.Description != domain.DefaultCardDescription {
		parts = append(parts, job.Description)
	}
	return strings.Join(parts, " ")
}

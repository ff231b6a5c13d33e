package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJob_Defaults(t *testing.T) {
	job, err := NewJob("  Senior Backend Engineer ", " http://ok/1 ", "X")
	require.NoError(t, err)

	assert.Equal(t, "Senior Backend Engineer", job.Title)
	assert.Equal(t, "http://ok/1", job.Link)
	assert.Equal(t, "X", job.Source)
	assert.Equal(t, DefaultCompany, job.Company)
	assert.Equal(t, DefaultFeedDescription, job.Description)
	assert.Equal(t, DefaultLocation, job.Location)
	assert.Nil(t, job.PublishedDate)
	assert.True(t, job.HasLink())
	assert.Equal(t, "http://ok/1", job.Key())
}

func TestNewJob_Validation(t *testing.T) {
	_, err := NewJob("   ", "http://ok/1", "X")
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, err = NewJob("Engineer", "http://ok/1", "")
	assert.ErrorIs(t, err, ErrMissingSource)

	job, err := NewJob("Engineer", "", "X")
	require.NoError(t, err)
	assert.False(t, job.HasLink())
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]Strategy{
		"rss":     StrategyFeed,
		"RSS":     StrategyFeed,
		"feed":    StrategyFeed,
		"atom":    StrategyFeed,
		"browser": StrategyBrowser,
	}
	for tag, want := range cases {
		got, err := ParseStrategy(tag)
		require.NoError(t, err, tag)
		assert.Equal(t, want, got, tag)
	}

	_, err := ParseStrategy("api")
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestSource_Validate(t *testing.T) {
	feed := Source{Name: "Golang Cafe", Strategy: StrategyFeed, URL: "https://www.golang.cafe/golang-jobs.rss"}
	assert.NoError(t, feed.Validate())

	assert.Error(t, Source{Strategy: StrategyFeed, URL: "http://x"}.Validate())
	assert.Error(t, Source{Name: "x", Strategy: StrategyFeed}.Validate())

	browser := Source{
		Name:     "InternFreak",
		Strategy: StrategyBrowser,
		URL:      "https://internfreak.co/internships",
		Selectors: Selectors{
			JobCard: "div.if-internship-card",
			Title:   "h3.if-title",
		},
	}
	assert.Error(t, browser.Validate(), "link selector missing")

	browser.Selectors.Link = "a.if-card-btn"
	assert.NoError(t, browser.Validate())
}

func TestSource_Identity(t *testing.T) {
	a := Source{Name: "Wellfound", Strategy: StrategyFeed, URL: "https://wellfound.com/jobs.rss"}
	b := Source{Name: "Wellfound (formerly AngelList)", Strategy: StrategyFeed, URL: " https://wellfound.com/jobs.rss"}
	assert.Equal(t, a.Identity(), b.Identity())
}

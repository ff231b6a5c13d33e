// Package classifier maps free job text to role, experience and location
// categories using ordered keyword tables.
package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category names referenced outside the tables; the fallbacks are returned
// when no keyword matches
const (
	RoleOther         = "Other"
	RoleEngineering   = "Engineering"
	ExperienceUnknown = "Not Specified"
	ExperienceSenior  = "Senior"
	ExperienceIntern  = "Internship"
	LocationGlobal    = "Global"
	LocationRemote    = "Remote"
)

// Category is one label and the keywords that select it
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Tables holds the ordered category lists. Order is priority: the first
// category with a matching keyword wins.
type Tables struct {
	Role       []Category `yaml:"role"`
	Experience []Category `yaml:"experience"`
	Location   []Category `yaml:"location"`
}

// DefaultTables returns the built-in keyword tables
func DefaultTables() Tables {
	return Tables{
		Role: []Category{
			{Name: RoleEngineering, Keywords: []string{"engineer", "developer", "dev", "software", "backend", "frontend", "full-stack", "programmer", "code", "architect"}},
			{Name: "Data Science", Keywords: []string{"data", "scientist", "analyst", "analytics", "machine learning", "ml", "ai", "intelligence"}},
			{Name: "DevOps/SysAdmin", Keywords: []string{"devops", "sysadmin", "system administrator", "infrastructure", "cloud", "site reliability", "sre"}},
			{Name: "Design/Creative", Keywords: []string{"design", "designer", "ui", "ux", "artist", "creative", "graphic"}},
			{Name: "Marketing", Keywords: []string{"marketing", "seo", "content", "social media", "growth"}},
			{Name: "Product/Management", Keywords: []string{"product", "manager", "project", "lead", "finance", "management"}},
			{Name: "Sales/Support", Keywords: []string{"sales", "support", "customer", "business development", "bd"}},
		},
		Experience: []Category{
			{Name: ExperienceSenior, Keywords: []string{"senior", "sr.", "lead", "principal", "staff", "manager"}},
			{Name: "Mid-Level", Keywords: []string{"mid", "mid-level", "ii", "iii"}},
			{Name: "Junior/Entry-Level", Keywords: []string{"junior", "jr.", "entry", "associate", "graduate", "level i"}},
			{Name: ExperienceIntern, Keywords: []string{"intern", "internship"}},
		},
		Location: []Category{
			{Name: LocationRemote, Keywords: []string{"remote", "anywhere", "work from home", "wfh", "distributed team"}},
			{Name: "India", Keywords: []string{"india", "bangalore", "bengaluru", "mumbai", "delhi", "hyderabad", "pune", "chennai", "noida", "gurgaon", "gurugram", "kolkata"}},
			{Name: "United States", Keywords: []string{"united states", "usa", "new york", "san francisco", "seattle", "austin", "texas", "california", "boston"}},
			{Name: "United Kingdom", Keywords: []string{"united kingdom", "london", "manchester", "edinburgh", "england"}},
			{Name: "Europe", Keywords: []string{"europe", "berlin", "amsterdam", "paris", "madrid", "lisbon", "dublin", "zurich", "germany", "netherlands"}},
		},
	}
}

// Classifier classifies text against a fixed set of tables.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	tables Tables
}

// Default uses DefaultTables
var Default = New(DefaultTables())

// New creates a classifier; keywords are folded once up front
func New(t Tables) *Classifier {
	return &Classifier{tables: Tables{
		Role:       foldCategories(t.Role),
		Experience: foldCategories(t.Experience),
		Location:   foldCategories(t.Location),
	}}
}

// ClassifyRole returns the first role category matching the title, or "Other"
func (c *Classifier) ClassifyRole(title string) string {
	return match(c.tables.Role, fold(title), RoleOther)
}

// ClassifyExperience returns the most senior matching level, or "Not Specified"
func (c *Classifier) ClassifyExperience(title string) string {
	return match(c.tables.Experience, fold(title), ExperienceUnknown)
}

// ClassifyLocation checks title and description together. Remote keywords are
// listed first so they take priority over regions.
func (c *Classifier) ClassifyLocation(title, description string) string {
	return match(c.tables.Location, fold(title+" "+description), LocationGlobal)
}

func ClassifyRole(title string) string { return Default.ClassifyRole(title) }

func ClassifyExperience(title string) string { return Default.ClassifyExperience(title) }

func ClassifyLocation(title, description string) string {
	return Default.ClassifyLocation(title, description)
}

func match(categories []Category, text, fallback string) string {
	for _, cat := range categories {
		for _, kw := range cat.Keywords {
			if kw != "" && strings.Contains(text, kw) {
				return cat.Name
			}
		}
	}
	return fallback
}

// fold lower-cases and strips diacritics so "Développeur" matches "developpeur"
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(result)
}

func foldCategories(in []Category) []Category {
	out := make([]Category, 0, len(in))
	for _, cat := range in {
		kws := make([]string, 0, len(cat.Keywords))
		for _, kw := range cat.Keywords {
			kws = append(kws, fold(kw))
		}
		out = append(out, Category{Name: cat.Name, Keywords: kws})
	}
	return out
}

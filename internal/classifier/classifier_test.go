package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRole(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Senior Backend Engineer", "Engineering"},
		{"Data Scientist", "Data Science"},
		{"Cloud Infrastructure Specialist", "DevOps/SysAdmin"},
		{"Graphic Designer", "Design/Creative"},
		{"SEO Specialist", "Marketing"},
		{"Project Manager", "Product/Management"},
		{"Customer Success Associate", "Sales/Support"},
		// keywords from two categories: the earlier category wins
		{"Data Engineer", "Engineering"},
		{"Product Designer", "Design/Creative"},
		{"Chef", RoleOther},
		{"", RoleOther},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRole(tt.title))
		})
	}
}

func TestClassifyExperience(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Senior Lead Developer", "Senior"},
		{"Staff Engineer", "Senior"},
		{"Software Engineer II", "Mid-Level"},
		{"Junior Analyst", "Junior/Entry-Level"},
		{"Graduate Trainee", "Junior/Entry-Level"},
		{"Summer Intern", "Internship"},
		{"Accountant", ExperienceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyExperience(tt.title))
		})
	}
}

func TestClassifyLocation(t *testing.T) {
	assert.Equal(t, LocationRemote, ClassifyLocation("Backend Engineer (Remote)", ""))
	assert.Equal(t, LocationRemote, ClassifyLocation("Backend Engineer, Bengaluru", "Fully remote, India preferred"),
		"remote outranks a region")
	assert.Equal(t, "India", ClassifyLocation("Frontend Developer", "Office in Pune"))
	assert.Equal(t, "United Kingdom", ClassifyLocation("Analyst - London", ""))
	assert.Equal(t, "Europe", ClassifyLocation("Entwickler", "Standort: Zürich"), "diacritics are folded")
	assert.Equal(t, LocationGlobal, ClassifyLocation("Engineer", ""))
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, ClassifyRole("software engineer"), ClassifyRole("SOFTWARE ENGINEER"))
	assert.Equal(t, "Engineering", ClassifyRole("Développeur Backend"))
}

func TestLoadTables_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classifier.yaml")
	content := `
location:
  - name: Vietnam
    keywords: ["ho chi minh", "hanoi", "can tho"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tables, err := LoadTables(path)
	require.NoError(t, err)
	require.Len(t, tables.Location, 1)
	assert.Len(t, tables.Role, len(DefaultTables().Role), "role table keeps defaults")

	c := New(tables)
	assert.Equal(t, "Vietnam", c.ClassifyLocation("Golang Developer", "Office in Hanoi"))
	assert.Equal(t, LocationGlobal, c.ClassifyLocation("Golang Developer", "Remote"))
	assert.Equal(t, "Engineering", c.ClassifyRole("Golang Developer"))
}

func TestLoadTables_Errors(t *testing.T) {
	tables, err := LoadTables("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTables(), tables)

	_, err = LoadTables(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("role: [: :"), 0o644))
	_, err = LoadTables(bad)
	assert.Error(t, err)
}

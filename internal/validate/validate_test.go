package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jobrake/jobrake/internal/jobs"
)

func baseRecord() jobs.Record {
	return jobs.Record{
		ID:          "job_abc123",
		Title:       "Data Intern",
		Company:     "Acme",
		Location:    "Remote",
		Description: strings.Repeat("Analyze data and build reports. ", 10),
		Skills:      []string{"Python"},
		SourceURL:   "https://acme.example/job/1",
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	t.Run("strong record", func(t *testing.T) {
		rec := baseRecord()
		assert.Equal(t, 7, Score(rec))
	})

	t.Run("application form language sinks the score", func(t *testing.T) {
		rec := baseRecord()
		rec.Description += " Please fill out the application form below."
		assert.Less(t, Score(rec), MinScore)
	})

	t.Run("marketing boilerplate penalized", func(t *testing.T) {
		rec := baseRecord()
		rec.Description += " Read about our culture and values."
		assert.Equal(t, 4, Score(rec))
	})

	t.Run("unknown location earns nothing", func(t *testing.T) {
		rec := baseRecord()
		rec.Location = jobs.LocationNotSpecified
		assert.Equal(t, 6, Score(rec))
	})

	t.Run("invalid title earns nothing", func(t *testing.T) {
		rec := baseRecord()
		rec.Title = "Apply Now"
		assert.Equal(t, 4, Score(rec))
	})
}

func TestMatchesRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title string
		want  bool
	}{
		{"Software Engineering Intern", true},
		{"Software Engineer", false},
		{"Senior Software Intern", false},
		{"Intern Manager", false},
		{"Graduate Trainee Program", true},
		{"Working Student Data Science", true},
		{"Sr. Developer Intern", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchesRole(tc.title, RoleModeInternship))
		})
	}

	t.Run("unknown mode passes everything", func(t *testing.T) {
		assert.True(t, MatchesRole("Senior Architect", "all"))
	})
}

func TestCountryMatches(t *testing.T) {
	t.Parallel()

	cases := []struct {
		location string
		country  string
		want     bool
	}{
		{"Berlin, Germany", "Germany", true},
		{"Berlin, germany", "GERMANY", true},
		{"Austin, TX", "Germany", false},
		{"Remote", "Germany", true},
		{"Worldwide", "Germany", true},
		{jobs.LocationNotSpecified, "Germany", true},
		{"", "Germany", true},
		{"Austin, TX", "", true},
	}
	for _, tc := range cases {
		rec := jobs.Record{Location: tc.location}
		assert.Equal(t, tc.want, CountryMatches(rec, tc.country), "%s vs %s", tc.location, tc.country)
	}
}

func TestIsJunk(t *testing.T) {
	t.Parallel()

	t.Run("clean record passes", func(t *testing.T) {
		assert.False(t, IsJunk(baseRecord()))
	})

	t.Run("ad chrome in title", func(t *testing.T) {
		rec := baseRecord()
		rec.Title = "YourAdChoices"
		assert.True(t, IsJunk(rec))
	})

	t.Run("cookie banner as company", func(t *testing.T) {
		rec := baseRecord()
		rec.Company = "Cookie Policy"
		assert.True(t, IsJunk(rec))
	})

	t.Run("short description", func(t *testing.T) {
		rec := baseRecord()
		rec.Description = "Great job."
		assert.True(t, IsJunk(rec))
	})

	t.Run("privacy blob without job content", func(t *testing.T) {
		rec := baseRecord()
		rec.Description = "This privacy policy describes how we process your data."
		assert.True(t, IsJunk(rec))
	})

	t.Run("missing company", func(t *testing.T) {
		rec := baseRecord()
		rec.Company = ""
		assert.True(t, IsJunk(rec))
	})
}

func TestRecordGate(t *testing.T) {
	t.Parallel()

	t.Run("passes full gate", func(t *testing.T) {
		assert.True(t, Record(baseRecord(), "Germany", RoleModeInternship))
	})

	t.Run("role gate rejects before scoring", func(t *testing.T) {
		rec := baseRecord()
		rec.Title = "Senior Data Engineer"
		assert.False(t, Record(rec, "Germany", RoleModeInternship))
	})

	t.Run("country mismatch rejects", func(t *testing.T) {
		rec := baseRecord()
		rec.Location = "Austin, TX"
		assert.False(t, Record(rec, "Germany", RoleModeInternship))
	})
}

func TestDeduplicate(t *testing.T) {
	t.Parallel()

	a := jobs.Record{ID: "job_1", Title: "Intern A"}
	b := jobs.Record{Title: "Intern B", Location: "Berlin", Company: "Acme"}
	c := jobs.Record{ID: "job_1", Title: "Intern A updated"}
	d := jobs.Record{Title: "Intern B", Location: "Berlin", Company: "Acme"}

	out := Deduplicate([]jobs.Record{a, b, c, d})
	assert.Equal(t, []jobs.Record{a, b}, out)

	// Idempotent.
	assert.Equal(t, out, Deduplicate(out))
}

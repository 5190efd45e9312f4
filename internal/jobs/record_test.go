package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupKey(t *testing.T) {
	t.Parallel()

	withID := Record{ID: "job_abc123def456", Title: "Data Intern", Location: "Berlin", Company: "Acme"}
	assert.Equal(t, "job_abc123def456", withID.DedupKey())

	withoutID := Record{Title: "Data Intern", Location: "Berlin", Company: "Acme"}
	other := Record{Title: "Data Intern", Location: "Munich", Company: "Acme"}
	assert.NotEqual(t, withoutID.DedupKey(), other.DedupKey())
	assert.Equal(t, withoutID.DedupKey(), Record{Title: "Data Intern", Location: "Berlin", Company: "Acme"}.DedupKey())
}

func TestNormalizeSkills(t *testing.T) {
	t.Parallel()

	r := Record{Skills: []string{"Python", "python", " Go ", "", "Docker", "go"}}
	r.NormalizeSkills()
	assert.Equal(t, []string{"Docker", "Go", "Python"}, r.Skills)
}

func TestFlattenRoundTrip(t *testing.T) {
	t.Parallel()

	r := Record{
		ID:               "job_0011aabbccdd",
		Title:            "Software Engineering Intern",
		Company:          "Acme",
		Location:         "Berlin, Germany",
		EmploymentType:   "Full-time",
		Description:      "Build things.",
		Responsibilities: "Ship code • Review PRs",
		Skills:           []string{"Go", "PostgreSQL"},
		SourceURL:        "https://acme.example/jobs/123",
	}

	flat := r.Flatten()
	for k, v := range flat {
		if k == "responsibilities" || k == "job_id" {
			continue
		}
		require.NotEmpty(t, v, "field %s", k)
	}

	back := Unflatten(flat)
	assert.Equal(t, r, back)
}

func TestStableID(t *testing.T) {
	t.Parallel()

	a := StableID("https://acme.example/jobs/123")
	b := StableID("https://acme.example/jobs/124")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, StableID("https://acme.example/jobs/123"))
	assert.Len(t, a, len("job_")+12)
}

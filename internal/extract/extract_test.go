package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const jsonLDPage = `<html><head>
<script type="application/ld+json">
{
  "@type": "JobPosting",
  "title": "Software Engineering Intern",
  "description": "Build services in Go and Python. Deploy with Docker.",
  "employmentType": "INTERN",
  "hiringOrganization": {"@type": "Organization", "name": "Acme Corp"},
  "jobLocation": {"@type": "Place", "address": {
    "addressLocality": "Berlin", "addressCountry": {"@type": "Country", "name": "Germany"}
  }}
}
</script>
</head><body><h1>Apply</h1></body></html>`

func TestDetailJSONLDWins(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, jsonLDPage)
	rec, err := Detail(doc, "https://acme.example/job/1")
	require.NoError(t, err)

	assert.Equal(t, "Software Engineering Intern", rec.Title)
	assert.Equal(t, "Acme Corp", rec.Company)
	assert.Equal(t, "Berlin, Germany", rec.Location)
	assert.Equal(t, "INTERN", rec.EmploymentType)
	assert.ElementsMatch(t, []string{"Go", "Python", "Docker"}, rec.Skills)
	assert.Equal(t, "https://acme.example/job/1", rec.SourceURL)
	assert.NotEmpty(t, rec.ID)
}

func TestDetailFromSelectors(t *testing.T) {
	t.Parallel()

	html := `<html><body>
	<div class="job-detail">
	  <h1 class="job-title">Data Analyst Intern</h1>
	  <span class="job-location">Munich, Germany</span>
	  <div class="job-description">` + strings.Repeat("Analyze datasets with SQL and Python. ", 10) + `</div>
	  <h3>Responsibilities</h3>
	  <ul><li>Build dashboards</li><li>Write queries</li></ul>
	  <span class="company-name">Acme Analytics</span>
	</div>
	</body></html>`
	doc := mustDoc(t, html)

	rec, err := Detail(doc, "https://acme.example/job/2")
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst Intern", rec.Title)
	assert.Equal(t, "Munich, Germany", rec.Location)
	assert.Contains(t, rec.Description, "Analyze datasets")
	assert.Equal(t, "Build dashboards • Write queries", rec.Responsibilities)
	assert.Equal(t, "Acme Analytics", rec.Company)
	assert.ElementsMatch(t, []string{"Python", "SQL"}, rec.Skills)
}

func TestDetailRejectsApplyPage(t *testing.T) {
	t.Parallel()

	html := `<html><body>
	<form action="/a"></form><form action="/b"></form>
	<h1>Engineer</h1>
	</body></html>`
	_, err := Detail(mustDoc(t, html), "https://x.com/job/1/apply")
	assert.ErrorIs(t, err, ErrApplyPage)

	html = `<html><body><h1>Engineer</h1><p>Please upload resume to continue.</p></body></html>`
	_, err = Detail(mustDoc(t, html), "https://x.com/job/1")
	assert.ErrorIs(t, err, ErrApplyPage)
}

func TestDetailRejectsInvalidTitle(t *testing.T) {
	t.Parallel()

	html := `<html><body><div class="job-detail"><h1>Loading</h1></div></body></html>`
	_, err := Detail(mustDoc(t, html), "https://x.com/job/1")
	assert.ErrorIs(t, err, ErrInvalidTitle)
}

func TestIsInvalidTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title string
		want  bool
	}{
		{"Software Engineer", false},
		{"Data Intern", false},
		{"ab", true},
		{"Apply Now", true},
		{"Please wait", true},
		{"Login", true},
		{"Job Title Not Available", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsInvalidTitle(tc.title), tc.title)
	}
}

func TestExtractLocationFallbacks(t *testing.T) {
	t.Parallel()

	t.Run("proximity to title", func(t *testing.T) {
		html := `<div><h1>Backend Intern</h1><span>Austin, TX</span></div>`
		doc := mustDoc(t, "<html><body>"+html+"</body></html>")
		assert.Equal(t, "Austin, TX", extractLocation(doc.Selection))
	})

	t.Run("regex over text", func(t *testing.T) {
		html := `<div><p>This role is based in Hamburg, Germany and starts soon.</p></div>`
		doc := mustDoc(t, "<html><body>"+html+"</body></html>")
		assert.Equal(t, "Hamburg, Germany", extractLocation(doc.Selection))
	})

	t.Run("remote literal", func(t *testing.T) {
		html := `<div><p>Work style: Remote first team.</p></div>`
		doc := mustDoc(t, "<html><body>"+html+"</body></html>")
		assert.Equal(t, "Remote", extractLocation(doc.Selection))
	})

	t.Run("placeholder rejected", func(t *testing.T) {
		html := `<div><span class="location">Location</span></div>`
		doc := mustDoc(t, "<html><body>"+html+"</body></html>")
		assert.Equal(t, "Location not specified", extractLocation(doc.Selection))
	})
}

func TestCleanDescription(t *testing.T) {
	t.Parallel()

	in := "<p>Great   role.</p>\n\nJoin the team. Apply now at our portal!"
	assert.Equal(t, "Great role. Join the team.", cleanDescription(in))
}

func TestExtractEmploymentType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want string
	}{
		{"Workplace type: Hybrid. Some remote days.", "Hybrid"},
		{"This is a remote position.", "Remote"},
		{"Part-time student role.", "Part-time"},
		{"Fixed term contract.", "Contract"},
		{"Standard office role.", "Full-time"},
	}
	for _, tc := range cases {
		doc := mustDoc(t, "<html><body><div><p>"+tc.text+"</p></div></body></html>")
		assert.Equal(t, tc.want, extractEmploymentType(doc.Selection, ""), tc.text)
	}
}

func TestExtractCompanyDomainFallback(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, "<html><body><div><p>no company markup</p></div></body></html>")
	assert.Equal(t, "Acme", extractCompany(doc.Selection, "https://www.acme.example/job/1"))
}

func TestSkills(t *testing.T) {
	t.Parallel()

	desc := "We use python, Go, DOCKER, postgresql and more python every day."
	assert.Equal(t, []string{"Docker", "Go", "PostgreSQL", "Python"}, Skills(desc))
	assert.Empty(t, Skills("We value teamwork and communication."))
}

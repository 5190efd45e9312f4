package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobrake/jobrake/internal/fetch"
)

type fakeFetcher struct {
	pages      map[string]string
	heavyPages map[string]string
	panicOn    map[string]bool
	calls      map[string]int
	heavyCalls int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:      make(map[string]string),
		heavyPages: make(map[string]string),
		panicOn:    make(map[string]bool),
		calls:      make(map[string]int),
	}
}

func (f *fakeFetcher) Page(_ context.Context, url string) (fetch.Result, error) {
	f.calls[url]++
	if f.panicOn[url] {
		panic("scripted crash: " + url)
	}
	html, ok := f.pages[url]
	if !ok {
		return fetch.Result{}, errors.New("no such page")
	}
	return fetch.Result{URL: url, StatusCode: 200, HTML: html, Tier: fetch.TierLight}, nil
}

func (f *fakeFetcher) PageHeavy(_ context.Context, url string) (fetch.Result, error) {
	f.heavyCalls++
	html, ok := f.heavyPages[url]
	if !ok {
		return fetch.Result{}, errors.New("no such page")
	}
	return fetch.Result{URL: url, StatusCode: 200, HTML: html, Tier: fetch.TierHeavy}, nil
}

const root = "https://acme.example/careers"

func detailPage(title, location string) string {
	return `<html><body><div class="job-detail">
	<h1 class="job-title">` + title + `</h1>
	<span class="job-location">` + location + `</span>
	<div class="job-description">` +
		strings.Repeat("Work with Python services and PostgreSQL databases every day. ", 6) +
		`</div></div></body></html>`
}

func listingPage(hrefs ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><ul id="jobs">`)
	for i, href := range hrefs {
		fmt.Fprintf(&b, `<li class="jobs-list-item"><a href="%s">Open position number %d</a> Location: Berlin</li>`, href, i+1)
	}
	b.WriteString(`</ul></body></html>`)
	return b.String()
}

func gatewayPage(links ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body>`)
	for _, href := range links {
		fmt.Fprintf(&b, `<div class="category-card"><a href="%s">Engineering</a></div>`, href)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func newTestEngine(f *fakeFetcher) *Engine {
	return New(f, Config{RoleMode: "internship"}, nil)
}

func TestListingCrawl(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.pages[root] = listingPage("/job/1", "/job/2", "/job/3", "/job/4", "/job/5")
	f.pages["https://acme.example/job/1"] = detailPage("Software Engineering Intern", "Berlin, Germany")
	f.pages["https://acme.example/job/2"] = detailPage("Data Science Intern", "Munich, Germany")
	f.pages["https://acme.example/job/3"] = detailPage("Senior Software Engineer", "Berlin, Germany")
	f.pages["https://acme.example/job/4"] = detailPage("Staff Engineer", "Berlin, Germany")
	f.pages["https://acme.example/job/5"] = detailPage("Marketing Intern", "Austin, TX")

	records := newTestEngine(f).ExtractJobsFromSite(context.Background(), root, "Germany")

	require.Len(t, records, 2)
	for _, rec := range records {
		assert.NotEmpty(t, rec.Title)
		assert.NotEmpty(t, rec.Company)
		assert.NotEmpty(t, rec.Description)
		assert.Contains(t, strings.ToLower(rec.Location), "germany")
	}

	// No URL is fetched twice within a session.
	for url, n := range f.calls {
		assert.LessOrEqual(t, n, 1, url)
	}
}

func TestCareerInfoIsHardStop(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.pages[root] = `<html><body>
	<h1>Careers</h1><p>Learn about employee benefits and our culture.</p>
	<a href="/careers/engineering">Engineering</a>
	</body></html>`
	f.pages["https://acme.example/careers/engineering"] = listingPage("/job/1")
	f.pages["https://acme.example/job/1"] = detailPage("Software Engineering Intern", "Berlin, Germany")

	records := newTestEngine(f).ExtractJobsFromSite(context.Background(), root, "Germany")
	assert.Empty(t, records)
	assert.Zero(t, f.calls["https://acme.example/careers/engineering"])
}

func TestGatewayDescent(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.pages[root] = gatewayPage("/careers/engineering", "/careers/data")
	f.pages["https://acme.example/careers/engineering"] = listingPage("/job/1")
	f.pages["https://acme.example/careers/data"] = listingPage("/job/2")
	f.pages["https://acme.example/job/1"] = detailPage("Platform Intern", "Berlin, Germany")
	f.pages["https://acme.example/job/2"] = detailPage("Data Intern", "Remote")

	records := newTestEngine(f).ExtractJobsFromSite(context.Background(), root, "Germany")
	assert.Len(t, records, 2)
}

func TestDepthBound(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.pages[root] = gatewayPage("/careers/a")
	f.pages["https://acme.example/careers/a"] = gatewayPage("/careers/b")
	f.pages["https://acme.example/careers/b"] = gatewayPage("/careers/c")
	f.pages["https://acme.example/careers/c"] = listingPage("/job/1")
	f.pages["https://acme.example/job/1"] = detailPage("Deep Intern", "Berlin, Germany")

	records := newTestEngine(f).ExtractJobsFromSite(context.Background(), root, "Germany")
	assert.Empty(t, records)
	// The listing at depth 3 is past the bound, so its job never surfaces.
	assert.Zero(t, f.calls["https://acme.example/job/1"])
}

func TestGatewayNeverReentered(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	// Two hubs linking to each other must not loop.
	f.pages[root] = gatewayPage("/careers/a")
	f.pages["https://acme.example/careers/a"] = gatewayPage("/careers", "/careers/b")
	f.pages["https://acme.example/careers/b"] = listingPage("/job/1")
	f.pages["https://acme.example/job/1"] = detailPage("Loop Intern", "Berlin, Germany")

	records := newTestEngine(f).ExtractJobsFromSite(context.Background(), root, "Germany")
	assert.Len(t, records, 1)
	assert.Equal(t, 1, f.calls[root])
}

func TestFilteredCrawlWins(t *testing.T) {
	t.Parallel()

	filtered := root + "?country=Germany&loc=Germany&location=Germany"

	f := newFakeFetcher()
	f.pages[root] = `<html><body>
	<form><input name="location" placeholder="Location"/></form>
	<p>Find your next role with us today, search below.</p>
	</body></html>`
	f.pages[filtered] = listingPage("/job/1")
	f.pages["https://acme.example/job/1"] = detailPage("Search Intern", "Berlin, Germany")

	records := newTestEngine(f).ExtractJobsFromSite(context.Background(), root, "Germany")
	require.Len(t, records, 1)
	assert.Equal(t, 1, f.calls[filtered])
}

func TestFilteredCrawlRollsBack(t *testing.T) {
	t.Parallel()

	filtered := root + "?country=Germany&loc=Germany&location=Germany"

	f := newFakeFetcher()
	f.pages[root] = `<html><body>
	<form><input name="location"/></form>
	<ul id="jobs"><li class="jobs-list-item"><a href="/job/1">Open position number 1</a> Location: Berlin</li></ul>
	</body></html>`
	f.pages[filtered] = `<html><body><p>No results found for your search.</p></body></html>`
	f.pages["https://acme.example/job/1"] = detailPage("Rollback Intern", "Berlin, Germany")

	records := newTestEngine(f).ExtractJobsFromSite(context.Background(), root, "Germany")
	require.Len(t, records, 1)
	assert.Equal(t, "Rollback Intern", records[0].Title)
}

func TestBranchCrashIsolated(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.pages[root] = gatewayPage("/careers/broken", "/careers/ok")
	f.panicOn["https://acme.example/careers/broken"] = true
	f.pages["https://acme.example/careers/ok"] = listingPage("/job/1")
	f.pages["https://acme.example/job/1"] = detailPage("Survivor Intern", "Berlin, Germany")

	records := newTestEngine(f).ExtractJobsFromSite(context.Background(), root, "Germany")
	require.Len(t, records, 1)
	assert.Equal(t, "Survivor Intern", records[0].Title)
}

func TestEmergencyExtraction(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.panicOn[root] = true
	f.heavyPages[root] = listingPage("/job/1", "/job/2")

	records := newTestEngine(f).ExtractJobsFromSite(context.Background(), root, "Germany")
	require.Len(t, records, 2)
	assert.Equal(t, 1, f.heavyCalls)
	for _, rec := range records {
		assert.NotEmpty(t, rec.Title)
		assert.NotEmpty(t, rec.SourceURL)
	}
}

func TestBlockedRootRejected(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	records := newTestEngine(f).ExtractJobsFromSite(context.Background(), "https://acme.example/login", "Germany")
	assert.Empty(t, records)
	assert.Empty(t, f.calls)
}

func TestApplyRootNormalized(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.pages["https://acme.example/job/9"] = detailPage("Normalized Intern", "Berlin, Germany")

	records := newTestEngine(f).ExtractJobsFromSite(context.Background(), "https://acme.example/job/9/apply", "Germany")
	require.Len(t, records, 1)
	assert.Equal(t, "Normalized Intern", records[0].Title)
}

package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestSearchFilterURL(t *testing.T) {
	t.Parallel()

	t.Run("location input", func(t *testing.T) {
		doc := filterDoc(t, `<form><input name="location"/></form>`)
		got := searchFilterURL(doc, "https://x.com/careers", "Germany")
		assert.Equal(t, "https://x.com/careers?country=Germany&loc=Germany&location=Germany", got)
	})

	t.Run("keyword input", func(t *testing.T) {
		doc := filterDoc(t, `<form><select id="keyword-filter"><option>All</option></select></form>`)
		got := searchFilterURL(doc, "https://x.com/careers", "Germany")
		assert.Equal(t, "https://x.com/careers?keywords=Germany&q=Germany", got)
	})

	t.Run("existing query appended", func(t *testing.T) {
		doc := filterDoc(t, `<input id="search-box"/>`)
		got := searchFilterURL(doc, "https://x.com/careers?page=1", "Germany")
		assert.Equal(t, "https://x.com/careers?page=1&keywords=Germany&q=Germany", got)
	})

	t.Run("no filter inputs", func(t *testing.T) {
		doc := filterDoc(t, `<input type="email" name="newsletter"/>`)
		assert.Empty(t, searchFilterURL(doc, "https://x.com/careers", "Germany"))
	})

	t.Run("no country", func(t *testing.T) {
		doc := filterDoc(t, `<input name="location"/>`)
		assert.Empty(t, searchFilterURL(doc, "https://x.com/careers", ""))
	})
}

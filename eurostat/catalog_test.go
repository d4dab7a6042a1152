package eurostat

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/internal/clock"
	qntxtest "github.com/teranos/qntx-eurostat/internal/testing"
)

// toc_en.txt holds a header, 7 well-formed lines, one blank and one malformed line.
const tocEntries = 7

func TestParseCatalog(t *testing.T) {
	f, err := os.Open("testdata/toc_en.txt")
	require.NoError(t, err)
	defer f.Close()

	entries, err := ParseCatalog(f)
	require.NoError(t, err)
	require.Len(t, entries, tocEntries)

	assert.Equal(t, CatalogEntry{Code: "data", Title: "Database by themes", Kind: "folder"}, entries[0])
	assert.Equal(t, CatalogEntry{
		Code:       "nama_10_gdp",
		Title:      "GDP and main components (output, expenditure and income)",
		Kind:       "dataset",
		LastUpdate: "01.03.2024",
		DataStart:  "1975",
		DataEnd:    "2023",
		Values:     "832615",
	}, entries[1])
}

func TestParseCatalogShortLines(t *testing.T) {
	entries, err := ParseCatalog(strings.NewReader("header\nTitle only\n\"T\"\t\"code\"\n"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "code", entries[0].Code)
	assert.Empty(t, entries[0].Kind)
}

func TestSearchConsidersEveryEntry(t *testing.T) {
	upstream := qntxtest.NewUpstream(t)
	upstream.Respond("/catalogue/toc/txt", http.StatusOK, "text/plain", readFixture(t, "testdata/toc_en.txt"))
	client := newTestClient(t, upstream, clock.NewFake(time.Unix(0, 0)))

	catalog, err := client.Catalog(context.Background(), "en")
	require.NoError(t, err)
	assert.Len(t, catalog.Entries, tocEntries)
	assert.Equal(t, "en", catalog.Language)

	// Every title in the fixture contains the letter "a".
	results, err := client.Search(context.Background(), "a", "en", 100)
	require.NoError(t, err)
	assert.Len(t, results, tocEntries)

	reqs := upstream.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "en", reqs[0].URL.Query().Get("lang"))
}

func TestSearchRanking(t *testing.T) {
	entries := []CatalogEntry{
		{Code: "demo_r_d3dens", Title: "Population density by NUTS 3 region"},
		{Code: "tps00001", Title: "Population on 1 January"},
		{Code: "population", Title: "Unrelated title"},
		{Code: "nama_10_gdp", Title: "GDP and main components"},
	}

	results := SearchEntries(entries, "Population", 10)
	require.Len(t, results, 3)
	assert.Equal(t, "population", results[0].Code, "exact code match outranks title matches")
	assert.Equal(t, "demo_r_d3dens", results[1].Code, "ties keep catalog order")
	assert.Equal(t, "tps00001", results[2].Code)

	results = SearchEntries(entries, "population january", 10)
	require.Len(t, results, 3)
	assert.Equal(t, "tps00001", results[0].Code, "two matched terms beat one")

	assert.Empty(t, SearchEntries(entries, "unemployment", 10))
	assert.Empty(t, SearchEntries(entries, "   ", 10))
	assert.Len(t, SearchEntries(entries, "population", 1), 1)
}

func TestSearchDefaultLimit(t *testing.T) {
	entries := make([]CatalogEntry, 50)
	for i := range entries {
		entries[i] = CatalogEntry{Code: "x", Title: "gdp"}
	}
	assert.Len(t, SearchEntries(entries, "gdp", 0), DefaultSearchLimit)
}

func TestCatalogCacheFreshness(t *testing.T) {
	upstream := qntxtest.NewUpstream(t)
	upstream.Respond("/catalogue/toc/txt", http.StatusOK, "text/plain", readFixture(t, "testdata/toc_en.txt"))
	clk := clock.NewFake(time.Unix(0, 0))
	client := newTestClient(t, upstream, clk)
	ctx := context.Background()

	_, err := client.Search(ctx, "gdp", "en", 10)
	require.NoError(t, err)
	clk.Advance(59 * time.Minute)
	_, err = client.Search(ctx, "population", "en", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, upstream.Count("/catalogue/toc"), "second search within TTL reuses the catalog")

	clk.Advance(2 * time.Minute)
	_, err = client.Search(ctx, "gdp", "en", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.Count("/catalogue/toc"), "search after TTL refetches")

	_, err = client.Search(ctx, "gdp", "fr", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, upstream.Count("/catalogue/toc"), "each language has its own snapshot")
}

func TestCatalogFetchFailure(t *testing.T) {
	upstream := qntxtest.NewUpstream(t)
	upstream.Respond("/catalogue/toc/txt", http.StatusServiceUnavailable, "text/html", "<html>maintenance</html>")
	client := newTestClient(t, upstream, clock.NewFake(time.Unix(0, 0)))

	_, err := client.Search(context.Background(), "gdp", "en", 10)
	require.Error(t, err)
	assert.True(t, errors.IsUpstreamError(err))
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "maintenance")

	_, _, cached := client.catalogs["en"].Peek()
	assert.False(t, cached, "failed load must not be cached")
}

func TestSearchRejectsUnknownLanguage(t *testing.T) {
	upstream := qntxtest.NewUpstream(t)
	client := newTestClient(t, upstream, nil)

	_, err := client.Search(context.Background(), "gdp", "xx", 10)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.Empty(t, upstream.Requests())
}

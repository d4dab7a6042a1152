package eurostat

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/qntx-eurostat/errors"
	qntxtest "github.com/teranos/qntx-eurostat/internal/testing"
)

func TestStructure(t *testing.T) {
	upstream := qntxtest.NewUpstream(t)
	upstream.Respond("/sdmx/2.1/dataflow/ESTAT/NAMA_10_GDP/1.0", http.StatusOK, "application/xml",
		readFixture(t, "sdmx/testdata/nama_10_gdp.xml"))
	client := newTestClient(t, upstream, nil)

	s, err := client.Structure(context.Background(), "nama_10_gdp")
	require.NoError(t, err)
	assert.Equal(t, "GDP and main components (output, expenditure and income)", s.Title)
	require.Len(t, s.Dimensions, 4)
	assert.Equal(t, "time", s.Dimensions[3].ID)

	reqs := upstream.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "descendants", reqs[0].URL.Query().Get("references"))
	assert.Equal(t, "referencepartial", reqs[0].URL.Query().Get("detail"))
	assert.Equal(t, SDMXStructureAccept, reqs[0].Header.Get("Accept"))
}

func TestStructureIsNotCached(t *testing.T) {
	upstream := qntxtest.NewUpstream(t)
	upstream.Respond("/sdmx/2.1/dataflow/", http.StatusOK, "application/xml", `<Structure/>`)
	client := newTestClient(t, upstream, nil)

	for i := 0; i < 2; i++ {
		s, err := client.Structure(context.Background(), "TPS00001")
		require.NoError(t, err)
		assert.Equal(t, "TPS00001", s.Title)
		assert.Empty(t, s.Dimensions)
	}
	assert.Equal(t, 2, upstream.Count("/sdmx/2.1/dataflow/"))
}

func TestStructureNotFound(t *testing.T) {
	upstream := qntxtest.NewUpstream(t)
	upstream.Respond("/sdmx/2.1/dataflow/", http.StatusNotFound, "text/plain", "No results found")
	client := newTestClient(t, upstream, nil)

	_, err := client.Structure(context.Background(), "bogus_code")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.Contains(t, err.Error(), "BOGUS_CODE")
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, errors.FlattenHints(err), "search_datasets")
}

func TestStructureURL(t *testing.T) {
	client, err := New(Config{SDMXURL: "https://mirror.example/sdmx/2.1/"})
	require.NoError(t, err)
	assert.Equal(t,
		"https://mirror.example/sdmx/2.1/dataflow/ESTAT/NAMA_10_GDP/1.0?detail=referencepartial&references=descendants",
		client.StructureURL("NAMA_10_GDP"))
}

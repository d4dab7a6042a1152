package eurostat

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/internal/clock"
	qntxtest "github.com/teranos/qntx-eurostat/internal/testing"
)

const populationCube = `{
  "version": "2.0", "class": "dataset", "label": "Population on 1 January",
  "source": "ESTAT", "updated": "2024-02-15T11:00:00+0100",
  "id": ["geo", "time"], "size": [2, 3],
  "dimension": {
    "geo": {"label": "Geopolitical entity", "category": {
      "index": {"DE": 0, "FR": 1}, "label": {"DE": "Germany", "FR": "France"}}},
    "time": {"label": "Time", "category": {
      "index": {"2020": 0, "2021": 1, "2022": 2}, "label": {"2020": "2020", "2021": "2021", "2022": "2022"}}}
  },
  "value": {"0": 100, "5": 142}
}`

func TestDataEndToEnd(t *testing.T) {
	upstream := qntxtest.NewUpstream(t)
	upstream.EnableGzip()
	upstream.Respond("/statistics/1.0/data/DEMO_PJAN", http.StatusOK, "application/json", populationCube)
	client := newTestClient(t, upstream, clock.NewFake(time.Unix(0, 0)))

	cube, err := client.Data(context.Background(), "demo_pjan", Filters{
		"geo":              {"DE", "FR"},
		SinceTimePeriod:    {"2020"},
		"unrecognized_key": {"kept"},
	}, "en")
	require.NoError(t, err)

	require.Len(t, cube.Values, 6)
	assert.Equal(t, 100.0, *cube.Values[0])
	assert.Nil(t, cube.Values[1])
	assert.Nil(t, cube.Values[4])
	assert.Equal(t, 142.0, *cube.Values[5])

	lines := strings.Split(strings.TrimRight(cube.Table(), "\n"), "\n")
	assert.Equal(t, []string{"geo | time | value", "Germany | 2020 | 100", "France | 2022 | 142"}, lines)

	reqs := upstream.Requests()
	require.Len(t, reqs, 1)
	q := reqs[0].URL.Query()
	assert.Equal(t, "JSON", q.Get("format"))
	assert.Equal(t, "EN", q.Get("lang"))
	assert.Equal(t, []string{"DE", "FR"}, q["geo"])
	assert.Equal(t, "2020", q.Get(SinceTimePeriod))
	assert.Equal(t, "kept", q.Get("unrecognized_key"), "unknown filter keys pass through")
}

func TestPreviewAsksForLatestPeriod(t *testing.T) {
	upstream := qntxtest.NewUpstream(t)
	upstream.Respond("/statistics/1.0/data/", http.StatusOK, "application/json", populationCube)
	client := newTestClient(t, upstream, nil)

	_, err := client.Preview(context.Background(), "DEMO_PJAN", "fr")
	require.NoError(t, err)

	q := upstream.Requests()[0].URL.Query()
	assert.Equal(t, "1", q.Get(LastTimePeriod))
	assert.Equal(t, "FR", q.Get("lang"))
}

func TestDataUpstreamErrors(t *testing.T) {
	longBody := strings.Repeat("x", 2000)

	tests := []struct {
		name     string
		status   int
		body     string
		contains string
		notFound bool
	}{
		{
			name:     "error object",
			status:   http.StatusBadRequest,
			body:     `{"error":{"status":400,"id":100,"label":"Invalid value for dimension geo"}}`,
			contains: "Invalid value for dimension geo",
		},
		{
			name:     "error list",
			status:   http.StatusBadRequest,
			body:     `{"error":[{"status":400,"id":140,"label":"Too many categories"}]}`,
			contains: "Too many categories",
		},
		{
			name:     "warning",
			status:   http.StatusRequestEntityTooLarge,
			body:     `{"warning":{"status":413,"label":"Extraction too big"}}`,
			contains: "Extraction too big",
		},
		{
			name:     "unknown dataset",
			status:   http.StatusNotFound,
			body:     `{"error":{"status":404,"label":"Dataset NOPE does not exist"}}`,
			contains: "NOPE",
			notFound: true,
		},
		{
			name:     "raw body",
			status:   http.StatusBadGateway,
			body:     longBody,
			contains: strings.Repeat("x", maxErrorBody),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := qntxtest.NewUpstream(t)
			upstream.Respond("/statistics/1.0/data/", tt.status, "application/json", tt.body)
			client := newTestClient(t, upstream, nil)

			_, err := client.Data(context.Background(), "NOPE", nil, "")
			require.Error(t, err)
			assert.True(t, errors.IsUpstreamError(err))
			assert.Equal(t, tt.notFound, errors.IsNotFoundError(err))
			assert.Contains(t, err.Error(), tt.contains)
			assert.Contains(t, err.Error(), "NOPE")

			var upErr *errors.UpstreamError
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, tt.status, upErr.Status)
			assert.LessOrEqual(t, len(upErr.Body), maxErrorBody)
		})
	}
}

func TestDataWarningOnSuccessStatus(t *testing.T) {
	upstream := qntxtest.NewUpstream(t)
	upstream.Respond("/statistics/1.0/data/", http.StatusOK, "application/json",
		`{"warning":{"status":200,"label":"No data found for the requested filters"}}`)
	client := newTestClient(t, upstream, nil)

	_, err := client.Data(context.Background(), "DEMO_PJAN", Filters{"geo": {"XX"}}, "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}

func TestDataMalformedCube(t *testing.T) {
	upstream := qntxtest.NewUpstream(t)
	upstream.Respond("/statistics/1.0/data/", http.StatusOK, "application/json",
		`{"id":["geo"],"size":[3],"dimension":{"geo":{"category":{"index":["DE"]}}}}`)
	client := newTestClient(t, upstream, nil)

	_, err := client.Data(context.Background(), "DEMO_PJAN", nil, "en")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedCube))
}

func TestFiltersQuery(t *testing.T) {
	f := Filters{
		"time":    {"2022", "2021"},
		"geo":     {"DE"},
		"lang":    {"DE"},
		"unit":    {" ", ""},
		"na_item": {"B1GQ"},
	}
	assert.Equal(t,
		"format=JSON&lang=EN&geo=DE&na_item=B1GQ&time=2022&time=2021",
		f.Query(FormatJSON, "en"))

	assert.Equal(t, "format=TSV&lang=DE", Filters(nil).Query(FormatTSV, "de"))
}

func TestDownloadURL(t *testing.T) {
	client, err := New(Config{})
	require.NoError(t, err)

	u, err := client.DownloadURL("nama_10_gdp", Filters{"geo": {"DE", "FR"}, "unit": {"CP_MEUR"}}, "")
	require.NoError(t, err)
	assert.Equal(t,
		DefaultStatisticsURL+"/data/NAMA_10_GDP?format=TSV&lang=EN&geo=DE&geo=FR&unit=CP_MEUR",
		u)

	_, err = client.DownloadURL("", nil, "")
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestFiltersClone(t *testing.T) {
	f := Filters{"geo": {"DE"}}
	c := f.Clone()
	c["geo"][0] = "FR"
	assert.Equal(t, "DE", f["geo"][0])
}

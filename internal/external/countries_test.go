package external_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlist/api/internal/external"
)

const countriesPayload = `[
	{
		"name": {"common": "Japan", "official": "Japan"},
		"cca2": "JP",
		"region": "Asia",
		"subregion": "Eastern Asia",
		"capital": ["Tokyo"],
		"population": 125836021,
		"area": 377930,
		"flags": {"png": "https://flagcdn.com/w320/jp.png"},
		"flag": "🇯🇵",
		"languages": {"jpn": "Japanese"},
		"currencies": {"JPY": {"name": "Japanese yen"}},
		"timezones": ["UTC+09:00"]
	},
	{
		"name": {"common": "Portugal", "official": "Portuguese Republic"},
		"cca2": "PT",
		"region": "Europe",
		"subregion": "Southern Europe",
		"capital": ["Lisbon"],
		"population": 10305564,
		"area": 92090
	}
]`

func TestFetchAll_Normalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/all", r.URL.Path)
		_, _ = w.Write([]byte(countriesPayload))
	}))
	defer srv.Close()

	c := external.NewCountriesClientWithURL(srv.URL)
	countries, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, countries, 2)

	jp := countries[0]
	assert.Equal(t, "Japan", jp.Name)
	assert.Equal(t, "JP", jp.Code)
	assert.Equal(t, "Tokyo", jp.Capital)
	assert.Equal(t, "https://flagcdn.com/w320/jp.png", jp.Flag)
	assert.Empty(t, jp.Languages, "list lookups omit extended fields")
}

const japanPayload = `[
	{
		"name": {"common": "Japan", "official": "Japan"},
		"cca2": "JP",
		"region": "Asia",
		"subregion": "Eastern Asia",
		"capital": ["Tokyo"],
		"population": 125836021,
		"area": 377930,
		"flags": {"png": "https://flagcdn.com/w320/jp.png"},
		"flag": "🇯🇵",
		"languages": {"jpn": "Japanese"},
		"currencies": {"JPY": {"name": "Japanese yen"}},
		"timezones": ["UTC+09:00"]
	}
]`

func TestFetchByCode_IncludesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/alpha/JP", r.URL.Path)
		_, _ = w.Write([]byte(japanPayload))
	}))
	defer srv.Close()

	c := external.NewCountriesClientWithURL(srv.URL)
	country, err := c.FetchByCode(context.Background(), "JP")
	require.NoError(t, err)
	assert.Equal(t, "Japan", country.Name)
	assert.Equal(t, []string{"Japanese"}, country.Languages)
	assert.Equal(t, []string{"JPY"}, country.Currencies)
	assert.Equal(t, []string{"UTC+09:00"}, country.Timezones)
}

func TestFetchByCode_UnknownIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := external.NewCountriesClientWithURL(srv.URL)
	_, err := c.FetchByCode(context.Background(), "ZZ")
	assert.ErrorIs(t, err, external.ErrCountryNotFound)
}

func TestFetchByCode_EmptyArrayIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := external.NewCountriesClientWithURL(srv.URL)
	_, err := c.FetchByCode(context.Background(), "ZZ")
	assert.ErrorIs(t, err, external.ErrCountryNotFound)
}

func TestFetchAll_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := external.NewCountriesClientWithURL(srv.URL)
	_, err := c.FetchAll(context.Background())
	assert.Error(t, err)
}

func TestRegions_DistinctSortedNonEmpty(t *testing.T) {
	countries := []external.Country{
		{Name: "Japan", Region: "Asia"},
		{Name: "Portugal", Region: "Europe"},
		{Name: "Spain", Region: "Europe"},
		{Name: "Bouvet Island", Region: ""},
		{Name: "Chile", Region: "Americas"},
	}

	assert.Equal(t, []string{"Americas", "Asia", "Europe"}, external.Regions(countries))
}

func TestRegions_EmptyListIsEmptyNonNil(t *testing.T) {
	got := external.Regions(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

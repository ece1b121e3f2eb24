// Package external holds the stateless clients for third-party data APIs.
// Each client normalizes the upstream response shape and does no retrying or
// caching of its own.
package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"
)

const httpTimeout = 10 * time.Second

// ErrCountryNotFound is returned when a country code matches nothing upstream.
var ErrCountryNotFound = errors.New("country not found")

// newHTTPClient returns an http.Client with a 10-second timeout.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// Country is the normalized country shape served to clients.
// Languages, Currencies, and Timezones are only populated by code lookups.
type Country struct {
	Name         string   `json:"name"`
	OfficialName string   `json:"officialName"`
	Code         string   `json:"code"`
	Region       string   `json:"region"`
	Subregion    string   `json:"subregion"`
	Capital      string   `json:"capital,omitempty"`
	Population   int64    `json:"population"`
	Area         float64  `json:"area"`
	Flag         string   `json:"flag,omitempty"`
	FlagEmoji    string   `json:"flagEmoji,omitempty"`
	Languages    []string `json:"languages,omitempty"`
	Currencies   []string `json:"currencies,omitempty"`
	Timezones    []string `json:"timezones,omitempty"`
}

// CountriesClient fetches country metadata from REST Countries (no API key required).
type CountriesClient struct {
	baseURL string
	client  *http.Client
}

const countriesDefaultURL = "https://restcountries.com/v3.1"

// NewCountriesClient constructs a CountriesClient.
func NewCountriesClient() *CountriesClient {
	return &CountriesClient{baseURL: countriesDefaultURL, client: newHTTPClient()}
}

// NewCountriesClientWithURL constructs a CountriesClient pointing at a custom base URL (for tests).
func NewCountriesClientWithURL(baseURL string) *CountriesClient {
	return &CountriesClient{baseURL: baseURL, client: newHTTPClient()}
}

type restCountriesEntry struct {
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	CCA2       string   `json:"cca2"`
	Region     string   `json:"region"`
	Subregion  string   `json:"subregion"`
	Capital    []string `json:"capital"`
	Population int64    `json:"population"`
	Area       float64  `json:"area"`
	Flags      struct {
		PNG string `json:"png"`
	} `json:"flags"`
	Flag       string            `json:"flag"`
	Languages  map[string]string `json:"languages"`
	Currencies map[string]struct {
		Name string `json:"name"`
	} `json:"currencies"`
	Timezones []string `json:"timezones"`
}

// normalize maps an upstream entry to the local Country shape.
// detail controls whether languages/currencies/timezones are included.
func (e restCountriesEntry) normalize(detail bool) Country {
	c := Country{
		Name:         e.Name.Common,
		OfficialName: e.Name.Official,
		Code:         e.CCA2,
		Region:       e.Region,
		Subregion:    e.Subregion,
		Population:   e.Population,
		Area:         e.Area,
		Flag:         e.Flags.PNG,
		FlagEmoji:    e.Flag,
	}
	if len(e.Capital) > 0 {
		c.Capital = e.Capital[0]
	}
	if !detail {
		return c
	}

	for _, lang := range e.Languages {
		c.Languages = append(c.Languages, lang)
	}
	sort.Strings(c.Languages)
	for code := range e.Currencies {
		c.Currencies = append(c.Currencies, code)
	}
	sort.Strings(c.Currencies)
	c.Timezones = e.Timezones
	return c
}

// FetchAll retrieves the full normalized country list.
func (c *CountriesClient) FetchAll(ctx context.Context) ([]Country, error) {
	var raw []restCountriesEntry
	if err := c.get(ctx, c.baseURL+"/all", &raw); err != nil {
		return nil, fmt.Errorf("restcountries fetch all: %w", err)
	}

	countries := make([]Country, 0, len(raw))
	for _, e := range raw {
		countries = append(countries, e.normalize(false))
	}
	return countries, nil
}

// FetchByCode retrieves one country by its ISO code, with extended metadata.
// Returns ErrCountryNotFound for an unknown code.
func (c *CountriesClient) FetchByCode(ctx context.Context, code string) (Country, error) {
	var raw []restCountriesEntry
	if err := c.get(ctx, c.baseURL+"/alpha/"+url.PathEscape(code), &raw); err != nil {
		return Country{}, err
	}
	if len(raw) == 0 {
		return Country{}, ErrCountryNotFound
	}
	return raw[0].normalize(true), nil
}

// get performs a GET and decodes the JSON response into dst.
// Upstream 404s surface as ErrCountryNotFound.
func (c *CountriesClient) get(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", rawURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrCountryNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", rawURL, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}
	return nil
}

// Regions derives the distinct set of region values from a country list,
// dropping empty values and sorting lexicographically.
func Regions(countries []Country) []string {
	seen := make(map[string]struct{}, len(countries))
	regions := []string{}
	for _, c := range countries {
		if c.Region == "" {
			continue
		}
		if _, ok := seen[c.Region]; ok {
			continue
		}
		seen[c.Region] = struct{}{}
		regions = append(regions, c.Region)
	}
	sort.Strings(regions)
	return regions
}

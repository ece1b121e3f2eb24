package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Photo search failures callers need to tell apart from generic upstream
// errors: a bad key and a spent rate limit are operator problems, not
// transient ones.
var (
	ErrPhotoKeyInvalid  = errors.New("photo API key invalid")
	ErrPhotoRateLimited = errors.New("photo API rate limit exceeded")
)

// Photo is a single normalized photo search result.
type Photo struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	Thumb           string `json:"thumb"`
	Description     string `json:"description"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
}

// PhotoPage is one page of photo search results.
type PhotoPage struct {
	Images     []Photo `json:"images"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
}

// UnsplashClient proxies keyword searches to the Unsplash photo API.
type UnsplashClient struct {
	accessKey string
	baseURL   string
	client    *http.Client
}

const unsplashDefaultURL = "https://api.unsplash.com/search/photos"

// NewUnsplashClient constructs an UnsplashClient with the given access key.
func NewUnsplashClient(accessKey string) *UnsplashClient {
	return &UnsplashClient{accessKey: accessKey, baseURL: unsplashDefaultURL, client: newHTTPClient()}
}

// NewUnsplashClientWithURL constructs an UnsplashClient pointing at a custom base URL (for tests).
func NewUnsplashClientWithURL(baseURL, accessKey string) *UnsplashClient {
	return &UnsplashClient{accessKey: accessKey, baseURL: baseURL, client: newHTTPClient()}
}

type unsplashResponse struct {
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Results    []struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		AltDesc     string `json:"alt_description"`
		URLs        struct {
			Regular string `json:"regular"`
			Thumb   string `json:"thumb"`
		} `json:"urls"`
		User struct {
			Name  string `json:"name"`
			Links struct {
				HTML string `json:"html"`
			} `json:"links"`
		} `json:"user"`
	} `json:"results"`
}

// Search runs a landscape-oriented keyword search and returns one page of
// normalized results. Returns ErrPhotoKeyInvalid on upstream 401 and
// ErrPhotoRateLimited on upstream 403.
func (c *UnsplashClient) Search(ctx context.Context, query string, page, perPage int) (PhotoPage, error) {
	endpoint := c.baseURL + "?query=" + url.QueryEscape(query) +
		"&page=" + strconv.Itoa(page) +
		"&per_page=" + strconv.Itoa(perPage) +
		"&orientation=landscape"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return PhotoPage{}, fmt.Errorf("creating request for %s: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return PhotoPage{}, fmt.Errorf("unsplash search for %q: %w", query, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return PhotoPage{}, ErrPhotoKeyInvalid
	case http.StatusForbidden:
		return PhotoPage{}, ErrPhotoRateLimited
	default:
		return PhotoPage{}, fmt.Errorf("unsplash search for %q returned status %d", query, resp.StatusCode)
	}

	var raw unsplashResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return PhotoPage{}, fmt.Errorf("decoding unsplash response for %q: %w", query, err)
	}

	images := make([]Photo, 0, len(raw.Results))
	for _, r := range raw.Results {
		desc := r.Description
		if desc == "" {
			desc = r.AltDesc
		}
		images = append(images, Photo{
			ID:              r.ID,
			URL:             r.URLs.Regular,
			Thumb:           r.URLs.Thumb,
			Description:     desc,
			Photographer:    r.User.Name,
			PhotographerURL: r.User.Links.HTML,
		})
	}

	return PhotoPage{Images: images, Total: raw.Total, TotalPages: raw.TotalPages}, nil
}

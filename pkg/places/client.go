// Package places is a client for the Google Places web service endpoints
// used by lead discovery: paged text search and per-place detail lookup.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Page statuses with success semantics. Any other status is an upstream
// failure and carries an optional error_message.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

// Client performs Places API operations.
type Client interface {
	TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error)
	Details(ctx context.Context, placeID string, fields []string) (*DetailsResponse, error)
}

// LatLng is a geographic coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TextSearchRequest parameterizes a text search page request. PageToken
// continues a previous search; the service requires a short pause before a
// continuation token becomes valid.
type TextSearchRequest struct {
	Query        string
	Location     *LatLng
	RadiusMeters int
	PageToken    string
}

// TextSearchResponse is one page of text search results.
type TextSearchResponse struct {
	Status        string  `json:"status"`
	ErrorMessage  string  `json:"error_message"`
	Results       []Place `json:"results"`
	NextPageToken string  `json:"next_page_token"`
}

// DetailsResponse is the response from a place details lookup.
type DetailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       *Place `json:"result"`
}

// Place is a place record as returned by the API. Search pages return a
// subset of fields; Details fills in the rest per the requested field mask.
type Place struct {
	PlaceID            string    `json:"place_id"`
	Name               string    `json:"name"`
	Rating             float64   `json:"rating"`
	UserRatingsTotal   int       `json:"user_ratings_total"`
	NationalPhone      string    `json:"formatted_phone_number"`
	InternationalPhone string    `json:"international_phone_number"`
	Website            string    `json:"website"`
	BusinessStatus     string    `json:"business_status"`
	Types              []string  `json:"types"`
	Address            string    `json:"formatted_address"`
	Photos             []Photo   `json:"photos"`
	Geometry           *Geometry `json:"geometry"`
}

// Photo references a place photo.
type Photo struct {
	Reference string `json:"photo_reference"`
}

// Geometry holds a place's coordinate.
type Geometry struct {
	Location LatLng `json:"location"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	if req.PageToken != "" {
		// A continuation request repeats only the token and key.
		q.Set("pagetoken", req.PageToken)
	} else {
		q.Set("query", req.Query)
		if req.Location != nil {
			q.Set("location", fmt.Sprintf("%f,%f", req.Location.Lat, req.Location.Lng))
		}
		if req.RadiusMeters > 0 {
			q.Set("radius", fmt.Sprintf("%d", req.RadiusMeters))
		}
	}

	var result TextSearchResponse
	if err := c.get(ctx, "/textsearch/json", q, &result); err != nil {
		return nil, eris.Wrap(err, "places: text search")
	}
	return &result, nil
}

func (c *httpClient) Details(ctx context.Context, placeID string, fields []string) (*DetailsResponse, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("place_id", placeID)
	if len(fields) > 0 {
		q.Set("fields", strings.Join(fields, ","))
	}

	var result DetailsResponse
	if err := c.get(ctx, "/details/json", q, &result); err != nil {
		return nil, eris.Wrapf(err, "places: details %s", placeID)
	}
	return &result, nil
}

func (c *httpClient) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}

package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "RicoAgent/1.0"
	DefaultTimeout   = 10 * time.Second
)

var (
	ErrTimedOut    = errors.New("geocode: service timed out")
	ErrUnavailable = errors.New("geocode: service unavailable")
	ErrService     = errors.New("geocode: service error")
)

// Location is a resolved place.
type Location struct {
	Address   string
	Latitude  float64
	Longitude float64
}

// Geocoder resolves a free-form place name. A nil Location with a nil error
// means the service had no match.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Location, error)
}

// Nominatim geocodes through the OpenStreetMap Nominatim search API.
type Nominatim struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	client    *http.Client
}

type Option func(*Nominatim)

func WithBaseURL(baseURL string) Option {
	return func(n *Nominatim) {
		if baseURL != "" {
			n.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithUserAgent sets the User-Agent header. Nominatim rejects generic agents.
func WithUserAgent(userAgent string) Option {
	return func(n *Nominatim) {
		if userAgent != "" {
			n.userAgent = userAgent
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(n *Nominatim) {
		if timeout > 0 {
			n.timeout = timeout
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(n *Nominatim) {
		if client != nil {
			n.client = client
		}
	}
}

func NewNominatim(opts ...Option) *Nominatim {
	n := &Nominatim{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
		client:    &http.Client{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (n *Nominatim) Geocode(ctx context.Context, query string) (*Location, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: build request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s", ErrService, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(err)
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrService, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: parse latitude %q: %v", ErrService, results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: parse longitude %q: %v", ErrService, results[0].Lon, err)
	}

	return &Location{
		Address:   results[0].DisplayName,
		Latitude:  lat,
		Longitude: lon,
	}, nil
}

func classify(err error) error {
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimedOut, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("geocode: %w", err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

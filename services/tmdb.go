// Package services provides external service integrations.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"randommovie/config"
)

// TMDBService handles interactions with The Movie Database API
type TMDBService struct {
	apiKey       string
	authMode     config.AuthMode
	baseURL      string
	imageBaseURL string
	client       *http.Client
}

// StatusError is returned when TMDB answers with a non-2xx status
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("TMDB API returned status %d for %s", e.StatusCode, e.Path)
}

// DiscoverResponse is one page of GET /discover/movie
type DiscoverResponse struct {
	Page         int             `json:"page"`
	Results      []DiscoverMovie `json:"results"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int             `json:"total_results"`
}

// DiscoverMovie is a single discover result. ID is 0 when TMDB omitted it.
type DiscoverMovie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
}

// MovieDetails represents a movie response from GET /movie/{id}
type MovieDetails struct {
	ID         int     `json:"id"`
	Title      string  `json:"title"`
	Overview   *string `json:"overview"`
	PosterPath *string `json:"poster_path"`
	Runtime    *int    `json:"runtime"`
}

// VideosResponse is the response from GET /movie/{id}/videos
type VideosResponse struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

// Video is a single video entry
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// WatchProvidersResponse is the response from GET /movie/{id}/watch/providers, keyed by region
type WatchProvidersResponse struct {
	ID      int                        `json:"id"`
	Results map[string]RegionProviders `json:"results"`
}

// RegionProviders lists the providers for one region
type RegionProviders struct {
	Link     *string         `json:"link"`
	Flatrate []WatchProvider `json:"flatrate"`
	Rent     []WatchProvider `json:"rent"`
	Buy      []WatchProvider `json:"buy"`
}

// WatchProvider is a single provider entry
type WatchProvider struct {
	ProviderID      int    `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

// ReleaseDatesResponse is the response from GET /movie/{id}/release_dates
type ReleaseDatesResponse struct {
	ID      int                `json:"id"`
	Results []ReleaseDateBlock `json:"results"`
}

// ReleaseDateBlock groups release dates for one country
type ReleaseDateBlock struct {
	ISO31661     string        `json:"iso_3166_1"`
	ReleaseDates []ReleaseDate `json:"release_dates"`
}

// ReleaseDate is a single release entry with its certification
type ReleaseDate struct {
	Certification string `json:"certification"`
	ReleaseDate   string `json:"release_date"`
	Type          int    `json:"type"`
}

// NewTMDBService creates a new TMDB service instance from startup configuration
func NewTMDBService(cfg *config.Config) (*TMDBService, error) {
	mode, err := config.ParseAuthMode(string(cfg.TMDBAuthMode))
	if err != nil {
		return nil, err
	}

	return &TMDBService{
		apiKey:       cfg.TMDBAPIKey,
		authMode:     mode,
		baseURL:      strings.TrimRight(cfg.TMDBBaseURL, "/"),
		imageBaseURL: cfg.TMDBImageBaseURL,
		client: &http.Client{
			Timeout: cfg.TMDBTimeout,
		},
	}, nil
}

// HasAPIKey reports whether a credential is configured, and its length
func (t *TMDBService) HasAPIKey() (bool, int) {
	return t.apiKey != "", len(t.apiKey)
}

// GetMovie fetches movie details from TMDB by ID
func (t *TMDBService) GetMovie(ctx context.Context, movieID int) (*MovieDetails, error) {
	var details MovieDetails
	if err := t.get(ctx, fmt.Sprintf("/movie/%d", movieID), nil, &details); err != nil {
		return nil, fmt.Errorf("failed to fetch movie %d: %w", movieID, err)
	}
	return &details, nil
}

// GetMovieVideos fetches the videos attached to a movie
func (t *TMDBService) GetMovieVideos(ctx context.Context, movieID int) (*VideosResponse, error) {
	var videos VideosResponse
	if err := t.get(ctx, fmt.Sprintf("/movie/%d/videos", movieID), nil, &videos); err != nil {
		return nil, fmt.Errorf("failed to fetch videos for movie %d: %w", movieID, err)
	}
	return &videos, nil
}

// GetWatchProviders fetches the per-region watch providers of a movie
func (t *TMDBService) GetWatchProviders(ctx context.Context, movieID int) (*WatchProvidersResponse, error) {
	var providers WatchProvidersResponse
	if err := t.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", movieID), nil, &providers); err != nil {
		return nil, fmt.Errorf("failed to fetch watch providers for movie %d: %w", movieID, err)
	}
	return &providers, nil
}

// GetReleaseDates fetches the per-country release dates and certifications of a movie
func (t *TMDBService) GetReleaseDates(ctx context.Context, movieID int) (*ReleaseDatesResponse, error) {
	var releases ReleaseDatesResponse
	if err := t.get(ctx, fmt.Sprintf("/movie/%d/release_dates", movieID), nil, &releases); err != nil {
		return nil, fmt.Errorf("failed to fetch release dates for movie %d: %w", movieID, err)
	}
	return &releases, nil
}

// DiscoverMovies runs a discover query. params is not modified.
func (t *TMDBService) DiscoverMovies(ctx context.Context, params url.Values) (*DiscoverResponse, error) {
	var page DiscoverResponse
	if err := t.get(ctx, "/discover/movie", params, &page); err != nil {
		return nil, fmt.Errorf("failed to discover movies: %w", err)
	}
	return &page, nil
}

// PosterURL builds a display URL for an image path, or nil when there is no path
func (t *TMDBService) PosterURL(path *string) *string {
	return imageURL(t.imageBaseURL, path)
}

// LogoURL builds a display URL for a provider logo path
func (t *TMDBService) LogoURL(path string) *string {
	return imageURL(t.imageBaseURL, &path)
}

func imageURL(base string, path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	u := base + *path
	return &u
}

func (t *TMDBService) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	query := url.Values{}
	for key, values := range params {
		query[key] = append([]string(nil), values...)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	switch t.authMode {
	case config.AuthModeV4:
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	case config.AuthModeV3:
		query.Set("api_key", t.apiKey)
	}
	req.URL.RawQuery = query.Encode()

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Path: path, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode TMDB response: %w", err)
	}
	return nil
}

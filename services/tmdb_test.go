package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"randommovie/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestTMDB(t *testing.T, mode config.AuthMode, handler http.HandlerFunc) *TMDBService {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewTMDBService(&config.Config{
		TMDBAPIKey:       "test-key",
		TMDBAuthMode:     mode,
		TMDBBaseURL:      server.URL + "/3",
		TMDBImageBaseURL: "https://image.tmdb.org/t/p/w500",
		TMDBTimeout:      5 * time.Second,
	})
	require.NoError(t, err)
	return svc
}

func TestNewTMDBService_InvalidAuthMode(t *testing.T) {
	_, err := NewTMDBService(&config.Config{TMDBAPIKey: "k", TMDBAuthMode: "v9"})
	assert.Error(t, err)
}

func TestGetMovie_BearerAuth(t *testing.T) {
	svc := setupTestTMDB(t, config.AuthModeV4, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/603", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 603, "title": "The Matrix", "overview": "Neo", "poster_path": "/m.jpg", "runtime": 136}`))
	})

	movie, err := svc.GetMovie(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, 603, movie.ID)
	assert.Equal(t, "The Matrix", movie.Title)
	require.NotNil(t, movie.Runtime)
	assert.Equal(t, 136, *movie.Runtime)
	require.NotNil(t, movie.PosterPath)
	assert.Equal(t, "/m.jpg", *movie.PosterPath)
}

func TestGetMovieVideos_QueryKeyAuth(t *testing.T) {
	svc := setupTestTMDB(t, config.AuthModeV3, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/42/videos", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		_, _ = w.Write([]byte(`{"id": 42, "results": [{"site": "YouTube", "type": "Trailer", "key": "abc123"}]}`))
	})

	videos, err := svc.GetMovieVideos(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, videos.Results, 1)
	assert.Equal(t, "abc123", videos.Results[0].Key)
}

func TestGetWatchProvidersAndReleaseDates(t *testing.T) {
	svc := setupTestTMDB(t, config.AuthModeV4, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3/movie/7/watch/providers":
			_, _ = w.Write([]byte(`{"id": 7, "results": {"US": {"link": "https://tmdb/watch", "flatrate": [{"provider_id": 8, "provider_name": "Netflix"}]}}}`))
		case "/3/movie/7/release_dates":
			_, _ = w.Write([]byte(`{"id": 7, "results": [{"iso_3166_1": "US", "release_dates": [{"certification": "R", "type": 3}]}]}`))
		default:
			http.NotFound(w, r)
		}
	})

	providers, err := svc.GetWatchProviders(context.Background(), 7)
	require.NoError(t, err)
	require.Contains(t, providers.Results, "US")
	assert.Len(t, providers.Results["US"].Flatrate, 1)

	releases, err := svc.GetReleaseDates(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, releases.Results, 1)
	assert.Equal(t, "R", releases.Results[0].ReleaseDates[0].Certification)
}

func TestDiscoverMovies_PassesParams(t *testing.T) {
	svc := setupTestTMDB(t, config.AuthModeV3, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/discover/movie", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "28,12", q.Get("with_genres"))
		assert.Equal(t, "3", q.Get("page"))
		assert.Equal(t, "test-key", q.Get("api_key"))
		_, _ = w.Write([]byte(`{"page": 3, "total_pages": 12, "results": [{"id": 1}, {"title": "no id"}]}`))
	})

	params := url.Values{}
	params.Set("with_genres", "28,12")
	params.Set("page", "3")

	page, err := svc.DiscoverMovies(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 12, page.TotalPages)
	require.Len(t, page.Results, 2)
	assert.Equal(t, 1, page.Results[0].ID)
	assert.Equal(t, 0, page.Results[1].ID)

	// caller's params must not pick up the credential
	assert.Empty(t, params.Get("api_key"))
}

func TestGet_StatusError(t *testing.T) {
	svc := setupTestTMDB(t, config.AuthModeV4, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := svc.GetMovie(context.Background(), 1)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "/movie/1", statusErr.Path)
}

func TestGet_DecodeError(t *testing.T) {
	svc := setupTestTMDB(t, config.AuthModeV4, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := svc.GetReleaseDates(context.Background(), 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestPosterURL(t *testing.T) {
	svc := &TMDBService{imageBaseURL: "https://image.tmdb.org/t/p/w500"}

	assert.Nil(t, svc.PosterURL(nil))
	empty := ""
	assert.Nil(t, svc.PosterURL(&empty))

	path := "/poster.png"
	u := svc.PosterURL(&path)
	require.NotNil(t, u)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.png", *u)

	assert.Nil(t, svc.LogoURL(""))
	logo := svc.LogoURL("/logo.png")
	require.NotNil(t, logo)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/logo.png", *logo)
}

func TestHasAPIKey(t *testing.T) {
	svc := &TMDBService{apiKey: "abcd"}
	ok, n := svc.HasAPIKey()
	assert.True(t, ok)
	assert.Equal(t, 4, n)
}

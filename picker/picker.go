// Package picker finds a random movie that satisfies a set of filters by rerolling
// random TMDB discover picks until one passes every check.
package picker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"randommovie/models"
	"randommovie/services"
)

// TMDB refuses discover pages past this number
const MaxDiscoverPages = 500

// DefaultRegion is used for provider and rating lookups when no region is given
const DefaultRegion = "US"

// Sentinel errors for the two not-found outcomes
var (
	ErrNoMoviesFound    = errors.New("no movies found for filters")
	ErrRerollsExhausted = errors.New("exhausted rerolls without a match")
)

// Catalog is the subset of the TMDB client the picker depends on
type Catalog interface {
	DiscoverMovies(ctx context.Context, params url.Values) (*services.DiscoverResponse, error)
	GetMovie(ctx context.Context, movieID int) (*services.MovieDetails, error)
	GetMovieVideos(ctx context.Context, movieID int) (*services.VideosResponse, error)
	GetWatchProviders(ctx context.Context, movieID int) (*services.WatchProvidersResponse, error)
	GetReleaseDates(ctx context.Context, movieID int) (*services.ReleaseDatesResponse, error)
	PosterURL(path *string) *string
	LogoURL(path string) *string
}

// Randomizer returns a uniform int in [0, n)
type Randomizer interface {
	IntN(n int) int
}

type randFunc func(int) int

func (f randFunc) IntN(n int) int { return f(n) }

// Picker runs the reroll loop against a Catalog
type Picker struct {
	catalog Catalog
	rng     Randomizer
}

// New creates a Picker. A nil rng uses the global math/rand/v2 source.
func New(catalog Catalog, rng Randomizer) *Picker {
	if rng == nil {
		rng = randFunc(rand.IntN)
	}
	return &Picker{catalog: catalog, rng: rng}
}

// BuildDiscoverParams translates filters into a discover query for page 1
func BuildDiscoverParams(f models.Filters) url.Values {
	params := url.Values{}
	params.Set("include_adult", "false")
	params.Set("include_video", "false")
	params.Set("sort_by", "popularity.desc")
	params.Set("page", "1")

	if f.Region != "" {
		params.Set("region", f.Region)
	}
	if len(f.GenreIDs) > 0 {
		params.Set("with_genres", joinInts(f.GenreIDs))
	}
	if len(f.ExcludeGenreIDs) > 0 {
		params.Set("without_genres", joinInts(f.ExcludeGenreIDs))
	}

	gte, lte := f.ReleaseDateRange()
	if gte != "" {
		params.Set("primary_release_date.gte", gte)
	}
	if lte != "" {
		params.Set("primary_release_date.lte", lte)
	}

	if f.RatingMin != nil {
		params.Set("vote_average.gte", strconv.FormatFloat(*f.RatingMin, 'f', -1, 64))
	}
	if f.VoteCountMin != nil {
		params.Set("vote_count.gte", strconv.Itoa(*f.VoteCountMin))
	}
	if f.Language != "" {
		params.Set("with_original_language", f.Language)
	}
	if f.RuntimeMin != nil {
		params.Set("with_runtime.gte", strconv.Itoa(*f.RuntimeMin))
	}
	if f.RuntimeMax != nil {
		params.Set("with_runtime.lte", strconv.Itoa(*f.RuntimeMax))
	}

	return params
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Pick returns the first random candidate that passes every filter, trying at most
// rerollMax candidates. Empty pages and candidates without an id use up an attempt.
func (p *Picker) Pick(ctx context.Context, f models.Filters, rerollMax int) (*models.MovieResult, error) {
	params := BuildDiscoverParams(f)

	first, err := p.catalog.DiscoverMovies(ctx, params)
	if err != nil {
		return nil, err
	}
	totalPages := first.TotalPages
	if totalPages <= 0 {
		return nil, ErrNoMoviesFound
	}
	totalPages = min(totalPages, MaxDiscoverPages)

	region := f.Region
	if region == "" {
		region = DefaultRegion
	}
	ratingRegion := f.ContentRatingRegion
	if ratingRegion == "" {
		ratingRegion = region
	}

	for attempt := 1; attempt <= rerollMax; attempt++ {
		page := p.rng.IntN(totalPages) + 1
		params.Set("page", strconv.Itoa(page))

		result, skip, err := p.tryPage(ctx, f, params, region, ratingRegion)
		if err != nil {
			return nil, err
		}
		if result != nil {
			log.Printf("Picked movie %d (%s) on attempt %d/%d", result.ID, result.Title, attempt, rerollMax)
			return result, nil
		}
		log.Printf("Reroll %d/%d (page %d): %s", attempt, rerollMax, page, skip)
	}

	return nil, ErrRerollsExhausted
}

// tryPage runs one attempt. It returns a result, or a skip reason when a filter rejected
// the candidate, or an error when TMDB failed.
func (p *Picker) tryPage(ctx context.Context, f models.Filters, params url.Values, region, ratingRegion string) (*models.MovieResult, string, error) {
	page, err := p.catalog.DiscoverMovies(ctx, params)
	if err != nil {
		return nil, "", err
	}
	if len(page.Results) == 0 {
		return nil, "empty page", nil
	}

	pick := page.Results[p.rng.IntN(len(page.Results))]
	if pick.ID == 0 {
		return nil, "candidate has no id", nil
	}
	movieID := pick.ID
	label := describeCandidate(pick)

	videos, err := p.catalog.GetMovieVideos(ctx, movieID)
	if err != nil {
		return nil, "", err
	}
	trailerURL := services.ExtractTrailerURL(videos)

	providers, err := p.catalog.GetWatchProviders(ctx, movieID)
	if err != nil {
		return nil, "", err
	}
	whereToWatch := services.ExtractProviders(providers, region, p.catalog.LogoURL)

	if f.MustBeStreaming && !whereToWatch.IsStreaming() {
		return nil, fmt.Sprintf("%s is not streaming in %s", label, region), nil
	}

	var cert *string
	if f.WantsContentRating() {
		releases, err := p.catalog.GetReleaseDates(ctx, movieID)
		if err != nil {
			return nil, "", err
		}
		cert = services.ExtractCertification(releases, ratingRegion)

		if len(f.ContentRatingInclude) > 0 && (cert == nil || !slices.Contains(f.ContentRatingInclude, *cert)) {
			return nil, fmt.Sprintf("%s rating %s not in %v", label, describeCert(cert), f.ContentRatingInclude), nil
		}
		if len(f.ContentRatingExclude) > 0 && cert != nil && slices.Contains(f.ContentRatingExclude, *cert) {
			return nil, fmt.Sprintf("%s rating %s is excluded", label, *cert), nil
		}
	}

	details, err := p.catalog.GetMovie(ctx, movieID)
	if err != nil {
		return nil, "", err
	}

	title := details.Title
	if title == "" {
		title = "Unknown title"
	}

	return &models.MovieResult{
		ID:            details.ID,
		Title:         title,
		Overview:      details.Overview,
		PosterURL:     p.catalog.PosterURL(details.PosterPath),
		Runtime:       details.Runtime,
		TrailerURL:    trailerURL,
		WhereToWatch:  whereToWatch,
		ContentRating: cert,
	}, "", nil
}

// describeCandidate renders a discover result as "Title (1999) #603" for log lines
func describeCandidate(m services.DiscoverMovie) string {
	title := m.Title
	if title == "" {
		title = "movie"
	}
	if len(m.ReleaseDate) >= 4 {
		return fmt.Sprintf("%s (%s) #%d", title, m.ReleaseDate[:4], m.ID)
	}
	return fmt.Sprintf("%s #%d", title, m.ID)
}

func describeCert(cert *string) string {
	if cert == nil {
		return "<none>"
	}
	return *cert
}

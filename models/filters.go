// Package models defines the data structures used throughout the application.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Reroll bounds for a single random-movie request
const (
	DefaultRerollMax = 10
	MinRerollMax     = 1
	MaxRerollMax     = 50
)

// Filters constrains which movie may be picked. Every field is optional.
// YearMin, YearMax and Decade treat 0 as unset.
type Filters struct {
	GenreIDs        []int    `json:"genre_ids,omitempty"`
	ExcludeGenreIDs []int    `json:"exclude_genre_ids,omitempty"`
	YearMin         int      `json:"year_min,omitempty"`
	YearMax         int      `json:"year_max,omitempty"`
	Decade          int      `json:"decade,omitempty"` // 1990 means 1990-1999
	RatingMin       *float64 `json:"rating_min,omitempty"`
	VoteCountMin    *int     `json:"vote_count_min,omitempty"`
	Language        string   `json:"language,omitempty"`
	Region          string   `json:"region,omitempty"`
	RuntimeMin      *int     `json:"runtime_min,omitempty"` // minutes
	RuntimeMax      *int     `json:"runtime_max,omitempty"` // minutes
	MustBeStreaming bool     `json:"must_be_streaming,omitempty"`

	// Content ratings are region specific, e.g. "PG-13" in US
	ContentRatingInclude []string `json:"content_rating_include,omitempty"`
	ContentRatingExclude []string `json:"content_rating_exclude,omitempty"`
	ContentRatingRegion  string   `json:"content_rating_region,omitempty"` // defaults to Region
}

// RandomMovieRequest is the body of POST /random-movie
type RandomMovieRequest struct {
	Filters   Filters `json:"filters"`
	RerollMax int     `json:"reroll_max"`
}

// NewRandomMovieRequest returns a request with default values applied
func NewRandomMovieRequest() RandomMovieRequest {
	return RandomMovieRequest{RerollMax: DefaultRerollMax}
}

// DecodeRandomMovieRequest reads a POST /random-movie body. An empty body yields the
// defaults. The body must be a single JSON object, and filters and reroll_max may be
// omitted but not null.
func DecodeRandomMovieRequest(body io.Reader) (RandomMovieRequest, error) {
	req := NewRandomMovieRequest()

	data, err := io.ReadAll(body)
	if err != nil {
		return req, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return req, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return req, fmt.Errorf("invalid JSON: %w", err)
	}
	if fields == nil {
		return req, errors.New("request body must be a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return req, errors.New("unexpected data after JSON object")
	}
	for _, key := range []string{"filters", "reroll_max"} {
		if raw, ok := fields[key]; ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return req, fmt.Errorf("%s must not be null", key)
		}
	}

	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("invalid JSON: %w", err)
	}
	return req, nil
}

// Validate checks the request bounds
func (r RandomMovieRequest) Validate() error {
	if r.RerollMax < MinRerollMax || r.RerollMax > MaxRerollMax {
		return fmt.Errorf("reroll_max must be between %d and %d, got %d", MinRerollMax, MaxRerollMax, r.RerollMax)
	}
	return nil
}

// WantsContentRating reports whether a certification lookup is needed
func (f Filters) WantsContentRating() bool {
	return len(f.ContentRatingInclude) > 0 || len(f.ContentRatingExclude) > 0
}

// ReleaseDateRange returns the primary release date bounds derived from the year filters.
// Explicit years take precedence; Decade only applies when neither is set.
func (f Filters) ReleaseDateRange() (gte, lte string) {
	if f.YearMin != 0 {
		gte = fmt.Sprintf("%d-01-01", f.YearMin)
	}
	if f.YearMax != 0 {
		lte = fmt.Sprintf("%d-12-31", f.YearMax)
	}
	if f.Decade != 0 && f.YearMin == 0 && f.YearMax == 0 {
		gte = fmt.Sprintf("%d-01-01", f.Decade)
		lte = fmt.Sprintf("%d-12-31", f.Decade+9)
	}
	return gte, lte
}

package models

// MovieResult is the movie returned by POST /random-movie
type MovieResult struct {
	ID            int           `json:"id"`
	Title         string        `json:"title"`
	Overview      *string       `json:"overview"`
	PosterURL     *string       `json:"poster_url"`
	Runtime       *int          `json:"runtime"` // in minutes
	TrailerURL    *string       `json:"trailer_url"`
	WhereToWatch  *WhereToWatch `json:"where_to_watch"`
	ContentRating *string       `json:"content_rating"`
}

// WhereToWatch lists the providers offering a movie in one region
type WhereToWatch struct {
	Region   string     `json:"region"`
	Link     *string    `json:"link"`
	Flatrate []Provider `json:"flatrate"`
	Rent     []Provider `json:"rent"`
	Buy      []Provider `json:"buy"`
}

// IsStreaming reports whether any subscription provider carries the movie
func (w *WhereToWatch) IsStreaming() bool {
	return w != nil && len(w.Flatrate) > 0
}

// Provider is a single watch provider entry
type Provider struct {
	ProviderID      int     `json:"provider_id"`
	ProviderName    string  `json:"provider_name"`
	LogoPath        string  `json:"logo_path,omitempty"`
	LogoURL         *string `json:"logo_url,omitempty"`
	DisplayPriority int     `json:"display_priority"`
}

// MovieSummary is the short form returned by GET /tmdb-test
type MovieSummary struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Overview  *string `json:"overview"`
	PosterURL *string `json:"poster_url"`
}

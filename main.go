// Package main provides the entry point for the random movie API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"randommovie/config"
	"randommovie/logging"
	"randommovie/middleware"
	"randommovie/models"
	"randommovie/picker"
	"randommovie/services"

	"github.com/gorilla/mux"
)

// Movie used by the TMDB connectivity check
const tmdbTestMovieID = 603

type moviePicker interface {
	Pick(ctx context.Context, f models.Filters, rerollMax int) (*models.MovieResult, error)
}

type tmdbClient interface {
	GetMovie(ctx context.Context, movieID int) (*services.MovieDetails, error)
	PosterURL(path *string) *string
	HasAPIKey() (bool, int)
}

// App represents the application with its dependencies
type App struct {
	picker      moviePicker
	tmdbService tmdbClient
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	logCloser := logging.Setup(cfg.LogFile)
	defer func() {
		if err := logCloser.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}()

	tmdbService, err := services.NewTMDBService(cfg)
	if err != nil {
		log.Fatal("Failed to initialize TMDB service: ", err)
	}
	log.Printf("TMDB client ready (auth mode %s, base %s)", cfg.TMDBAuthMode, cfg.TMDBBaseURL)

	app := &App{
		picker:      picker.New(tmdbService, nil),
		tmdbService: tmdbService,
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server starting on :%s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("Server stopped: %v", err)
	}
}

func (app *App) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)

	r.HandleFunc("/", rootHandler).Methods("GET")
	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.HandleFunc("/debug-key", app.debugKeyHandler).Methods("GET")
	r.HandleFunc("/tmdb-test", app.tmdbTestHandler).Methods("GET")
	r.HandleFunc("/random-movie", app.randomMovieHandler).Methods("POST")

	return r
}

func rootHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "API is running. Go to /docs"})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// debugKeyHandler reports whether a TMDB key is configured without revealing it
func (app *App) debugKeyHandler(w http.ResponseWriter, _ *http.Request) {
	hasKey, length := app.tmdbService.HasAPIKey()
	writeJSON(w, http.StatusOK, map[string]interface{}{"has_key": hasKey, "len": length})
}

func (app *App) tmdbTestHandler(w http.ResponseWriter, r *http.Request) {
	movie, err := app.tmdbService.GetMovie(r.Context(), tmdbTestMovieID)
	if err != nil {
		log.Printf("Error fetching test movie from TMDB: %v", err)
		writeDetail(w, http.StatusBadGateway, "Failed to fetch movie from TMDB")
		return
	}

	writeJSON(w, http.StatusOK, models.MovieSummary{
		ID:        movie.ID,
		Title:     movie.Title,
		Overview:  movie.Overview,
		PosterURL: app.tmdbService.PosterURL(movie.PosterPath),
	})
}

func (app *App) randomMovieHandler(w http.ResponseWriter, r *http.Request) {
	req, err := models.DecodeRandomMovieRequest(r.Body)
	if err != nil {
		log.Printf("Rejected random-movie request: %v", err)
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	movie, err := app.picker.Pick(r.Context(), req.Filters, req.RerollMax)
	switch {
	case errors.Is(err, picker.ErrNoMoviesFound):
		writeDetail(w, http.StatusNotFound, "No movies found for those filters.")
	case errors.Is(err, picker.ErrRerollsExhausted):
		writeDetail(w, http.StatusNotFound, "Could not find a movie after rerolls.")
	case err != nil:
		log.Printf("Error picking random movie: %v", err)
		writeDetail(w, http.StatusBadGateway, "Failed to fetch movie from TMDB")
	default:
		writeJSON(w, http.StatusOK, movie)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

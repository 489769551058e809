// Package handler exposes the HTTP handlers for the public API. This file
// covers the movie catalog endpoints: the full list (optionally with
// nested availability) and single-movie lookup.
package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kazetani/ghibli-watch-api/internal/availability"
	"github.com/kazetani/ghibli-watch-api/internal/repository"
)

// MovieHandler serves /api/movies and /api/movies/:id.
type MovieHandler struct {
	MovieRepo *repository.MovieRepo
	Resolver  *availability.Resolver
}

// movieWithAvailability is the list/detail response shape when nested
// availability is requested.
type movieWithAvailability struct {
	repository.Movie
	Availabilities []repository.Availability `json:"availabilities"`
}

// GetMovies handles GET /api/movies?includeAvailability=&region=.
// Without includeAvailability=true the body is a bare array of movies.
// With it, each movie carries an "availabilities" array (possibly empty),
// optionally restricted to one region. A single region-wide resolver
// call is grouped per movie instead of a query per row.
func (h *MovieHandler) GetMovies(c echo.Context) error {
	ctx := c.Request().Context()

	movies, err := h.MovieRepo.ListAll(ctx)
	if err != nil {
		log.Printf("movies: list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if c.QueryParam("includeAvailability") != "true" {
		if movies == nil {
			movies = []repository.Movie{}
		}
		return c.JSON(http.StatusOK, movies)
	}

	options, err := h.Resolver.ResolveForRegion(ctx, c.QueryParam("region"), "")
	if err != nil {
		log.Printf("movies: resolve availability: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	byMovie := make(map[string][]repository.Availability, len(movies))
	for _, opt := range options {
		byMovie[opt.MovieID] = append(byMovie[opt.MovieID], opt)
	}

	out := make([]movieWithAvailability, 0, len(movies))
	for _, m := range movies {
		avail := byMovie[m.ID]
		if avail == nil {
			avail = []repository.Availability{}
		}
		out = append(out, movieWithAvailability{Movie: m, Availabilities: avail})
	}
	return c.JSON(http.StatusOK, out)
}

// GetMovie handles GET /api/movies/:id, returning the movie together
// with its availability (empty while the schema is absent).
func (h *MovieHandler) GetMovie(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	m, err := h.MovieRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		log.Printf("movies: get %s: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	res, err := h.Resolver.ResolveForMovie(ctx, id, c.QueryParam("region"))
	if err != nil {
		log.Printf("movies: resolve %s: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, movieWithAvailability{Movie: *m, Availabilities: res.Options})
}

package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kazetani/ghibli-watch-api/internal/repository"
)

// SearchMovies handles GET /api/movies/search?q=. The q parameter is
// required; queries shorter than two characters return an empty result
// without touching the store. Matching is a case-insensitive substring
// match across the English, Japanese and Chinese titles.
func (h *MovieHandler) SearchMovies(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q is required"})
	}
	if len([]rune(q)) < 2 {
		return c.JSON(http.StatusOK, echo.Map{"movies": []repository.MovieSummary{}})
	}

	movies, err := h.MovieRepo.Search(c.Request().Context(), q)
	if err != nil {
		log.Printf("movies: search %q: %v", q, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

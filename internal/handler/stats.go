// Package handler exposes the HTTP handlers for the public API. This file
// covers movie stats: reading the per-movie counters and recording
// view/favorite/share events. The increment itself is a single atomic
// upsert in the repository; this layer only validates input, maps errors
// and fans the event out to the broker.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kazetani/ghibli-watch-api/internal/queue"
	"github.com/kazetani/ghibli-watch-api/internal/repository"
)

// StatsHandler serves GET and POST /api/movies/stats. Publish, when set,
// is called after a successful increment; publish failures are logged
// and never fail the request.
type StatsHandler struct {
	StatsRepo *repository.StatsRepo
	Publish   func(ctx context.Context, ev queue.StatRecordedEvent) error
}

// statEventRequest is the POST body.
type statEventRequest struct {
	MovieID string `json:"movieId"`
	Action  string `json:"action"`
}

// GetStats handles GET /api/movies/stats?movieId=. A movie with no
// events yet reports zero counters.
func (h *StatsHandler) GetStats(c echo.Context) error {
	movieID := c.QueryParam("movieId")
	if movieID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movieId is required"})
	}

	stats, err := h.StatsRepo.Get(c.Request().Context(), movieID)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		log.Printf("stats: get %s: %v", movieID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, stats)
}

// RecordStat handles POST /api/movies/stats with body
// {"movieId": ..., "action": "view"|"favorite"|"share"}.
func (h *StatsHandler) RecordStat(c echo.Context) error {
	var req statEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.MovieID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movieId is required"})
	}
	switch req.Action {
	case repository.StatView, repository.StatFavorite, repository.StatShare:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported action"})
	}

	stats, err := h.StatsRepo.RecordEvent(c.Request().Context(), req.MovieID, req.Action)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		if errors.Is(err, repository.ErrUnknownStatKind) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported action"})
		}
		log.Printf("stats: record %s %s: %v", req.Action, req.MovieID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if h.Publish != nil {
		ev := queue.StatRecordedEvent{
			MovieID:       stats.MovieID,
			Kind:          req.Action,
			ViewCount:     stats.ViewCount,
			FavoriteCount: stats.FavoriteCount,
			ShareCount:    stats.ShareCount,
			OccurredAt:    time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Publish(c.Request().Context(), ev); err != nil {
			log.Printf("stats: publish event for %s: %v", stats.MovieID, err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "stats": stats})
}

// Package handler exposes the HTTP handlers for the public API. This file
// covers the availability endpoints: "where can I watch this movie" and
// the region listing. Responses degrade to empty arrays while the
// availability schema has not been rolled out yet; that state is not an
// error.
package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kazetani/ghibli-watch-api/internal/availability"
)

// AvailabilityHandler serves /api/availability and /api/regions.
type AvailabilityHandler struct {
	Resolver *availability.Resolver
}

// GetAvailability handles GET /api/availability?movieId=&region=.
// The response body is a bare JSON array of availability rows with their
// platform, region and movie summary. When scoped to a movie, the data
// freshness (newest last-checked timestamp) is exposed via the
// X-Data-Freshness header.
func (h *AvailabilityHandler) GetAvailability(c echo.Context) error {
	ctx := c.Request().Context()
	movieID := c.QueryParam("movieId")
	region := c.QueryParam("region")

	if movieID != "" {
		res, err := h.Resolver.ResolveForMovie(ctx, movieID, region)
		if err != nil {
			if errors.Is(err, availability.ErrMissingMovieID) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "movieId is required"})
			}
			log.Printf("availability: resolve movie=%s region=%s: %v", movieID, region, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if res.Freshness != nil {
			c.Response().Header().Set("X-Data-Freshness", res.Freshness.UTC().Format(time.RFC3339))
		}
		return c.JSON(http.StatusOK, res.Options)
	}

	options, err := h.Resolver.ResolveForRegion(ctx, region, "")
	if err != nil {
		log.Printf("availability: resolve region=%s: %v", region, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, options)
}

// GetRegions handles GET /api/regions. The body is a bare JSON array of
// regions sorted by display name; empty while the regions table is
// absent.
func (h *AvailabilityHandler) GetRegions(c echo.Context) error {
	regions, err := h.Resolver.ListRegions(c.Request().Context())
	if err != nil {
		log.Printf("availability: list regions: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, regions)
}

// GetPlatforms handles GET /api/platforms, mirroring GetRegions.
func (h *AvailabilityHandler) GetPlatforms(c echo.Context) error {
	platforms, err := h.Resolver.ListPlatforms(c.Request().Context())
	if err != nil {
		log.Printf("availability: list platforms: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, platforms)
}

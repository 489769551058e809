// Package handler exposes the HTTP handlers for the public API. This file
// covers the watch guide endpoints: a paginated published list and a
// detail view with the guide's ordered movies and related guides.
package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kazetani/ghibli-watch-api/internal/repository"
)

// GuideHandler serves /api/guides and /api/guides/:id.
type GuideHandler struct {
	GuideRepo *repository.GuideRepo
}

// validGuideTypes guards the type filter; an unknown value is a client
// error rather than an empty result.
var validGuideTypes = map[string]bool{
	repository.GuideChronological: true,
	repository.GuideBeginner:      true,
	repository.GuideThematic:      true,
	repository.GuideFamily:        true,
	repository.GuideAdvanced:      true,
	repository.GuideSeasonal:      true,
}

// GetGuides handles GET /api/guides?type=&page=&limit=.
func (h *GuideHandler) GetGuides(c echo.Context) error {
	page, limit := parsePageParams(c)

	guideType := c.QueryParam("type")
	if guideType != "" && !validGuideTypes[guideType] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported guide type"})
	}

	guides, total, err := h.GuideRepo.List(c.Request().Context(), guideType, page, limit)
	if err != nil {
		log.Printf("guides: list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"guides":     guides,
		"pagination": newPagination(page, limit, total),
	})
}

// GetGuide handles GET /api/guides/:id. Unpublished guides are reported
// as missing.
func (h *GuideHandler) GetGuide(c echo.Context) error {
	detail, err := h.GuideRepo.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrGuideNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "guide not found"})
		}
		log.Printf("guides: get %s: %v", c.Param("id"), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, detail)
}

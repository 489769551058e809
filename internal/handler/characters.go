// Package handler exposes the HTTP handlers for the public API. This file
// covers the paginated character listing with its optional movie, main
// character and name filters.
package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kazetani/ghibli-watch-api/internal/repository"
)

// Pagination is the metadata block shared by the paginated list
// responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parsePageParams reads page and limit query params with defaults and an
// upper bound on the page size.
func parsePageParams(c echo.Context) (page, limit int) {
	page, limit = 1, defaultPageSize
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// newPagination computes the metadata block for a page of results.
func newPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}

// CharacterHandler serves /api/characters.
type CharacterHandler struct {
	CharacterRepo *repository.CharacterRepo
}

// GetCharacters handles
// GET /api/characters?page=&limit=&movieId=&isMainCharacter=&search=.
func (h *CharacterHandler) GetCharacters(c echo.Context) error {
	page, limit := parsePageParams(c)

	q := repository.CharacterQuery{
		MovieID:  c.QueryParam("movieId"),
		Search:   c.QueryParam("search"),
		Page:     page,
		PageSize: limit,
	}
	if v := c.QueryParam("isMainCharacter"); v != "" {
		isMain, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid isMainCharacter"})
		}
		q.IsMain = &isMain
	}

	characters, total, err := h.CharacterRepo.List(c.Request().Context(), q)
	if err != nil {
		log.Printf("characters: list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"characters": characters,
		"pagination": newPagination(page, limit, total),
	})
}

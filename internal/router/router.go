package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/kazetani/ghibli-watch-api/internal/handler" // import the handlers that implement business logic
)

// Handlers bundles the API handlers so registration stays one call in
// main.
type Handlers struct {
	Health       *handler.HealthHandler
	Availability *handler.AvailabilityHandler
	Movies       *handler.MovieHandler
	Stats        *handler.StatsHandler
	Characters   *handler.CharacterHandler
	Guides       *handler.GuideHandler
}

// RegisterRoutes registers the full /api surface. rateLimit applies to
// every route; respCache only fronts the read-only catalog routes —
// stats must always hit the store (counters would go stale) and health
// must always reflect the present.
func RegisterRoutes(e *echo.Echo, h Handlers, rateLimit, respCache echo.MiddlewareFunc) {
	api := e.Group("/api")
	if rateLimit != nil {
		api.Use(rateLimit)
	}

	// Never cached.
	api.GET("/health", h.Health.Health)
	api.GET("/movies/stats", h.Stats.GetStats)
	api.POST("/movies/stats", h.Stats.RecordStat)

	// Read-only catalog routes behind the response cache.
	cached := api.Group("")
	if respCache != nil {
		cached.Use(respCache)
	}
	cached.GET("/availability", h.Availability.GetAvailability)
	cached.GET("/regions", h.Availability.GetRegions)
	cached.GET("/platforms", h.Availability.GetPlatforms)
	cached.GET("/movies", h.Movies.GetMovies)
	cached.GET("/movies/search", h.Movies.SearchMovies)
	cached.GET("/movies/:id", h.Movies.GetMovie)
	cached.GET("/characters", h.Characters.GetCharacters)
	cached.GET("/guides", h.Guides.GetGuides)
	cached.GET("/guides/:id", h.Guides.GetGuide)
}

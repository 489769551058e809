// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrMovieNotFound indicates that a stat event referenced a
// movie that does not exist, while ErrGuideNotFound covers both a
// missing guide row and a guide that has not been published yet.
package repository

import "errors"

// ErrMovieNotFound is returned when a movie id does not reference an
// existing movie. Handlers should translate this into an HTTP 404
// response.
var ErrMovieNotFound = errors.New("movie not found")

// ErrGuideNotFound is returned when a watch guide does not exist or is
// not published. Unpublished guides are indistinguishable from missing
// ones on the public API. Handlers should translate this into an HTTP
// 404 response.
var ErrGuideNotFound = errors.New("guide not found")

// Package queue defines message payloads exchanged over the message broker.
package queue

// StatRecordedEvent is published after a stat counter has been
// incremented. It carries the post-increment counters so downstream
// consumers (analytics, dashboards) can log or aggregate without
// querying the primary database.
type StatRecordedEvent struct {
    MovieID       string `json:"movie_id"`
    Kind          string `json:"kind"` // view | favorite | share
    ViewCount     uint64 `json:"view_count"`
    FavoriteCount uint64 `json:"favorite_count"`
    ShareCount    uint64 `json:"share_count"`
    OccurredAt    string `json:"occurred_at"`
}

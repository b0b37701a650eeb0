package watchhistory

import (
	"time"

	"github.com/google/uuid"
)

// WatchEvent is one append-only entry in a movie's watch log. Watched
// is tri-state: nil = position update only, true = marked watched,
// false = explicitly marked unwatched.
type WatchEvent struct {
	ID              uuid.UUID  `json:"id"`
	MovieID         uuid.UUID  `json:"movie_id"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	Watched         *bool      `json:"watched"`
	PositionSeconds float64    `json:"position_seconds"`
	RecordedAt      time.Time  `json:"recorded_at"`
}

// WatchState is the current derived state for one movie: the latest
// tri-state flag and playback position.
type WatchState struct {
	MovieID         uuid.UUID `json:"movie_id"`
	Watched         *bool     `json:"watched"`
	PositionSeconds float64   `json:"position_seconds"`
	LastWatched     time.Time `json:"last_watched"`
	EventCount      int       `json:"event_count"`
}

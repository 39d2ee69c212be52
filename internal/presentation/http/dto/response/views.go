package response

import (
	"time"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/infrastructure/cache"
)

// SnapshotResponse wraps a cached list with its age so clients can show
// how stale it may be
type SnapshotResponse[T any] struct {
	Items          []T       `json:"items"`
	FetchedAt      time.Time `json:"fetched_at"`
	MaxStalenessMS int64     `json:"max_staleness_ms"`
}

// NewSnapshotResponse converts a cache view
func NewSnapshotResponse[T any](view cache.View[[]T]) SnapshotResponse[T] {
	items := view.Value
	if items == nil {
		items = []T{}
	}
	return SnapshotResponse[T]{
		Items:          items,
		FetchedAt:      view.FetchedAt.UTC(),
		MaxStalenessMS: view.MaxStaleness.Milliseconds(),
	}
}

// TableResponse is a table with its running total
type TableResponse struct {
	entity.Table
	Total string `json:"total"`
}

func NewTableResponse(t entity.Table) TableResponse {
	return TableResponse{Table: t, Total: t.Total().StringFixed(2)}
}

// SessionResponse is returned when a staff member starts a session
type SessionResponse struct {
	User        *entity.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

package ports

import (
	"context"
	"courier-slot-service/internal/domain"
)

// Persistent address -> coordinate cache used by the routing adapter.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

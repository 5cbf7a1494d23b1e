package port

import (
	"context"

	"github.com/almazuulu/inventory-mgmt-tool/internal/core/domain"
)

type StateRepository interface {
	// Load reads the full warehouse state; a store never written to loads as empty
	Load(ctx context.Context) (domain.Warehouse, error)

	// Save replaces the persisted state atomically, never leaving a partial write behind
	Save(ctx context.Context, state domain.Warehouse) error
}

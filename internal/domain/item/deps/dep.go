package deps

import (
	"context"

	"github.com/Conte777/newsrelay/internal/domain/item/entities"
)

// ItemRepository defines the interface for ledger data access
type ItemRepository interface {
	// Exists reports whether any item with this link was ever recorded
	Exists(ctx context.Context, link string) (bool, error)

	// Insert appends an item; fails with a duplicate error if the link is taken
	Insert(ctx context.Context, item *entities.IngestedItem) error
}

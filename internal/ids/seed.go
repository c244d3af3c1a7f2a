package ids

import (
	"context"
	"fmt"

	"campusbooking/internal/domain"
)

// Seeder is implemented by both allocators.
type Seeder interface {
	Seed(ctx context.Context, category domain.IDCategory, floor int64) error
}

// HighWaterMark returns the largest id already persisted for a category.
type HighWaterMark func(ctx context.Context) (int64, error)

// SeedFromStore raises every category in marks to its persisted maximum.
func SeedFromStore(ctx context.Context, s Seeder, marks map[domain.IDCategory]HighWaterMark) error {
	for category, mark := range marks {
		floor, err := mark(ctx)
		if err != nil {
			return fmt.Errorf("max %s id: %w", category, err)
		}
		if err := s.Seed(ctx, category, floor); err != nil {
			return err
		}
	}
	return nil
}

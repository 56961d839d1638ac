package engine

import (
	"context"
	"errors"
	"fmt"
)

// Migrate copies every person from src into dst, preserving identities.
// People whose identity already exists in dst are left untouched, so an
// interrupted migration can simply be run again. It works in both directions:
// embedded -> SQL for an upgrade, SQL -> embedded for an offline backup.
// It returns the number of people copied.
func Migrate(ctx context.Context, src, dst Store) (int, error) {
	people, err := src.Find(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list source persons: %w", err)
	}

	copied := 0
	for _, person := range people {
		_, err := dst.FindByID(ctx, person.ID)
		switch {
		case err == nil:
			continue
		case !errors.Is(err, ErrNotFound):
			return copied, fmt.Errorf("failed to check person %s in destination: %w", person.ID, err)
		}

		p := person
		if err := dst.Insert(ctx, &p); err != nil {
			return copied, fmt.Errorf("failed to insert person %s (%s) in destination: %w", person.ID, person.Name, err)
		}
		copied++
	}

	return copied, nil
}

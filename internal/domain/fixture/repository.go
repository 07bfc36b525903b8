package fixture

import "context"

// Repository exposes fixture read operations.
type Repository interface {
	ListFixtures(ctx context.Context) ([]Fixture, error)
}

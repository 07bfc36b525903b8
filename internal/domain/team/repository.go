package team

import "context"

// Repository describes team lookups used to label ranked rows.
type Repository interface {
	ListTeams(ctx context.Context) ([]Team, error)
}

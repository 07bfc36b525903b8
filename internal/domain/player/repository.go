package player

import "context"

// Repository describes the player data the ranking pipeline reads.
type Repository interface {
	ListPlayers(ctx context.Context) ([]Player, error)
	ListHistory(ctx context.Context, playerID int64) ([]MatchRecord, error)
}

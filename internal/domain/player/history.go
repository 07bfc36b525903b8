package player

import "time"

// MatchRecord is one player's line for a single past match.
type MatchRecord struct {
	Round                 int
	FixtureID             int64
	KickoffAt             time.Time
	Minutes               int
	TotalPoints           int
	Bonus                 int
	Saves                 int
	ExpectedGoals         float64
	ExpectedAssists       float64
	ExpectedGoalsConceded float64
}

// LastN returns at most n trailing records, preserving order.
func LastN(records []MatchRecord, n int) []MatchRecord {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

// FilterRounds keeps records whose round is in rounds. An empty history or an
// empty round set returns the input unchanged.
func FilterRounds(records []MatchRecord, rounds map[int]struct{}) []MatchRecord {
	if len(records) == 0 || len(rounds) == 0 {
		return records
	}

	out := make([]MatchRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := rounds[rec.Round]; ok {
			out = append(out, rec)
		}
	}
	return out
}

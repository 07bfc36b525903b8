package fixture

import (
	"sort"
	"time"
)

// DifficultyWindow is the number of fixtures averaged on each side of now.
const DifficultyWindow = 4

// Difficulty holds past and future average difficulty. A nil side means the
// team has no fixtures in that window.
type Difficulty struct {
	Past   *float64
	Future *float64
}

// CalculateDifficulty averages the team's own-side rating over the last
// DifficultyWindow played fixtures and the next DifficultyWindow scheduled ones.
// Fixtures without a kickoff time belong to neither side.
func CalculateDifficulty(teamID int64, fixtures []Fixture, now time.Time) Difficulty {
	past := make([]Fixture, 0, DifficultyWindow)
	future := make([]Fixture, 0, DifficultyWindow)
	for _, f := range fixtures {
		if !f.Involves(teamID) || !f.Scheduled() {
			continue
		}
		if f.KickoffAt.Before(now) {
			past = append(past, f)
		} else {
			future = append(future, f)
		}
	}

	sort.SliceStable(past, func(i, j int) bool { return past[i].KickoffAt.After(past[j].KickoffAt) })
	sort.SliceStable(future, func(i, j int) bool { return future[i].KickoffAt.Before(future[j].KickoffAt) })

	return Difficulty{
		Past:   averageDifficulty(teamID, past),
		Future: averageDifficulty(teamID, future),
	}
}

func averageDifficulty(teamID int64, fixtures []Fixture) *float64 {
	if len(fixtures) > DifficultyWindow {
		fixtures = fixtures[:DifficultyWindow]
	}
	if len(fixtures) == 0 {
		return nil
	}

	sum := 0
	for _, f := range fixtures {
		sum += f.DifficultyFor(teamID)
	}
	avg := float64(sum) / float64(len(fixtures))
	return &avg
}

package fixture

import "time"

// Fixture is one league match with the provider's difficulty ratings.
type Fixture struct {
	ID             int64
	Gameweek       int
	HomeTeamID     int64
	AwayTeamID     int64
	KickoffAt      time.Time
	HomeDifficulty int
	AwayDifficulty int
	Finished       bool
}

func (f Fixture) Involves(teamID int64) bool {
	return f.HomeTeamID == teamID || f.AwayTeamID == teamID
}

// DifficultyFor returns the rating of the side played by teamID.
func (f Fixture) DifficultyFor(teamID int64) int {
	if f.HomeTeamID == teamID {
		return f.HomeDifficulty
	}
	return f.AwayDifficulty
}

// Scheduled reports whether the fixture has a kickoff time.
func (f Fixture) Scheduled() bool {
	return !f.KickoffAt.IsZero()
}

package fpl

import (
	"strings"
	"time"

	"github.com/riskibarqy/fpl-xvalue/internal/domain/fixture"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/player"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/team"
)

const priceUnitsPerMillion = 10.0

func mapElement(item elementItem) player.Player {
	return player.Player{
		ID:         item.ID,
		FirstName:  strings.TrimSpace(item.FirstName),
		SecondName: strings.TrimSpace(item.SecondName),
		WebName:    strings.TrimSpace(item.WebName),
		TeamID:     item.Team,
		Position:   player.Position(item.ElementType),
		Price:      float64(item.NowCost) / priceUnitsPerMillion,
		Season: player.SeasonTotals{
			Goals:         item.GoalsScored,
			Assists:       item.Assists,
			GoalsConceded: item.GoalsConceded,
			Saves:         item.Saves,
			Bonus:         item.Bonus,
			Minutes:       item.Minutes,
			TotalPoints:   item.TotalPoints,
			CleanSheets:   item.CleanSheets,
		},
	}
}

func mapTeam(item teamItem) team.Team {
	return team.Team{
		ID:        item.ID,
		Name:      strings.TrimSpace(item.Name),
		ShortName: strings.TrimSpace(item.ShortName),
	}
}

func mapEvent(item eventItem) gameweek.Event {
	return gameweek.Event{
		ID:        item.ID,
		Name:      strings.TrimSpace(item.Name),
		Finished:  item.Finished,
		IsCurrent: item.IsCurrent,
		IsNext:    item.IsNext,
	}
}

func mapFixture(item fixtureItem) fixture.Fixture {
	out := fixture.Fixture{
		ID:             item.ID,
		HomeTeamID:     item.TeamH,
		AwayTeamID:     item.TeamA,
		HomeDifficulty: item.TeamHDifficulty,
		AwayDifficulty: item.TeamADifficulty,
		Finished:       item.Finished,
	}
	if item.Event != nil {
		out.Gameweek = *item.Event
	}
	if kickoff := parseKickoff(item.KickoffTime); kickoff != nil {
		out.KickoffAt = *kickoff
	}
	return out
}

func mapHistory(item historyItem) player.MatchRecord {
	out := player.MatchRecord{
		Round:                 item.Round,
		FixtureID:             item.Fixture,
		Minutes:               item.Minutes,
		TotalPoints:           item.TotalPoints,
		Bonus:                 item.Bonus,
		Saves:                 item.Saves,
		ExpectedGoals:         item.ExpectedGoals.Float64(),
		ExpectedAssists:       item.ExpectedAssists.Float64(),
		ExpectedGoalsConceded: item.ExpectedGoalsConceded.Float64(),
	}
	if kickoff := parseKickoff(item.KickoffTime); kickoff != nil {
		out.KickoffAt = *kickoff
	}
	return out
}

func parseKickoff(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}

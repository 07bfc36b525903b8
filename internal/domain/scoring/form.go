package scoring

import (
	"math"

	"github.com/riskibarqy/fpl-xvalue/internal/domain/player"
)

// FormWindow is the number of recent matches averaged for form.
const FormWindow = 4

const (
	minutesPerGame = 90.0

	goalsToXGFactor   = 1.1
	assistsToXAFactor = 1.2
	midfielderXGCRate = 0.8

	minExpectedContribution = 0.001
	minExpectedConceded     = 0.1
	minSaves                = 0.1
)

// Source identifies which path produced a FormStats value.
type Source string

const (
	SourceRecent Source = "recent"
	SourceSeason Source = "season"
)

// FormStats are per-game averages feeding the scoring model.
type FormStats struct {
	XG      float64
	XA      float64
	XGC     float64
	Minutes float64
	Bonus   float64
	Saves   float64
	Points  float64
	// Games is the divisor used for every average above.
	Games  float64
	Source Source
}

// seasonFallback holds per-position stats for players with no minutes at all.
type seasonFallback struct {
	xg, xa, xgc, saves float64
}

var seasonFallbacks = map[player.Position]seasonFallback{
	player.PositionGoalkeeper: {xg: 0.001, xa: 0.001, xgc: 1.0, saves: 0.1},
	player.PositionDefender:   {xg: 0.01, xa: 0.01, xgc: 1.0},
	player.PositionMidfielder: {xg: 0.05, xa: 0.05, xgc: 0.8},
	player.PositionForward:    {xg: 0.1, xa: 0.02},
}

// AggregateRecent averages the last FormWindow records. Totals are divided by
// the number of records actually used, so a player with two matches is not
// penalised as if two more had been missed. Saves only count for goalkeepers.
func AggregateRecent(records []player.MatchRecord, position player.Position) FormStats {
	window := player.LastN(records, FormWindow)
	out := FormStats{Source: SourceRecent, Games: float64(len(window))}
	if len(window) == 0 {
		return out
	}

	var xg, xa, xgc float64
	var points, minutes, bonus, saves int
	for _, rec := range window {
		xg += rec.ExpectedGoals
		xa += rec.ExpectedAssists
		xgc += rec.ExpectedGoalsConceded
		points += rec.TotalPoints
		minutes += rec.Minutes
		bonus += rec.Bonus
		if position == player.PositionGoalkeeper {
			saves += rec.Saves
		}
	}

	n := out.Games
	out.XG = xg / n
	out.XA = xa / n
	out.XGC = xgc / n
	out.Points = float64(points) / n
	out.Minutes = float64(minutes) / n
	out.Bonus = float64(bonus) / n
	out.Saves = float64(saves) / n
	return out
}

// AggregateSeason estimates per-game form from season totals when no recent
// match data exists.
func AggregateSeason(totals player.SeasonTotals, position player.Position) FormStats {
	games := 1.0
	if totals.Minutes > 0 {
		games = math.Max(1, float64(totals.Minutes)/minutesPerGame)
	}

	out := FormStats{
		Source:  SourceSeason,
		Games:   games,
		Points:  float64(totals.TotalPoints) / games,
		Minutes: float64(totals.Minutes) / games,
		Bonus:   float64(totals.Bonus) / games,
	}
	if position == player.PositionGoalkeeper {
		out.Saves = float64(totals.Saves) / games
	}
	if totals.Goals > 0 {
		out.XG = float64(totals.Goals) / games * goalsToXGFactor
	}
	if totals.Assists > 0 {
		out.XA = float64(totals.Assists) / games * assistsToXAFactor
	}
	if totals.GoalsConceded > 0 {
		conceded := float64(totals.GoalsConceded) / games
		switch position {
		case player.PositionGoalkeeper, player.PositionDefender:
			out.XGC = conceded
		case player.PositionMidfielder:
			out.XGC = conceded * midfielderXGCRate
		}
	}

	if totals.Minutes == 0 {
		fb := seasonFallbacks[position]
		out.XG, out.XA, out.XGC = fb.xg, fb.xa, fb.xgc
		if position == player.PositionGoalkeeper {
			out.Saves = fb.saves
		}
		return out
	}

	out.XG = math.Max(out.XG, minExpectedContribution)
	out.XA = math.Max(out.XA, minExpectedContribution)
	if position == player.PositionForward {
		out.XGC = 0
	} else {
		out.XGC = math.Max(out.XGC, minExpectedConceded)
	}
	if position == player.PositionGoalkeeper {
		out.Saves = math.Max(out.Saves, minSaves)
	}
	return out
}

package scoring

import (
	"math"

	"github.com/riskibarqy/fpl-xvalue/internal/domain/player"
)

const (
	fullMatchMinutes = 60.0

	cleanSheetPoints     = 4.0
	savesPerPoint        = 3.0
	assistPoints         = 3.0
	defenderGoalPoints   = 6.0
	midfielderGoalPoints = 5.0
	forwardGoalPoints    = 4.0

	concededPenaltyFrom = 2
	concededPenaltyTo   = 14
)

// Result is the scoring model output for one player.
type Result struct {
	XPPG   float64
	Value  float64
	XValue float64
}

// PoissonProbability returns P(X = k) for a Poisson(lambda) variable.
func PoissonProbability(lambda float64, k int) float64 {
	if k < 0 {
		return 0
	}
	if lambda <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	logFactorial, _ := math.Lgamma(float64(k) + 1)
	return math.Exp(float64(k)*math.Log(lambda) - lambda - logFactorial)
}

// CleanSheetProbability is P(0 goals conceded) given expected goals conceded.
func CleanSheetProbability(xgc float64) float64 {
	return PoissonProbability(xgc, 0)
}

// MinutesCategory maps average minutes to appearance points: 0, 1 or 2.
func MinutesCategory(avgMinutes float64) int {
	switch {
	case avgMinutes <= 0:
		return 0
	case avgMinutes < fullMatchMinutes:
		return 1
	default:
		return 2
	}
}

// ExpectedPoints computes xPPG for the given position.
func ExpectedPoints(form FormStats, position player.Position) float64 {
	mc := float64(MinutesCategory(form.Minutes))
	base := assistPoints*form.XA + mc + form.Bonus

	switch position {
	case player.PositionGoalkeeper:
		xppg := base + form.Saves/savesPerPoint
		if form.Minutes >= fullMatchMinutes {
			xppg += concededAdjustment(form.XGC)
		}
		return xppg
	case player.PositionDefender:
		xppg := base + defenderGoalPoints*form.XG
		if form.Minutes >= fullMatchMinutes {
			xppg += concededAdjustment(form.XGC)
		}
		return xppg
	case player.PositionMidfielder:
		xppg := base + midfielderGoalPoints*form.XG
		if mc == 2 {
			xppg += CleanSheetProbability(form.XGC)
		}
		return xppg
	case player.PositionForward:
		return base + forwardGoalPoints*form.XG
	default:
		return 0
	}
}

// concededAdjustment adds clean-sheet points and subtracts the probability of
// conceding an even number of goals between 2 and 14.
func concededAdjustment(xgc float64) float64 {
	adj := cleanSheetPoints * CleanSheetProbability(xgc)
	for goals := concededPenaltyFrom; goals <= concededPenaltyTo; goals += 2 {
		adj -= PoissonProbability(xgc, goals)
	}
	return adj
}

// Evaluate scores a player and derives value-for-money metrics.
func Evaluate(form FormStats, position player.Position, price float64) Result {
	out := Result{XPPG: ExpectedPoints(form, position)}
	if price > 0 {
		out.Value = form.Points / price
		out.XValue = out.XPPG / price
	}
	return out
}

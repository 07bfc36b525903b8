package player

import (
	"fmt"
	"strings"
)

// Position is the FPL element type of a player.
type Position int

const (
	PositionGoalkeeper Position = 1
	PositionDefender   Position = 2
	PositionMidfielder Position = 3
	PositionForward    Position = 4
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

func (p Position) Valid() bool {
	_, ok := AllPositions[p]
	return ok
}

func (p Position) Code() string {
	switch p {
	case PositionGoalkeeper:
		return "GK"
	case PositionDefender:
		return "DEF"
	case PositionMidfielder:
		return "MID"
	case PositionForward:
		return "FWD"
	default:
		return "UNK"
	}
}

// SeasonTotals are the season-to-date counters published in the roster.
type SeasonTotals struct {
	Goals         int
	Assists       int
	GoalsConceded int
	Saves         int
	Bonus         int
	Minutes       int
	TotalPoints   int
	CleanSheets   int
}

// Player is one roster entry for a single fetch cycle.
type Player struct {
	ID         int64
	FirstName  string
	SecondName string
	WebName    string
	TeamID     int64
	Position   Position
	Price      float64
	Season     SeasonTotals
}

func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.SecondName)
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be greater than zero")
	}
	if !p.Position.Valid() {
		return fmt.Errorf("invalid player position: %d", p.Position)
	}
	if p.TeamID <= 0 {
		return fmt.Errorf("player team id must be greater than zero: %d", p.ID)
	}

	return nil
}

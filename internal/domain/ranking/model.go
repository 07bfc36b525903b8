package ranking

import (
	"sort"

	"github.com/riskibarqy/fpl-xvalue/internal/domain/fixture"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/player"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/scoring"
)

const (
	CategoryGoalkeepers = "Goalkeepers"
	CategoryDefenders   = "Defenders"
	CategoryMidfielders = "Midfielders"
	CategoryAttackers   = "Attackers"
)

// Categories lists output buckets in display order.
var Categories = []string{
	CategoryGoalkeepers,
	CategoryDefenders,
	CategoryMidfielders,
	CategoryAttackers,
}

// CategoryFor maps a position to its output bucket.
func CategoryFor(position player.Position) (string, bool) {
	switch position {
	case player.PositionGoalkeeper:
		return CategoryGoalkeepers, true
	case player.PositionDefender:
		return CategoryDefenders, true
	case player.PositionMidfielder:
		return CategoryMidfielders, true
	case player.PositionForward:
		return CategoryAttackers, true
	default:
		return "", false
	}
}

// PlayerScore is one ranked output row.
type PlayerScore struct {
	PlayerID   int64
	Name       string
	TeamID     int64
	TeamName   string
	Position   player.Position
	Price      float64
	Form       scoring.FormStats
	Difficulty fixture.Difficulty
	XPPG       float64
	Value      float64
	XValue     float64
}

// Table maps category name to rows ordered by descending xValue.
type Table map[string][]PlayerScore

func NewTable() Table {
	out := make(Table, len(Categories))
	for _, c := range Categories {
		out[c] = []PlayerScore{}
	}
	return out
}

func (t Table) Add(score PlayerScore) bool {
	category, ok := CategoryFor(score.Position)
	if !ok {
		return false
	}
	t[category] = append(t[category], score)
	return true
}

// Sort orders every category by xValue, highest first. Ties keep insertion order.
func (t Table) Sort() {
	for _, rows := range t {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].XValue > rows[j].XValue })
	}
}

func (t Table) Len() int {
	total := 0
	for _, rows := range t {
		total += len(rows)
	}
	return total
}

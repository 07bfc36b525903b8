package fpl

import (
	"bytes"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// Decimal decodes JSON numbers, numeric strings ("0.12"), empty strings and
// null. The upstream delivers expected-stat fields as strings.
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = 0
		return nil
	}
	text := string(data)
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return crerr.Wrapf(err, "decode decimal %s", text)
		}
		text = strings.TrimSpace(unquoted)
		if text == "" {
			*d = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return crerr.Wrapf(err, "decode decimal %s", text)
	}
	*d = Decimal(v)
	return nil
}

func (d Decimal) Float64() float64 {
	return float64(d)
}

type bootstrapEnvelope struct {
	Elements []elementItem `json:"elements"`
	Teams    []teamItem    `json:"teams"`
	Events   []eventItem   `json:"events"`
}

type elementItem struct {
	ID            int64  `json:"id" validate:"gt=0"`
	FirstName     string `json:"first_name"`
	SecondName    string `json:"second_name"`
	WebName       string `json:"web_name"`
	Team          int64  `json:"team" validate:"gt=0"`
	ElementType   int    `json:"element_type"`
	NowCost       int    `json:"now_cost" validate:"gte=0"`
	GoalsScored   int    `json:"goals_scored" validate:"gte=0"`
	Assists       int    `json:"assists" validate:"gte=0"`
	GoalsConceded int    `json:"goals_conceded" validate:"gte=0"`
	Saves         int    `json:"saves" validate:"gte=0"`
	Bonus         int    `json:"bonus" validate:"gte=0"`
	Minutes       int    `json:"minutes" validate:"gte=0"`
	TotalPoints   int    `json:"total_points"`
	CleanSheets   int    `json:"clean_sheets" validate:"gte=0"`
}

type teamItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

type eventItem struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Finished  bool   `json:"finished"`
	IsCurrent bool   `json:"is_current"`
	IsNext    bool   `json:"is_next"`
}

type fixtureItem struct {
	ID              int64   `json:"id"`
	Event           *int    `json:"event"`
	TeamH           int64   `json:"team_h"`
	TeamA           int64   `json:"team_a"`
	KickoffTime     *string `json:"kickoff_time"`
	TeamHDifficulty int     `json:"team_h_difficulty"`
	TeamADifficulty int     `json:"team_a_difficulty"`
	Finished        bool    `json:"finished"`
}

type elementSummaryEnvelope struct {
	History []historyItem `json:"history"`
}

type historyItem struct {
	Round                 int     `json:"round"`
	Fixture               int64   `json:"fixture"`
	KickoffTime           *string `json:"kickoff_time"`
	Minutes               int     `json:"minutes"`
	TotalPoints           int     `json:"total_points"`
	Bonus                 int     `json:"bonus"`
	Saves                 int     `json:"saves"`
	ExpectedGoals         Decimal `json:"expected_goals"`
	ExpectedAssists       Decimal `json:"expected_assists"`
	ExpectedGoalsConceded Decimal `json:"expected_goals_conceded"`
}

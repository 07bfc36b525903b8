package httpapi

import (
	"math"

	"github.com/riskibarqy/fpl-xvalue/internal/domain/ranking"
	"github.com/riskibarqy/fpl-xvalue/internal/usecase"
)

const loadingMessage = "FPL data is being processed. Please refresh in a few moments."

type loadingResponse struct {
	Success    bool   `json:"success"`
	Loading    bool   `json:"loading"`
	Message    string `json:"message"`
	IsUpdating bool   `json:"is_updating"`
}

type fplDataResponse struct {
	Success         bool                        `json:"success"`
	Data            map[string][]playerScoreDTO `json:"data"`
	LastUpdated     float64                     `json:"last_updated"`
	CacheAgeMinutes float64                     `json:"cache_age_minutes"`
	IsUpdating      bool                        `json:"is_updating"`
}

type playerScoreDTO struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	TeamID   int64    `json:"team_id"`
	Team     string   `json:"team"`
	Position int      `json:"position"`
	XG       float64  `json:"xG"`
	XA       float64  `json:"xA"`
	XGC      float64  `json:"xGC"`
	Bonus    float64  `json:"bonus"`
	Minutes  float64  `json:"minutes"`
	Saves    float64  `json:"saves"`
	XPPG     float64  `json:"xPPG"`
	Points   float64  `json:"points"`
	Price    float64  `json:"price"`
	Value    float64  `json:"value"`
	XValue   float64  `json:"xValue"`
	PFDR     *float64 `json:"pFDR"`
	FFDR     *float64 `json:"fFDR"`
	Games    float64  `json:"games"`
	Source   string   `json:"source"`
}

func toPlayerScoreDTO(row ranking.PlayerScore) playerScoreDTO {
	return playerScoreDTO{
		ID:       row.PlayerID,
		Name:     row.Name,
		TeamID:   row.TeamID,
		Team:     row.TeamName,
		Position: int(row.Position),
		XG:       row.Form.XG,
		XA:       row.Form.XA,
		XGC:      row.Form.XGC,
		Bonus:    row.Form.Bonus,
		Minutes:  row.Form.Minutes,
		Saves:    row.Form.Saves,
		XPPG:     row.XPPG,
		Points:   row.Form.Points,
		Price:    row.Price,
		Value:    row.Value,
		XValue:   row.XValue,
		PFDR:     row.Difficulty.Past,
		FFDR:     row.Difficulty.Future,
		Games:    row.Form.Games,
		Source:   string(row.Form.Source),
	}
}

func toTableDTO(table ranking.Table) map[string][]playerScoreDTO {
	out := make(map[string][]playerScoreDTO, len(ranking.Categories))
	for _, category := range ranking.Categories {
		rows := table[category]
		items := make([]playerScoreDTO, 0, len(rows))
		for _, row := range rows {
			items = append(items, toPlayerScoreDTO(row))
		}
		out[category] = items
	}
	return out
}

func toFPLDataResponse(snapshot usecase.Snapshot) fplDataResponse {
	return fplDataResponse{
		Success:         true,
		Data:            toTableDTO(snapshot.Table),
		LastUpdated:     float64(snapshot.UpdatedAt.UnixMilli()) / 1000,
		CacheAgeMinutes: math.Round(snapshot.Age.Minutes()*10) / 10,
		IsUpdating:      snapshot.Refreshing,
	}
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-xvalue/internal/domain/fixture"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/player"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/ranking"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/scoring"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/team"
	fixturemock "github.com/riskibarqy/fpl-xvalue/internal/mocks/domain/fixture"
	gameweekmock "github.com/riskibarqy/fpl-xvalue/internal/mocks/domain/gameweek"
	playermock "github.com/riskibarqy/fpl-xvalue/internal/mocks/domain/player"
	teammock "github.com/riskibarqy/fpl-xvalue/internal/mocks/domain/team"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var rankingNow = time.Date(2026, 9, 20, 12, 0, 0, 0, time.UTC)

type rankingMocks struct {
	players   *playermock.Repository
	teams     *teammock.Repository
	gameweeks *gameweekmock.Repository
	fixtures  *fixturemock.Repository
}

func newRankingMocks(t *testing.T) rankingMocks {
	return rankingMocks{
		players:   playermock.NewRepository(t),
		teams:     teammock.NewRepository(t),
		gameweeks: gameweekmock.NewRepository(t),
		fixtures:  fixturemock.NewRepository(t),
	}
}

func (m rankingMocks) service(concurrency int) *RankingService {
	return NewRankingService(m.players, m.teams, m.gameweeks, m.fixtures, RankingConfig{
		HistoryConcurrency: concurrency,
		Now:                func() time.Time { return rankingNow },
	}, nil)
}

func (m rankingMocks) expectStatic(players []player.Player, events []gameweek.Event) {
	m.players.On("ListPlayers", mock.Anything).Return(players, nil).Once()
	m.teams.On("ListTeams", mock.Anything).Return([]team.Team{{ID: 1, Name: "Arsenal", ShortName: "ARS"}}, nil).Once()
	m.gameweeks.On("ListEvents", mock.Anything).Return(events, nil).Once()
	m.fixtures.On("ListFixtures", mock.Anything).Return([]fixture.Fixture{
		{ID: 1, HomeTeamID: 1, AwayTeamID: 2, HomeDifficulty: 2, AwayDifficulty: 3, KickoffAt: rankingNow.Add(-72 * time.Hour), Finished: true},
		{ID: 2, HomeTeamID: 2, AwayTeamID: 1, HomeDifficulty: 3, AwayDifficulty: 4, KickoffAt: rankingNow.Add(72 * time.Hour)},
	}, nil).Once()
}

func startedEvents() []gameweek.Event {
	return []gameweek.Event{
		{ID: 1, Finished: true},
		{ID: 2, IsCurrent: true},
		{ID: 3},
	}
}

func TestRankingService_Rank_SeasonStarted(t *testing.T) {
	t.Parallel()

	m := newRankingMocks(t)
	roster := []player.Player{
		{ID: 10, FirstName: "Lead", SecondName: "Striker", TeamID: 1, Position: player.PositionForward, Price: 10},
		{ID: 11, FirstName: "Bench", SecondName: "Striker", TeamID: 2, Position: player.PositionForward, Price: 5},
		{ID: 12, FirstName: "Missing", SecondName: "History", TeamID: 1, Position: player.PositionDefender, Price: 4},
		{ID: 13, FirstName: "Unknown", SecondName: "Role", TeamID: 1, Position: player.Position(9), Price: 4},
		{ID: 14, FirstName: "Safe", SecondName: "Hands", TeamID: 1, Position: player.PositionGoalkeeper, Price: 4.5},
	}
	m.expectStatic(roster, startedEvents())

	m.players.On("ListHistory", mock.Anything, int64(10)).Return([]player.MatchRecord{
		{Round: 1, Minutes: 90, TotalPoints: 6, Bonus: 1, ExpectedGoals: 0.5, ExpectedAssists: 0.2},
		{Round: 2, Minutes: 90, TotalPoints: 6, Bonus: 1, ExpectedGoals: 0.5, ExpectedAssists: 0.2},
	}, nil).Once()
	m.players.On("ListHistory", mock.Anything, int64(11)).Return([]player.MatchRecord{
		{Round: 3, Minutes: 90, TotalPoints: 12, ExpectedGoals: 2},
	}, nil).Once()
	m.players.On("ListHistory", mock.Anything, int64(12)).Return(nil, errors.New("upstream timeout")).Once()
	m.players.On("ListHistory", mock.Anything, int64(14)).Return([]player.MatchRecord{
		{Round: 1, Minutes: 45, Saves: 3, ExpectedGoalsConceded: 0.2},
		{Round: 2, Minutes: 45, Saves: 3, ExpectedGoalsConceded: 0.2},
	}, nil).Once()

	table, err := m.service(1).Rank(context.Background())
	if err != nil {
		t.Fatalf("rank: %v", err)
	}

	if table.Len() != 3 {
		t.Fatalf("expected 3 ranked players, got %d", table.Len())
	}
	if len(table[ranking.CategoryDefenders]) != 0 || len(table[ranking.CategoryMidfielders]) != 0 {
		t.Fatalf("expected empty defender and midfielder buckets: %+v", table)
	}

	attackers := table[ranking.CategoryAttackers]
	if len(attackers) != 2 || attackers[0].PlayerID != 10 || attackers[1].PlayerID != 11 {
		t.Fatalf("unexpected attacker order: %+v", attackers)
	}
	lead := attackers[0]
	assert.InDelta(t, 5.6, lead.XPPG, 1e-9)
	assert.InDelta(t, 0.56, lead.XValue, 1e-9)
	if lead.Form.Source != scoring.SourceRecent || lead.Form.Games != 2 {
		t.Fatalf("expected recent form over two matches, got %+v", lead.Form)
	}
	if lead.Name != "Lead Striker" || lead.TeamName != "Arsenal" {
		t.Fatalf("unexpected identity: %+v", lead)
	}
	if lead.Difficulty.Past == nil || *lead.Difficulty.Past != 2 || lead.Difficulty.Future == nil || *lead.Difficulty.Future != 4 {
		t.Fatalf("unexpected difficulty: %+v", lead.Difficulty)
	}

	bench := attackers[1]
	if bench.Form.Source != scoring.SourceSeason {
		t.Fatalf("expected season fallback when no current-season matches, got %+v", bench.Form)
	}
	assert.InDelta(t, 0.46, bench.XPPG, 1e-9)

	keepers := table[ranking.CategoryGoalkeepers]
	if len(keepers) != 1 {
		t.Fatalf("expected one goalkeeper, got %d", len(keepers))
	}
	assert.InDelta(t, 2.0, keepers[0].XPPG, 1e-9)
}

func TestRankingService_Rank_PreseasonUsesTotals(t *testing.T) {
	t.Parallel()

	m := newRankingMocks(t)
	roster := []player.Player{
		{ID: 20, TeamID: 1, Position: player.PositionMidfielder, Price: 8, Season: player.SeasonTotals{Goals: 10, Assists: 5, Minutes: 1800, TotalPoints: 120}},
	}
	m.expectStatic(roster, []gameweek.Event{{ID: 1, IsNext: true}, {ID: 2}})

	table, err := m.service(1).Rank(context.Background())
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	mids := table[ranking.CategoryMidfielders]
	if len(mids) != 1 || mids[0].Form.Source != scoring.SourceSeason || mids[0].Form.Games != 20 {
		t.Fatalf("unexpected preseason form: %+v", mids)
	}
	m.players.AssertNotCalled(t, "ListHistory", mock.Anything, mock.Anything)
}

func TestRankingService_Rank_RosterFailureAborts(t *testing.T) {
	t.Parallel()

	m := newRankingMocks(t)
	m.players.On("ListPlayers", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	_, err := m.service(1).Rank(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestRankingService_Rank_FixtureFailureAborts(t *testing.T) {
	t.Parallel()

	m := newRankingMocks(t)
	m.players.On("ListPlayers", mock.Anything).Return([]player.Player{}, nil).Once()
	m.teams.On("ListTeams", mock.Anything).Return([]team.Team{}, nil).Once()
	m.gameweeks.On("ListEvents", mock.Anything).Return([]gameweek.Event{}, nil).Once()
	m.fixtures.On("ListFixtures", mock.Anything).Return(nil, errors.New("502 bad gateway")).Once()

	if _, err := m.service(1).Rank(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestRankingService_Rank_OrderIndependentOfConcurrency(t *testing.T) {
	t.Parallel()

	roster := make([]player.Player, 0, 40)
	for i := 1; i <= 40; i++ {
		roster = append(roster, player.Player{
			ID:        int64(i),
			FirstName: fmt.Sprintf("Player%d", i),
			TeamID:    1,
			Position:  player.PositionDefender,
			// Every fifth player shares a price so ties are exercised.
			Price: float64(4 + i%5),
		})
	}
	history := []player.MatchRecord{{Round: 1, Minutes: 90, ExpectedGoals: 0.1, ExpectedGoalsConceded: 1}}

	run := func(concurrency int) []int64 {
		m := newRankingMocks(t)
		m.expectStatic(roster, startedEvents())
		m.players.On("ListHistory", mock.Anything, mock.AnythingOfType("int64")).Return(history, nil).Times(len(roster))

		table, err := m.service(concurrency).Rank(context.Background())
		if err != nil {
			t.Fatalf("rank with concurrency %d: %v", concurrency, err)
		}
		ids := make([]int64, 0, len(roster))
		for _, row := range table[ranking.CategoryDefenders] {
			ids = append(ids, row.PlayerID)
		}
		return ids
	}

	sequential := run(1)
	parallel := run(8)
	if len(sequential) != len(roster) {
		t.Fatalf("expected %d defenders, got %d", len(roster), len(sequential))
	}
	assert.Equal(t, sequential, parallel)
}

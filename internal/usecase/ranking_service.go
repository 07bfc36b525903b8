package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/fpl-xvalue/internal/domain/fixture"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/player"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/ranking"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/scoring"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/team"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const defaultProgressEvery = 100

type RankingConfig struct {
	// HistoryConcurrency bounds parallel history fetches. Values below 1 run
	// players sequentially.
	HistoryConcurrency int
	ProgressEvery      int
	Now                func() time.Time
}

// RankingService runs the full pipeline: roster, fixtures, per-player form,
// difficulty and scoring, bucketed and sorted by xValue.
type RankingService struct {
	playerRepo   player.Repository
	teamRepo     team.Repository
	gameweekRepo gameweek.Repository
	fixtureRepo  fixture.Repository

	concurrency   int
	progressEvery int
	now           func() time.Time
	logger        *logging.Logger
}

func NewRankingService(
	playerRepo player.Repository,
	teamRepo team.Repository,
	gameweekRepo gameweek.Repository,
	fixtureRepo fixture.Repository,
	cfg RankingConfig,
	logger *logging.Logger,
) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HistoryConcurrency < 1 {
		cfg.HistoryConcurrency = 1
	}
	if cfg.ProgressEvery < 1 {
		cfg.ProgressEvery = defaultProgressEvery
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &RankingService{
		playerRepo:    playerRepo,
		teamRepo:      teamRepo,
		gameweekRepo:  gameweekRepo,
		fixtureRepo:   fixtureRepo,
		concurrency:   cfg.HistoryConcurrency,
		progressEvery: cfg.ProgressEvery,
		now:           cfg.Now,
		logger:        logger,
	}
}

type rankInput struct {
	now           time.Time
	seasonStarted bool
	rounds        map[int]struct{}
	teams         team.Directory
	difficulty    map[int64]fixture.Difficulty
}

type rankOutcome struct {
	score ranking.PlayerScore
	err   error
}

// Rank builds a fresh ranking table. Failures to load the roster or fixtures
// abort the run; failures for a single player are logged and the player is
// left out.
func (s *RankingService) Rank(ctx context.Context) (ranking.Table, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Rank")
	defer span.End()

	started := time.Now()

	players, err := s.playerRepo.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list players: %w", ErrDependencyUnavailable, err)
	}
	teams, err := s.teamRepo.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list teams: %w", ErrDependencyUnavailable, err)
	}
	events, err := s.gameweekRepo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list gameweeks: %w", ErrDependencyUnavailable, err)
	}
	fixtures, err := s.fixtureRepo.ListFixtures(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list fixtures: %w", ErrDependencyUnavailable, err)
	}

	in := rankInput{
		now:           s.now(),
		seasonStarted: gameweek.SeasonStarted(events),
		rounds:        gameweek.CurrentSeasonRounds(events),
		teams:         team.NewDirectory(teams),
	}
	in.difficulty = difficultyByTeam(players, fixtures, in.now)

	s.logger.InfoContext(ctx, "ranking started",
		"players", len(players),
		"fixtures", len(fixtures),
		"season_started", in.seasonStarted,
		"concurrency", s.concurrency,
	)

	outcomes := make([]rankOutcome, len(players))
	var processed atomic.Int64
	p := pool.New().WithMaxGoroutines(s.concurrency)
	for i := range players {
		p.Go(func() {
			if ctx.Err() != nil {
				outcomes[i].err = ctx.Err()
				return
			}
			score, err := s.scorePlayer(ctx, players[i], in)
			outcomes[i] = rankOutcome{score: score, err: err}
			if n := processed.Add(1); n%int64(s.progressEvery) == 0 {
				s.logger.InfoContext(ctx, "ranking progress", "processed", n, "total", len(players))
			}
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rank players: %w", err)
	}

	table := ranking.NewTable()
	skipped := 0
	for i, out := range outcomes {
		if out.err != nil {
			skipped++
			s.logger.WarnContext(ctx, "skip player", "player_id", players[i].ID, "error", out.err)
			continue
		}
		if !table.Add(out.score) {
			skipped++
			s.logger.WarnContext(ctx, "skip player without category", "player_id", players[i].ID, "position", int(players[i].Position))
		}
	}
	table.Sort()

	s.logger.InfoContext(ctx, "ranking complete",
		"ranked", table.Len(),
		"skipped", skipped,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return table, nil
}

func (s *RankingService) scorePlayer(ctx context.Context, p player.Player, in rankInput) (ranking.PlayerScore, error) {
	if err := p.Validate(); err != nil {
		return ranking.PlayerScore{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	form, err := s.playerForm(ctx, p, in)
	if err != nil {
		return ranking.PlayerScore{}, err
	}

	result := scoring.Evaluate(form, p.Position, p.Price)
	return ranking.PlayerScore{
		PlayerID:   p.ID,
		Name:       p.FullName(),
		TeamID:     p.TeamID,
		TeamName:   in.teams.Name(p.TeamID),
		Position:   p.Position,
		Price:      p.Price,
		Form:       form,
		Difficulty: in.difficulty[p.TeamID],
		XPPG:       result.XPPG,
		Value:      result.Value,
		XValue:     result.XValue,
	}, nil
}

func (s *RankingService) playerForm(ctx context.Context, p player.Player, in rankInput) (scoring.FormStats, error) {
	if !in.seasonStarted {
		return scoring.AggregateSeason(p.Season, p.Position), nil
	}

	history, err := s.playerRepo.ListHistory(ctx, p.ID)
	if err != nil {
		return scoring.FormStats{}, fmt.Errorf("list history: %w", err)
	}

	recent := player.LastN(player.FilterRounds(history, in.rounds), scoring.FormWindow)
	if len(recent) == 0 {
		return scoring.AggregateSeason(p.Season, p.Position), nil
	}
	return scoring.AggregateRecent(recent, p.Position), nil
}

func difficultyByTeam(players []player.Player, fixtures []fixture.Fixture, now time.Time) map[int64]fixture.Difficulty {
	out := make(map[int64]fixture.Difficulty)
	for _, p := range players {
		if _, ok := out[p.TeamID]; ok {
			continue
		}
		out[p.TeamID] = fixture.CalculateDifficulty(p.TeamID, fixtures, now)
	}
	return out
}

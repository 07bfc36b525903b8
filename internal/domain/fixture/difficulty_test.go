package fixture

import (
	"testing"
	"time"
)

func TestCalculateDifficulty_UsesOwnSideAndWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	fixtures := []Fixture{
		// past, newest first after sorting: -1d(h=2), -2d(a=4), -3d(h=3), -4d(a=5), -5d(h=1 dropped)
		{ID: 1, HomeTeamID: 7, AwayTeamID: 1, KickoffAt: now.Add(-1 * day), HomeDifficulty: 2, AwayDifficulty: 9},
		{ID: 2, HomeTeamID: 3, AwayTeamID: 7, KickoffAt: now.Add(-2 * day), HomeDifficulty: 9, AwayDifficulty: 4},
		{ID: 3, HomeTeamID: 7, AwayTeamID: 4, KickoffAt: now.Add(-3 * day), HomeDifficulty: 3, AwayDifficulty: 9},
		{ID: 4, HomeTeamID: 5, AwayTeamID: 7, KickoffAt: now.Add(-4 * day), HomeDifficulty: 9, AwayDifficulty: 5},
		{ID: 5, HomeTeamID: 7, AwayTeamID: 6, KickoffAt: now.Add(-5 * day), HomeDifficulty: 1, AwayDifficulty: 9},
		// future: +1d(a=2), +2d(h=4)
		{ID: 6, HomeTeamID: 8, AwayTeamID: 7, KickoffAt: now.Add(1 * day), HomeDifficulty: 9, AwayDifficulty: 2},
		{ID: 7, HomeTeamID: 7, AwayTeamID: 9, KickoffAt: now.Add(2 * day), HomeDifficulty: 4, AwayDifficulty: 9},
		// other teams and unscheduled fixtures are ignored
		{ID: 8, HomeTeamID: 10, AwayTeamID: 11, KickoffAt: now.Add(1 * day), HomeDifficulty: 5, AwayDifficulty: 5},
		{ID: 9, HomeTeamID: 7, AwayTeamID: 12, HomeDifficulty: 5, AwayDifficulty: 5},
	}

	got := CalculateDifficulty(7, fixtures, now)
	if got.Past == nil || *got.Past != 3.5 {
		t.Fatalf("unexpected past difficulty: %v", got.Past)
	}
	if got.Future == nil || *got.Future != 3 {
		t.Fatalf("unexpected future difficulty: %v", got.Future)
	}
}

func TestCalculateDifficulty_KickoffAtNowCountsAsFuture(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)
	got := CalculateDifficulty(1, []Fixture{
		{ID: 1, HomeTeamID: 1, AwayTeamID: 2, KickoffAt: now, HomeDifficulty: 4, AwayDifficulty: 2},
	}, now)

	if got.Past != nil {
		t.Fatalf("expected undefined past difficulty, got %v", *got.Past)
	}
	if got.Future == nil || *got.Future != 4 {
		t.Fatalf("unexpected future difficulty: %v", got.Future)
	}
}

func TestCalculateDifficulty_EmptyPartitionsAreUndefined(t *testing.T) {
	t.Parallel()

	got := CalculateDifficulty(1, nil, time.Now())
	if got.Past != nil || got.Future != nil {
		t.Fatalf("expected both sides undefined, got past=%v future=%v", got.Past, got.Future)
	}
}

func TestCalculateDifficulty_NeverAveragesMoreThanWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)
	fixtures := make([]Fixture, 0, 20)
	for i := 1; i <= 10; i++ {
		// the soonest future fixtures rate 1, later ones rate 5
		rating := 1
		if i > DifficultyWindow {
			rating = 5
		}
		fixtures = append(fixtures, Fixture{
			ID:             int64(i),
			HomeTeamID:     1,
			AwayTeamID:     2,
			KickoffAt:      now.Add(time.Duration(i) * time.Hour),
			HomeDifficulty: rating,
		})
	}

	got := CalculateDifficulty(1, fixtures, now)
	if got.Future == nil || *got.Future != 1 {
		t.Fatalf("expected only the %d soonest fixtures averaged, got %v", DifficultyWindow, got.Future)
	}
}

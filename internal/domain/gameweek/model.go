package gameweek

// Event is one scheduling period ("gameweek") of the season.
type Event struct {
	ID        int
	Name      string
	Finished  bool
	IsCurrent bool
	IsNext    bool
}

// SeasonStarted reports whether at least one gameweek has finished.
func SeasonStarted(events []Event) bool {
	for _, ev := range events {
		if ev.Finished {
			return true
		}
	}
	return false
}

// CurrentSeasonRounds returns the gameweek ids belonging to the running season.
// Events flagged current, next or finished qualify; when none are flagged every
// listed event is treated as part of the season.
func CurrentSeasonRounds(events []Event) map[int]struct{} {
	out := make(map[int]struct{}, len(events))
	for _, ev := range events {
		if ev.IsCurrent || ev.IsNext || ev.Finished {
			out[ev.ID] = struct{}{}
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, ev := range events {
		out[ev.ID] = struct{}{}
	}
	return out
}

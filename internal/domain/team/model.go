package team

// Team is a Premier League club as listed in the roster payload.
type Team struct {
	ID        int64
	Name      string
	ShortName string
}

// Directory resolves team ids to display names.
type Directory map[int64]Team

func NewDirectory(teams []Team) Directory {
	out := make(Directory, len(teams))
	for _, t := range teams {
		if t.ID <= 0 {
			continue
		}
		out[t.ID] = t
	}
	return out
}

func (d Directory) Name(id int64) string {
	if t, ok := d[id]; ok {
		return t.Name
	}
	return ""
}

package sync

import (
	"github.com/nhle/gtd/internal/dateutil"
	"github.com/nhle/gtd/internal/model"
)

// Merger reconciles the local and remote snapshots into one. Plug in a
// different implementation to change conflict resolution.
type Merger interface {
	Merge(ours, theirs model.AppData) model.AppData
}

// LastWriteWins picks, for every entity present on either side, the copy
// with the newer UpdatedAt. Entities only one side knows about are kept.
// Areas carry no timestamp, so the union is taken with local copies
// winning on ID conflict. Settings follow whichever snapshot holds the
// newest entity overall.
type LastWriteWins struct{}

// Merge implements Merger.
func (LastWriteWins) Merge(ours, theirs model.AppData) model.AppData {
	out := model.AppData{
		Tasks:    mergeTasks(ours.Tasks, theirs.Tasks),
		Projects: mergeProjects(ours.Projects, theirs.Projects),
		Areas:    mergeAreas(ours.Areas, theirs.Areas),
	}

	if newestStamp(theirs) > newestStamp(ours) {
		out.Settings = theirs.Settings.Clone()
	} else {
		out.Settings = ours.Settings.Clone()
	}

	out.Normalize()
	return out
}

func mergeTasks(ours, theirs []model.Task) []model.Task {
	byID := make(map[string]int, len(ours))
	out := make([]model.Task, len(ours))
	for i, t := range ours {
		out[i] = t.Clone()
		byID[t.ID] = i
	}
	for _, t := range theirs {
		i, ok := byID[t.ID]
		if !ok {
			out = append(out, t.Clone())
			continue
		}
		if newer(t.UpdatedAt, out[i].UpdatedAt) {
			out[i] = t.Clone()
		}
	}
	return out
}

func mergeProjects(ours, theirs []model.Project) []model.Project {
	byID := make(map[string]int, len(ours))
	out := make([]model.Project, len(ours))
	for i, p := range ours {
		out[i] = p.Clone()
		byID[p.ID] = i
	}
	for _, p := range theirs {
		i, ok := byID[p.ID]
		if !ok {
			out = append(out, p.Clone())
			continue
		}
		if newer(p.UpdatedAt, out[i].UpdatedAt) {
			out[i] = p.Clone()
		}
	}
	return out
}

func mergeAreas(ours, theirs []model.Area) []model.Area {
	seen := make(map[string]bool, len(ours))
	out := append([]model.Area(nil), ours...)
	for _, a := range ours {
		seen[a.ID] = true
	}
	for _, a := range theirs {
		if !seen[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// newer reports whether timestamp a is strictly after b. A malformed or
// missing timestamp always loses.
func newer(a, b string) bool {
	at := dateutil.Parse(a)
	if at == nil {
		return false
	}
	bt := dateutil.Parse(b)
	if bt == nil {
		return true
	}
	return at.After(*bt)
}

// newestStamp returns the lexicographically greatest UpdatedAt in the
// snapshot. Stamps are ISO-8601 UTC, so string order is time order.
func newestStamp(d model.AppData) string {
	max := ""
	for _, t := range d.Tasks {
		if t.UpdatedAt > max {
			max = t.UpdatedAt
		}
	}
	for _, p := range d.Projects {
		if p.UpdatedAt > max {
			max = p.UpdatedAt
		}
	}
	return max
}

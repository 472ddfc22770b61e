package query

import (
	"strings"
	"time"

	"github.com/nhle/gtd/internal/model"
)

// SearchLimit caps the combined number of items a search returns.
const SearchLimit = 50

// Area filter sentinels. An empty AreaID means "all areas".
const (
	AreaFilterAll  = ""
	AreaFilterNone = "none"
)

// SearchFilters narrows global search results beyond the text query.
type SearchFilters struct {
	// Statuses restricts tasks to these statuses. When empty, completed
	// and reference tasks are dropped unless the Include flags are set.
	Statuses         []model.TaskStatus
	IncludeCompleted bool
	IncludeReference bool

	// AreaID filters by area: AreaFilterAll, AreaFilterNone, or an area ID.
	// Tasks in a project inherit the project's area.
	AreaID string

	// Tokens are context/tag filters; each must match hierarchically.
	Tokens []string

	Due       DuePreset
	WeekStart time.Weekday
}

// SearchResults is a capped, mixed set of matching projects and tasks.
type SearchResults struct {
	Tasks    []model.Task
	Projects []model.Project

	// Total counts everything that matched before the cap was applied.
	Total       int
	IsTruncated bool
}

// MatchesHierarchicalToken reports whether candidate equals filter or
// lives under it: "@home" matches "@home" and "@home/kitchen" but not
// "@homework".
func MatchesHierarchicalToken(filter, candidate string) bool {
	f := strings.ToLower(strings.TrimSpace(filter))
	c := strings.ToLower(strings.TrimSpace(candidate))
	if f == "" || c == "" {
		return false
	}
	return c == f || strings.HasPrefix(c, f+"/")
}

// matchesQuery reports whether every whitespace-separated token of the
// query appears in at least one of the fields, case-insensitively.
func matchesQuery(tokens []string, fields ...string) bool {
	for _, tok := range tokens {
		found := false
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), tok) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Search runs a global free-text search over tasks and projects, applies
// the filters, and caps the combined result at SearchLimit. Soft-deleted
// tasks never match. An empty query yields no results.
func Search(data model.AppData, queryText string, filters SearchFilters, now time.Time) SearchResults {
	trimmed := strings.TrimSpace(queryText)
	if trimmed == "" {
		return SearchResults{}
	}
	tokens := strings.Fields(strings.ToLower(trimmed))

	projectByID := make(map[string]model.Project, len(data.Projects))
	for _, p := range data.Projects {
		projectByID[p.ID] = p
	}
	areaByID := make(map[string]model.Area, len(data.Areas))
	for _, a := range data.Areas {
		areaByID[a.ID] = a
	}

	matchesArea := func(areaID string) bool {
		if _, ok := areaByID[areaID]; !ok {
			areaID = ""
		}
		switch filters.AreaID {
		case AreaFilterAll:
			return true
		case AreaFilterNone:
			return areaID == ""
		default:
			return areaID == filters.AreaID
		}
	}

	taskArea := func(t model.Task) string {
		if t.ProjectID != "" {
			if p, ok := projectByID[t.ProjectID]; ok {
				return p.AreaID
			}
			return ""
		}
		return t.AreaID
	}

	matchesStatus := func(t model.Task) bool {
		if len(filters.Statuses) > 0 {
			for _, s := range filters.Statuses {
				if t.Status == s {
					return true
				}
			}
			return false
		}
		if !filters.IncludeCompleted && t.IsCompleted() {
			return false
		}
		if !filters.IncludeReference && t.Status == model.StatusReference {
			return false
		}
		return true
	}

	matchesTokens := func(t model.Task) bool {
		for _, want := range filters.Tokens {
			found := false
			for _, have := range t.Contexts {
				if MatchesHierarchicalToken(want, have) {
					found = true
					break
				}
			}
			if !found {
				for _, have := range t.Tags {
					if MatchesHierarchicalToken(want, have) {
						found = true
						break
					}
				}
			}
			if !found {
				return false
			}
		}
		return true
	}

	var projects []model.Project
	for _, p := range data.Projects {
		if !matchesQuery(tokens, p.Title) {
			continue
		}
		if !filters.IncludeCompleted && p.Status == model.ProjectArchived {
			continue
		}
		if !matchesArea(p.AreaID) {
			continue
		}
		projects = append(projects, p)
	}

	var tasks []model.Task
	for _, t := range data.Tasks {
		if t.IsDeleted() {
			continue
		}
		if !matchesQuery(tokens, t.Title, t.Description) {
			continue
		}
		if !matchesStatus(t) {
			continue
		}
		if !matchesArea(taskArea(t)) {
			continue
		}
		if !matchesTokens(t) {
			continue
		}
		if !MatchesDuePreset(t, filters.Due, now, filters.WeekStart) {
			continue
		}
		tasks = append(tasks, t)
	}

	total := len(projects) + len(tasks)
	// Projects rank before tasks; trim from the task tail first.
	if len(projects) > SearchLimit {
		projects = projects[:SearchLimit]
	}
	if len(projects)+len(tasks) > SearchLimit {
		tasks = tasks[:SearchLimit-len(projects)]
	}

	return SearchResults{
		Tasks:       tasks,
		Projects:    projects,
		Total:       total,
		IsTruncated: total > len(projects)+len(tasks),
	}
}

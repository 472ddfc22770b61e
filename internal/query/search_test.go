package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/nhle/gtd/internal/model"
)

func TestMatchesHierarchicalToken(t *testing.T) {
	cases := []struct {
		filter, candidate string
		want              bool
	}{
		{"@home", "@home", true},
		{"@home", "@home/kitchen", true},
		{"@Home", "@home/kitchen", true},
		{"@home", "@homework", false},
		{"@home/kitchen", "@home", false},
		{"", "@home", false},
	}
	for _, c := range cases {
		if got := MatchesHierarchicalToken(c.filter, c.candidate); got != c.want {
			t.Errorf("MatchesHierarchicalToken(%q, %q) = %v, want %v", c.filter, c.candidate, got, c.want)
		}
	}
}

func TestSearchMatchesTitleAndDescription(t *testing.T) {
	data := model.AppData{
		Tasks: []model.Task{
			{ID: "t1", Title: "Buy groceries", Status: model.StatusNext},
			{ID: "t2", Title: "Call plumber", Description: "about the kitchen sink", Status: model.StatusNext},
			{ID: "t3", Title: "Old groceries run", Status: model.StatusNext, DeletedAt: "2025-01-01T00:00:00.000Z"},
		},
		Projects: []model.Project{
			{ID: "p1", Title: "Kitchen remodel", Status: model.ProjectActive},
		},
	}
	now := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)

	res := Search(data, "kitchen", SearchFilters{}, now)
	if len(res.Projects) != 1 || res.Projects[0].ID != "p1" {
		t.Fatalf("expected project match, got %v", res.Projects)
	}
	if len(res.Tasks) != 1 || res.Tasks[0].ID != "t2" {
		t.Fatalf("expected description match, got %v", res.Tasks)
	}

	res = Search(data, "GROCERIES", SearchFilters{}, now)
	if len(res.Tasks) != 1 || res.Tasks[0].ID != "t1" {
		t.Fatalf("case-insensitive match failed, deleted task must be excluded: %v", res.Tasks)
	}

	if res := Search(data, "   ", SearchFilters{}, now); res.Total != 0 {
		t.Fatalf("blank query should match nothing, got %d", res.Total)
	}
}

func TestSearchHierarchicalTokenFilter(t *testing.T) {
	data := model.AppData{
		Tasks: []model.Task{
			{ID: "t1", Title: "Scrub sink", Status: model.StatusNext, Contexts: []string{"@home/kitchen"}},
			{ID: "t2", Title: "Scrub car", Status: model.StatusNext, Contexts: []string{"@errands"}},
		},
	}
	now := time.Now()

	res := Search(data, "scrub", SearchFilters{Tokens: []string{"@home"}}, now)
	if len(res.Tasks) != 1 || res.Tasks[0].ID != "t1" {
		t.Fatalf("hierarchical token filter failed: %v", res.Tasks)
	}
}

func TestSearchTruncatesAtLimit(t *testing.T) {
	var data model.AppData
	for i := 0; i < SearchLimit+10; i++ {
		data.Tasks = append(data.Tasks, model.Task{
			ID:     fmt.Sprintf("t%d", i),
			Title:  fmt.Sprintf("report %d", i),
			Status: model.StatusNext,
		})
	}
	now := time.Now()

	res := Search(data, "report", SearchFilters{}, now)
	if got := len(res.Tasks) + len(res.Projects); got != SearchLimit {
		t.Fatalf("expected %d results, got %d", SearchLimit, got)
	}
	if !res.IsTruncated {
		t.Error("expected truncation flag")
	}
	if res.Total != SearchLimit+10 {
		t.Fatalf("expected total %d, got %d", SearchLimit+10, res.Total)
	}
}

func TestSearchStatusDefaultsExcludeDoneAndReference(t *testing.T) {
	data := model.AppData{
		Tasks: []model.Task{
			{ID: "t1", Title: "ship release", Status: model.StatusDone},
			{ID: "t2", Title: "ship manual", Status: model.StatusReference},
			{ID: "t3", Title: "ship hotfix", Status: model.StatusInProgress},
		},
	}
	now := time.Now()

	res := Search(data, "ship", SearchFilters{}, now)
	if len(res.Tasks) != 1 || res.Tasks[0].ID != "t3" {
		t.Fatalf("default filter failed: %v", res.Tasks)
	}

	res = Search(data, "ship", SearchFilters{IncludeCompleted: true, IncludeReference: true}, now)
	if len(res.Tasks) != 3 {
		t.Fatalf("include flags failed: %v", res.Tasks)
	}

	res = Search(data, "ship", SearchFilters{Statuses: []model.TaskStatus{model.StatusDone}}, now)
	if len(res.Tasks) != 1 || res.Tasks[0].ID != "t1" {
		t.Fatalf("explicit status filter failed: %v", res.Tasks)
	}
}

func TestSearchTaskInheritsProjectArea(t *testing.T) {
	data := model.AppData{
		Areas:    []model.Area{{ID: "a1", Name: "Work"}},
		Projects: []model.Project{{ID: "p1", Title: "Platform", Status: model.ProjectActive, AreaID: "a1"}},
		Tasks: []model.Task{
			{ID: "t1", Title: "deploy service", Status: model.StatusNext, ProjectID: "p1"},
			{ID: "t2", Title: "deploy blog", Status: model.StatusNext},
		},
	}
	now := time.Now()

	res := Search(data, "deploy", SearchFilters{AreaID: "a1"}, now)
	if len(res.Tasks) != 1 || res.Tasks[0].ID != "t1" {
		t.Fatalf("area inheritance failed: %v", res.Tasks)
	}

	res = Search(data, "deploy", SearchFilters{AreaID: AreaFilterNone}, now)
	if len(res.Tasks) != 1 || res.Tasks[0].ID != "t2" {
		t.Fatalf("area none filter failed: %v", res.Tasks)
	}
}

// Package query holds pure, side-effect-free functions over snapshots of
// the task and project collections. Nothing here mutates its inputs.
package query

import (
	"github.com/nhle/gtd/internal/model"
)

// ProjectHasNextAction reports whether any non-deleted task in the project
// is in the "next" status.
func ProjectHasNextAction(project model.Project, tasks []model.Task) bool {
	for _, t := range tasks {
		if t.IsDeleted() {
			continue
		}
		if t.ProjectID == project.ID && t.Status == model.StatusNext {
			return true
		}
	}
	return false
}

// ProjectsNeedingNextAction returns active projects that have no next
// action, preserving the input order. In GTD terms these are stalled
// projects that need attention during review.
func ProjectsNeedingNextAction(projects []model.Project, tasks []model.Task) []model.Project {
	var out []model.Project
	for _, p := range projects {
		if p.Status != model.ProjectActive {
			continue
		}
		if !ProjectHasNextAction(p, tasks) {
			out = append(out, p)
		}
	}
	return out
}

// ProjectsByArea returns the projects assigned to the given area,
// preserving input order.
func ProjectsByArea(projects []model.Project, areaID string) []model.Project {
	var out []model.Project
	for _, p := range projects {
		if p.AreaID == areaID {
			out = append(out, p)
		}
	}
	return out
}

// ProjectsByTag returns the projects carrying the given tag, preserving
// input order.
func ProjectsByTag(projects []model.Project, tagID string) []model.Project {
	var out []model.Project
	for _, p := range projects {
		for _, id := range p.TagIDs {
			if id == tagID {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/gtd/internal/model"
)

// AddProject creates a new project. A missing status defaults to active.
func (s *Store) AddProject(p model.Project) (model.Project, error) {
	if strings.TrimSpace(p.Title) == "" {
		return model.Project{}, fmt.Errorf("project title must not be empty")
	}
	if p.Status == "" {
		p.Status = model.ProjectActive
	}

	p.ID = uuid.New().String()
	now := s.stamp()
	p.CreatedAt = now
	p.UpdatedAt = now

	created := p.Clone()
	err := s.mutate(func(d *model.AppData) error {
		d.Projects = append(d.Projects, p)
		return nil
	})
	if err != nil {
		return model.Project{}, err
	}
	return created, nil
}

// UpdateProject applies a partial update to the project with the given ID
// and stamps UpdatedAt.
func (s *Store) UpdateProject(id string, patch model.ProjectPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("project title must not be empty")
	}

	return s.mutate(func(d *model.AppData) error {
		i := projectIndex(d.Projects, id)
		if i < 0 {
			return fmt.Errorf("project %s not found", id)
		}
		updated := patch.ApplyTo(d.Projects[i])
		updated.UpdatedAt = s.stamp()
		d.Projects[i] = updated
		return nil
	})
}

// DeleteProject removes a project. Its tasks survive: each one is
// detached by clearing ProjectID, and stamped so the detachment syncs.
func (s *Store) DeleteProject(id string) error {
	return s.mutate(func(d *model.AppData) error {
		i := projectIndex(d.Projects, id)
		if i < 0 {
			return fmt.Errorf("project %s not found", id)
		}
		d.Projects = append(d.Projects[:i], d.Projects[i+1:]...)

		now := s.stamp()
		for j := range d.Tasks {
			if d.Tasks[j].ProjectID == id {
				d.Tasks[j].ProjectID = ""
				d.Tasks[j].UpdatedAt = now
			}
		}
		return nil
	})
}

// AddArea creates a new area ordered after all existing ones.
func (s *Store) AddArea(name string) (model.Area, error) {
	if strings.TrimSpace(name) == "" {
		return model.Area{}, fmt.Errorf("area name must not be empty")
	}

	var created model.Area
	err := s.mutate(func(d *model.AppData) error {
		order := 0
		for _, a := range d.Areas {
			if a.Order >= order {
				order = a.Order + 1
			}
		}
		created = model.Area{ID: uuid.New().String(), Name: name, Order: order}
		d.Areas = append(d.Areas, created)
		return nil
	})
	if err != nil {
		return model.Area{}, err
	}
	return created, nil
}

// UpdateArea applies a partial update to the area with the given ID.
func (s *Store) UpdateArea(id string, patch model.AreaPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("area name must not be empty")
	}

	return s.mutate(func(d *model.AppData) error {
		for i, a := range d.Areas {
			if a.ID == id {
				d.Areas[i] = patch.ApplyTo(a)
				return nil
			}
		}
		return fmt.Errorf("area %s not found", id)
	})
}

// DeleteArea removes an area and detaches the projects and tasks that
// referenced it.
func (s *Store) DeleteArea(id string) error {
	return s.mutate(func(d *model.AppData) error {
		idx := -1
		for i, a := range d.Areas {
			if a.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("area %s not found", id)
		}
		d.Areas = append(d.Areas[:idx], d.Areas[idx+1:]...)

		now := s.stamp()
		for i := range d.Projects {
			if d.Projects[i].AreaID == id {
				d.Projects[i].AreaID = ""
				d.Projects[i].UpdatedAt = now
			}
		}
		for i := range d.Tasks {
			if d.Tasks[i].AreaID == id {
				d.Tasks[i].AreaID = ""
				d.Tasks[i].UpdatedAt = now
			}
		}
		return nil
	})
}

// UpdateSettings replaces the settings blob.
func (s *Store) UpdateSettings(settings model.Settings) error {
	return s.mutate(func(d *model.AppData) error {
		d.Settings = settings.Clone()
		return nil
	})
}

func projectIndex(projects []model.Project, id string) int {
	for i, p := range projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

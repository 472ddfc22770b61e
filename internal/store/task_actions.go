package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/gtd/internal/dateutil"
	"github.com/nhle/gtd/internal/model"
)

// AddTask creates a new task from the given template. A missing status
// defaults to inbox; ID and timestamps are always assigned here. The
// created task is returned with its final field values.
func (s *Store) AddTask(t model.Task) (model.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return model.Task{}, fmt.Errorf("task title must not be empty")
	}
	if t.Status == "" {
		t.Status = model.StatusInbox
	}
	if !model.ValidTaskStatus(t.Status) {
		return model.Task{}, fmt.Errorf("invalid task status %q", t.Status)
	}

	t.ID = uuid.New().String()
	now := s.stamp()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.DeletedAt = ""
	if t.Contexts == nil {
		t.Contexts = []string{}
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}

	created := t.Clone()
	err := s.mutate(func(d *model.AppData) error {
		d.Tasks = append(d.Tasks, t)
		return nil
	})
	if err != nil {
		return model.Task{}, err
	}
	return created, nil
}

// UpdateTask applies a partial update to the task with the given ID and
// stamps UpdatedAt.
func (s *Store) UpdateTask(id string, patch model.TaskPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("task title must not be empty")
	}
	if patch.Status != nil && !model.ValidTaskStatus(*patch.Status) {
		return fmt.Errorf("invalid task status %q", *patch.Status)
	}

	return s.mutate(func(d *model.AppData) error {
		i := taskIndex(d.Tasks, id)
		if i < 0 {
			return fmt.Errorf("task %s not found", id)
		}
		updated := patch.ApplyTo(d.Tasks[i])
		updated.UpdatedAt = s.stamp()
		d.Tasks[i] = updated
		return nil
	})
}

// MoveTask changes a task's workflow status.
func (s *Store) MoveTask(id string, status model.TaskStatus) error {
	return s.UpdateTask(id, model.TaskPatch{Status: &status})
}

// DeferTask pushes a task's dates forward to the preset's target date,
// preserving each date's original time of day.
func (s *Store) DeferTask(id string, preset dateutil.DeferPreset) error {
	return s.mutate(func(d *model.AppData) error {
		i := taskIndex(d.Tasks, id)
		if i < 0 {
			return fmt.Errorf("task %s not found", id)
		}
		patch := dateutil.Defer(d.Tasks[i], preset, s.now())
		updated := patch.ApplyTo(d.Tasks[i])
		updated.UpdatedAt = s.stamp()
		d.Tasks[i] = updated
		return nil
	})
}

// SoftDeleteTask marks a task deleted, keeping it for undo. Deleting a
// task that is already deleted refreshes its deletion timestamp.
func (s *Store) SoftDeleteTask(id string) error {
	return s.mutate(func(d *model.AppData) error {
		i := taskIndex(d.Tasks, id)
		if i < 0 {
			return fmt.Errorf("task %s not found", id)
		}
		now := s.stamp()
		d.Tasks[i].DeletedAt = now
		d.Tasks[i].UpdatedAt = now
		return nil
	})
}

// RestoreTask clears a task's deletion mark.
func (s *Store) RestoreTask(id string) error {
	return s.mutate(func(d *model.AppData) error {
		i := taskIndex(d.Tasks, id)
		if i < 0 {
			return fmt.Errorf("task %s not found", id)
		}
		d.Tasks[i].DeletedAt = ""
		d.Tasks[i].UpdatedAt = s.stamp()
		return nil
	})
}

// HardDeleteTask removes a task permanently.
func (s *Store) HardDeleteTask(id string) error {
	return s.mutate(func(d *model.AppData) error {
		i := taskIndex(d.Tasks, id)
		if i < 0 {
			return fmt.Errorf("task %s not found", id)
		}
		d.Tasks = append(d.Tasks[:i], d.Tasks[i+1:]...)
		return nil
	})
}

func taskIndex(tasks []model.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

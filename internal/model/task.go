package model

// TaskStatus is the GTD workflow stage of a task.
type TaskStatus string

const (
	StatusInbox      TaskStatus = "inbox"
	StatusNext       TaskStatus = "next"
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusWaiting    TaskStatus = "waiting"
	StatusSomeday    TaskStatus = "someday"
	StatusDone       TaskStatus = "done"
	StatusArchived   TaskStatus = "archived"
	StatusReference  TaskStatus = "reference"
)

// ValidTaskStatus reports whether s is one of the known workflow stages.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case StatusInbox, StatusNext, StatusTodo, StatusInProgress,
		StatusWaiting, StatusSomeday, StatusDone, StatusArchived,
		StatusReference:
		return true
	}
	return false
}

// ChecklistItem is a sub-entry within a task. Its lifecycle is bound to
// the parent task; the ID must survive re-parsing edits (see checklist.Merge).
type ChecklistItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

// Task is a single actionable item.
//
// Date fields are ISO-8601 strings rather than time.Time: the same JSON
// documents are read and written by the web, desktop, and mobile surfaces,
// and a malformed value coming from one of them must degrade to "no date"
// instead of failing the whole decode. dateutil.Parse is the only way
// these fields should be interpreted.
type Task struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      TaskStatus      `json:"status"`
	ProjectID   string          `json:"projectId,omitempty"`
	AreaID      string          `json:"areaId,omitempty"`
	Contexts    []string        `json:"contexts"`
	Tags        []string        `json:"tags"`
	DueDate     string          `json:"dueDate,omitempty"`
	StartTime   string          `json:"startTime,omitempty"`
	ReviewAt    string          `json:"reviewAt,omitempty"`
	Checklist   []ChecklistItem `json:"checklist,omitempty"`
	DeletedAt   string          `json:"deletedAt,omitempty"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

// IsDeleted reports whether the task has been soft-deleted. Deleted tasks
// are excluded from every active view but kept for undo.
func (t Task) IsDeleted() bool { return t.DeletedAt != "" }

// IsCompleted reports whether the task has reached a terminal status.
func (t Task) IsCompleted() bool {
	return t.Status == StatusDone || t.Status == StatusArchived
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.Contexts != nil {
		c.Contexts = append([]string(nil), t.Contexts...)
	}
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.Checklist != nil {
		c.Checklist = append([]ChecklistItem(nil), t.Checklist...)
	}
	return c
}

// TaskPatch is a partial update to a task. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	ProjectID   *string
	AreaID      *string
	Contexts    *[]string
	Tags        *[]string
	DueDate     *string
	StartTime   *string
	ReviewAt    *string
	Checklist   *[]ChecklistItem
	DeletedAt   *string
}

// ApplyTo returns a copy of t with the patch's non-nil fields applied.
// It does not stamp UpdatedAt; the store owns mutation timestamps.
func (p TaskPatch) ApplyTo(t Task) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.ProjectID != nil {
		out.ProjectID = *p.ProjectID
	}
	if p.AreaID != nil {
		out.AreaID = *p.AreaID
	}
	if p.Contexts != nil {
		out.Contexts = append([]string(nil), *p.Contexts...)
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), *p.Tags...)
	}
	if p.DueDate != nil {
		out.DueDate = *p.DueDate
	}
	if p.StartTime != nil {
		out.StartTime = *p.StartTime
	}
	if p.ReviewAt != nil {
		out.ReviewAt = *p.ReviewAt
	}
	if p.Checklist != nil {
		out.Checklist = append([]ChecklistItem(nil), *p.Checklist...)
	}
	if p.DeletedAt != nil {
		out.DeletedAt = *p.DeletedAt
	}
	return out
}

package model

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectSomeday  ProjectStatus = "someday"
	ProjectArchived ProjectStatus = "archived"
)

// Project is a grouping of tasks working toward a single outcome.
// Tasks point at their project via Task.ProjectID; the project does not
// enumerate its tasks.
type Project struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Status    ProjectStatus `json:"status"`
	AreaID    string        `json:"areaId,omitempty"`
	Color     string        `json:"color,omitempty"`
	TagIDs    []string      `json:"tagIds,omitempty"`
	ReviewAt  string        `json:"reviewAt,omitempty"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	c := p
	if p.TagIDs != nil {
		c.TagIDs = append([]string(nil), p.TagIDs...)
	}
	return c
}

// ProjectPatch is a partial update to a project. Nil fields are left untouched.
type ProjectPatch struct {
	Title    *string
	Status   *ProjectStatus
	AreaID   *string
	Color    *string
	TagIDs   *[]string
	ReviewAt *string
}

// ApplyTo returns a copy of p with the patch's non-nil fields applied.
func (patch ProjectPatch) ApplyTo(p Project) Project {
	out := p.Clone()
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Status != nil {
		out.Status = *patch.Status
	}
	if patch.AreaID != nil {
		out.AreaID = *patch.AreaID
	}
	if patch.Color != nil {
		out.Color = *patch.Color
	}
	if patch.TagIDs != nil {
		out.TagIDs = append([]string(nil), *patch.TagIDs...)
	}
	if patch.ReviewAt != nil {
		out.ReviewAt = *patch.ReviewAt
	}
	return out
}

// Area is a top-level grouping for projects and loose tasks, coarser
// than a project. Order defines its stable sort position.
type Area struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// AreaPatch is a partial update to an area. Nil fields are left untouched.
type AreaPatch struct {
	Name  *string
	Order *int
}

// ApplyTo returns a copy of a with the patch's non-nil fields applied.
func (patch AreaPatch) ApplyTo(a Area) Area {
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Order != nil {
		a.Order = *patch.Order
	}
	return a
}

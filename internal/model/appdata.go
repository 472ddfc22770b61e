package model

// AppData is the full application state as exchanged with persistence
// adapters and the companion server. Adapters always read and write the
// whole snapshot; there is no diff format.
type AppData struct {
	Tasks    []Task    `json:"tasks"`
	Projects []Project `json:"projects"`
	Areas    []Area    `json:"areas"`
	Settings Settings  `json:"settings"`
}

// Clone returns a deep copy of the snapshot.
func (d AppData) Clone() AppData {
	out := AppData{Settings: d.Settings.Clone()}
	if d.Tasks != nil {
		out.Tasks = make([]Task, len(d.Tasks))
		for i, t := range d.Tasks {
			out.Tasks[i] = t.Clone()
		}
	}
	if d.Projects != nil {
		out.Projects = make([]Project, len(d.Projects))
		for i, p := range d.Projects {
			out.Projects[i] = p.Clone()
		}
	}
	if d.Areas != nil {
		out.Areas = append([]Area(nil), d.Areas...)
	}
	return out
}

// Normalize replaces nil collections with empty slices so the JSON wire
// form always carries arrays, matching what the front ends expect.
func (d *AppData) Normalize() {
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Areas == nil {
		d.Areas = []Area{}
	}
}

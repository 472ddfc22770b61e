package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/gtd/internal/model"
)

// SQLiteAdapter persists the snapshot in a local SQLite database.
type SQLiteAdapter struct {
	db *sqlx.DB
}

// NewSQLiteAdapter opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteAdapter(dbPath string) (*SQLiteAdapter, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	a := &SQLiteAdapter{db: db}
	if err := a.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return a, nil
}

// Close closes the underlying database connection.
func (a *SQLiteAdapter) Close() error {
	return a.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (a *SQLiteAdapter) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := a.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = a.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := a.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SaveData replaces the full snapshot in a single transaction, which
// makes repeated saves of the same snapshot idempotent.
func (a *SQLiteAdapter) SaveData(ctx context.Context, data model.AppData) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"tasks", "projects", "areas"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	taskStmt, err := tx.PreparexContext(ctx, `
		INSERT INTO tasks (
			id, title, description, status, project_id, area_id,
			contexts, tags, due_date, start_time, review_at,
			checklist, deleted_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing task insert: %w", err)
	}
	defer taskStmt.Close()

	for _, t := range data.Tasks {
		contexts, err := json.Marshal(emptyIfNil(t.Contexts))
		if err != nil {
			return fmt.Errorf("marshaling contexts for task %s: %w", t.ID, err)
		}
		tags, err := json.Marshal(emptyIfNil(t.Tags))
		if err != nil {
			return fmt.Errorf("marshaling tags for task %s: %w", t.ID, err)
		}
		checklist, err := json.Marshal(t.Checklist)
		if err != nil {
			return fmt.Errorf("marshaling checklist for task %s: %w", t.ID, err)
		}
		if t.Checklist == nil {
			checklist = []byte("[]")
		}

		_, err = taskStmt.ExecContext(ctx,
			t.ID, t.Title, t.Description, string(t.Status), t.ProjectID, t.AreaID,
			string(contexts), string(tags), t.DueDate, t.StartTime, t.ReviewAt,
			string(checklist), t.DeletedAt, t.CreatedAt, t.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting task %s: %w", t.ID, err)
		}
	}

	projectStmt, err := tx.PreparexContext(ctx, `
		INSERT INTO projects (
			id, title, status, area_id, color, tag_ids, review_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing project insert: %w", err)
	}
	defer projectStmt.Close()

	for _, p := range data.Projects {
		tagIDs, err := json.Marshal(emptyIfNil(p.TagIDs))
		if err != nil {
			return fmt.Errorf("marshaling tag_ids for project %s: %w", p.ID, err)
		}
		_, err = projectStmt.ExecContext(ctx,
			p.ID, p.Title, string(p.Status), p.AreaID, p.Color,
			string(tagIDs), p.ReviewAt, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting project %s: %w", p.ID, err)
		}
	}

	for _, ar := range data.Areas {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO areas (id, name, sort_order) VALUES (?, ?, ?)",
			ar.ID, ar.Name, ar.Order,
		)
		if err != nil {
			return fmt.Errorf("inserting area %s: %w", ar.ID, err)
		}
	}

	settings, err := json.Marshal(data.Settings)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO settings (id, data) VALUES (1, ?)",
		string(settings),
	)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	return tx.Commit()
}

// GetData loads the full snapshot from the database.
func (a *SQLiteAdapter) GetData(ctx context.Context) (model.AppData, error) {
	var data model.AppData

	rows, err := a.db.QueryxContext(ctx, "SELECT * FROM tasks")
	if err != nil {
		return data, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return data, err
		}
		data.Tasks = append(data.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return data, err
	}

	projRows, err := a.db.QueryxContext(ctx, "SELECT * FROM projects")
	if err != nil {
		return data, fmt.Errorf("querying projects: %w", err)
	}
	defer projRows.Close()
	for projRows.Next() {
		p, err := scanProject(projRows)
		if err != nil {
			return data, err
		}
		data.Projects = append(data.Projects, p)
	}
	if err := projRows.Err(); err != nil {
		return data, err
	}

	areaRows, err := a.db.QueryxContext(ctx, "SELECT * FROM areas ORDER BY sort_order")
	if err != nil {
		return data, fmt.Errorf("querying areas: %w", err)
	}
	defer areaRows.Close()
	for areaRows.Next() {
		var ar model.Area
		if err := areaRows.Scan(&ar.ID, &ar.Name, &ar.Order); err != nil {
			return data, fmt.Errorf("scanning area row: %w", err)
		}
		data.Areas = append(data.Areas, ar)
	}
	if err := areaRows.Err(); err != nil {
		return data, err
	}

	var settingsJSON string
	err = a.db.GetContext(ctx, &settingsJSON, "SELECT data FROM settings WHERE id = 1")
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return data, fmt.Errorf("reading settings: %w", err)
	}
	if settingsJSON != "" {
		if err := json.Unmarshal([]byte(settingsJSON), &data.Settings); err != nil {
			return data, fmt.Errorf("unmarshaling settings: %w", err)
		}
	}

	data.Normalize()
	return data, nil
}

// scanTask scans a task row from a sqlx.Rows result set.
func scanTask(rows *sqlx.Rows) (model.Task, error) {
	var (
		task      model.Task
		status    string
		contexts  string
		tags      string
		checklist string
	)

	err := rows.Scan(
		&task.ID, &task.Title, &task.Description, &status, &task.ProjectID, &task.AreaID,
		&contexts, &tags, &task.DueDate, &task.StartTime, &task.ReviewAt,
		&checklist, &task.DeletedAt, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	task.Status = model.TaskStatus(status)
	if err := json.Unmarshal([]byte(contexts), &task.Contexts); err != nil {
		return model.Task{}, fmt.Errorf("unmarshaling contexts: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &task.Tags); err != nil {
		return model.Task{}, fmt.Errorf("unmarshaling tags: %w", err)
	}
	if err := json.Unmarshal([]byte(checklist), &task.Checklist); err != nil {
		return model.Task{}, fmt.Errorf("unmarshaling checklist: %w", err)
	}
	if len(task.Checklist) == 0 {
		task.Checklist = nil
	}

	return task, nil
}

// scanProject scans a project row from a sqlx.Rows result set.
func scanProject(rows *sqlx.Rows) (model.Project, error) {
	var (
		project model.Project
		status  string
		tagIDs  string
	)

	err := rows.Scan(
		&project.ID, &project.Title, &status, &project.AreaID, &project.Color,
		&tagIDs, &project.ReviewAt, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("scanning project row: %w", err)
	}

	project.Status = model.ProjectStatus(status)
	if err := json.Unmarshal([]byte(tagIDs), &project.TagIDs); err != nil {
		return model.Project{}, fmt.Errorf("unmarshaling tag_ids: %w", err)
	}
	if len(project.TagIDs) == 0 {
		project.TagIDs = nil
	}

	return project, nil
}

// emptyIfNil keeps JSON columns as arrays rather than null.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

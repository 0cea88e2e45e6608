package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/purposelog/purposelog_backend/internal/apperrors"
	"github.com/purposelog/purposelog_backend/internal/core/domain"
	portsrepo "github.com/purposelog/purposelog_backend/internal/core/ports/repositories"
	"github.com/purposelog/purposelog_backend/internal/models"
)

type PgxTaskRepository struct {
	db *pgxpool.Pool
}

func newPgxTaskRepository(db *pgxpool.Pool) portsrepo.TaskRepositoryFacade {
	return &PgxTaskRepository{db: db}
}

// Ensure PgxTaskRepository implements portsrepo.TaskRepositoryFacade
var _ portsrepo.TaskRepositoryFacade = (*PgxTaskRepository)(nil)

const taskColumns = `task_id, owner_id, title, description, status, priority, due_date, created_at, updated_at`

// taskSortColumns maps domain sort field names to table columns. Anything
// outside this map never reaches SQL.
var taskSortColumns = map[string]string{
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
	"dueDate":   "due_date",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// Helper to convert domain.Task to models.Task
func toModelTask(d domain.Task) models.Task {
	m := models.Task{
		TaskID:      d.TaskID,
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Description: d.Description,
		Status:      string(d.Status),
		Priority:    string(d.Priority),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.DueDate != nil {
		m.DueDate = sql.NullTime{Time: *d.DueDate, Valid: true}
	}
	return m
}

// Helper to convert models.Task to domain.Task
func toDomainTask(m models.Task) domain.Task {
	d := domain.Task{
		TaskID:      m.TaskID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		Status:      domain.TaskStatus(m.Status),
		Priority:    domain.TaskPriority(m.Priority),
		Timestamps: domain.Timestamps{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
	if m.DueDate.Valid {
		due := m.DueDate.Time
		d.DueDate = &due
	}
	return d
}

func (r *PgxTaskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	m := toModelTask(task)
	query := `
        INSERT INTO tasks (` + taskColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.db.Exec(ctx, query,
		m.TaskID,
		m.OwnerID,
		m.Title,
		m.Description,
		m.Status,
		m.Priority,
		m.DueDate,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (r *PgxTaskRepository) FindTaskByID(ctx context.Context, taskID, ownerID string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = $1 AND owner_id = $2;`
	var m models.Task
	err := r.db.QueryRow(ctx, query, taskID, ownerID).Scan(
		&m.TaskID,
		&m.OwnerID,
		&m.Title,
		&m.Description,
		&m.Status,
		&m.Priority,
		&m.DueDate,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task by ID %s: %w", taskID, err)
	}
	d := toDomainTask(m)
	return &d, nil
}

// buildTaskFilterClause renders the WHERE conditions shared by ListTasks and
// CountTasks, starting argument placeholders at $1 for owner_id.
func buildTaskFilterClause(ownerID string, filter domain.TaskFilter) (string, []any) {
	conditions := []string{"owner_id = $1"}
	args := []any{ownerID}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, string(filter.Priority))
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}

	return strings.Join(conditions, " AND "), args
}

func (r *PgxTaskRepository) ListTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) ([]domain.Task, error) {
	where, args := buildTaskFilterClause(ownerID, filter)

	sortColumn, ok := taskSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if filter.SortAsc {
		direction = "ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
        SELECT `+taskColumns+`
        FROM tasks
        WHERE %s
        ORDER BY %s %s
        LIMIT $%d OFFSET $%d;
    `, where, sortColumn, direction, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var m models.Task
		err := rows.Scan(
			&m.TaskID,
			&m.OwnerID,
			&m.Title,
			&m.Description,
			&m.Status,
			&m.Priority,
			&m.DueDate,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, toDomainTask(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", rows.Err())
	}

	return tasks, nil
}

func (r *PgxTaskRepository) CountTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) (int64, error) {
	where, args := buildTaskFilterClause(ownerID, filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM tasks WHERE %s;`, where)

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return total, nil
}

func (r *PgxTaskRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	m := toModelTask(task)
	query := `
        UPDATE tasks
        SET title = $1, description = $2, status = $3, priority = $4, due_date = $5, updated_at = $6
        WHERE task_id = $7 AND owner_id = $8;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		m.Title,
		m.Description,
		m.Status,
		m.Priority,
		m.DueDate,
		m.UpdatedAt,
		m.TaskID,
		m.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTaskRepository) DeleteTask(ctx context.Context, taskID, ownerID string) error {
	query := `DELETE FROM tasks WHERE task_id = $1 AND owner_id = $2;`
	cmdTag, err := r.db.Exec(ctx, query, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTaskRepository) DeleteTasksByOwner(ctx context.Context, ownerID string) error {
	query := `DELETE FROM tasks WHERE owner_id = $1;`
	if _, err := r.db.Exec(ctx, query, ownerID); err != nil {
		return fmt.Errorf("failed to delete tasks for owner %s: %w", ownerID, err)
	}
	return nil
}

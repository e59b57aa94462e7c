package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"taskpilot/internal/core/domain"
	"taskpilot/internal/core/ports"
)

type TaskRepository struct {
	db *sqlx.DB
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

type taskRow struct {
	ID                    uint64         `db:"id"`
	UserID                string         `db:"user_id"`
	Title                 string         `db:"title"`
	Description           string         `db:"description"`
	Completed             bool           `db:"completed"`
	Priority              string         `db:"priority"`
	DueDate               sql.NullTime   `db:"due_date"`
	ReminderOffsetMinutes sql.NullInt64  `db:"reminder_offset_minutes"`
	Recurrence            string         `db:"recurrence"`
	IsRecurring           bool           `db:"is_recurring"`
	CreatedAt             time.Time      `db:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at"`
}

const insertTaskQuery = `
INSERT INTO tasks
  (user_id, title, description, completed, priority, due_date, reminder_offset_minutes, recurrence, is_recurring, created_at, updated_at)
VALUES
  (?, ?, ?, FALSE, ?, ?, ?, ?, ?, ?, ?);
`

func (r *TaskRepository) Create(ctx context.Context, userID string, input domain.CreateTaskInput) (domain.Task, error) {
	now := time.Now().UTC()
	isRecurring := input.Recurrence != domain.RecurrenceNone

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Task{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, insertTaskQuery,
		userID,
		input.Title,
		input.Description,
		string(input.Priority),
		nullTime(input.DueDate),
		nullInt(input.ReminderOffsetMinutes),
		string(input.Recurrence),
		isRecurring,
		now,
		now,
	)
	if err != nil {
		return domain.Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Task{}, err
	}

	taskID := uint64(id)
	if len(input.Tags) > 0 {
		if err := insertTags(ctx, tx, taskID, input.Tags); err != nil {
			return domain.Task{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Task{}, err
	}

	return domain.Task{
		ID:                    taskID,
		UserID:                userID,
		Title:                 input.Title,
		Description:           input.Description,
		Priority:              input.Priority,
		DueDate:               input.DueDate,
		ReminderOffsetMinutes: input.ReminderOffsetMinutes,
		Recurrence:            input.Recurrence,
		IsRecurring:           isRecurring,
		Tags:                  input.Tags,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, taskID uint64) (domain.Task, error) {
	var row taskRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM tasks WHERE id = ?;`, taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if err != nil {
		return domain.Task{}, err
	}

	tags, err := r.tagsFor(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	return mapTaskRow(row, tags), nil
}

func (r *TaskRepository) List(ctx context.Context, userID string, filter domain.TaskFilter) ([]domain.Task, error) {
	var b strings.Builder
	b.WriteString(`SELECT t.* FROM tasks t`)
	args := []any{}

	if filter.Tag != "" {
		b.WriteString(` JOIN task_tags tt ON tt.task_id = t.id AND tt.tag = ?`)
		args = append(args, filter.Tag)
	}

	b.WriteString(` WHERE t.user_id = ?`)
	args = append(args, userID)

	switch filter.Status {
	case domain.TaskStatusPending:
		b.WriteString(` AND t.completed = FALSE`)
	case domain.TaskStatusCompleted:
		b.WriteString(` AND t.completed = TRUE`)
	}
	if filter.Priority != "" {
		b.WriteString(` AND t.priority = ?`)
		args = append(args, string(filter.Priority))
	}
	if filter.Search != "" {
		b.WriteString(` AND (t.title LIKE ? OR t.description LIKE ?)`)
		term := "%" + filter.Search + "%"
		args = append(args, term, term)
	}
	if filter.DueFrom != nil {
		b.WriteString(` AND t.due_date >= ?`)
		args = append(args, filter.DueFrom.UTC())
	}
	if filter.DueTo != nil {
		b.WriteString(` AND t.due_date <= ?`)
		args = append(args, filter.DueTo.UTC())
	}

	b.WriteString(orderClause(filter))

	if filter.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}
	b.WriteString(`;`)

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, b.String(), args...); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tags, err := r.tagsFor(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, mapTaskRow(row, tags))
	}
	return tasks, nil
}

const updateTaskQuery = `
UPDATE tasks SET
  title = ?,
  description = ?,
  completed = ?,
  priority = ?,
  due_date = ?,
  reminder_offset_minutes = ?,
  recurrence = ?,
  is_recurring = ?,
  updated_at = ?
WHERE id = ?;
`

func (r *TaskRepository) Update(ctx context.Context, task domain.Task) (domain.Task, error) {
	_, err := r.db.ExecContext(ctx, updateTaskQuery,
		task.Title,
		task.Description,
		task.Completed,
		string(task.Priority),
		nullTime(task.DueDate),
		nullInt(task.ReminderOffsetMinutes),
		string(task.Recurrence),
		task.IsRecurring,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (r *TaskRepository) ReplaceTags(ctx context.Context, taskID uint64, tags []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?;`, taskID); err != nil {
		return err
	}
	if err := insertTags(ctx, tx, taskID, tags); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *TaskRepository) Delete(ctx context.Context, taskID uint64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?;`, taskID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?;`, taskID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *TaskRepository) ExistsPending(ctx context.Context, userID, title string, dueDate time.Time) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM tasks WHERE user_id = ? AND title = ? AND completed = FALSE AND due_date = ?;`,
		userID, title, dueDate.UTC(),
	)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func insertTags(ctx context.Context, tx sqlx.ExecerContext, taskID uint64, tags []string) error {
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, `INSERT INTO task_tags (task_id, tag) VALUES (?, ?);`, taskID, tag); err != nil {
			return err
		}
	}
	return nil
}

func (r *TaskRepository) tagsFor(ctx context.Context, taskID uint64) ([]string, error) {
	var tags []string
	if err := r.db.SelectContext(ctx, &tags, `SELECT tag FROM task_tags WHERE task_id = ? ORDER BY tag;`, taskID); err != nil {
		return nil, err
	}
	return tags, nil
}

func orderClause(filter domain.TaskFilter) string {
	dir := "ASC"
	if filter.Descending {
		dir = "DESC"
	}
	switch filter.Sort {
	case domain.TaskSortDueDate:
		return fmt.Sprintf(` ORDER BY t.due_date %s`, dir)
	case domain.TaskSortPriority:
		return fmt.Sprintf(` ORDER BY CASE t.priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END %s`, dir)
	case domain.TaskSortTitle:
		return fmt.Sprintf(` ORDER BY t.title %s`, dir)
	default:
		return ` ORDER BY t.created_at DESC`
	}
}

func mapTaskRow(row taskRow, tags []string) domain.Task {
	task := domain.Task{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       row.Title,
		Description: row.Description,
		Completed:   row.Completed,
		Priority:    domain.Priority(row.Priority),
		Recurrence:  domain.Recurrence(row.Recurrence),
		IsRecurring: row.IsRecurring,
		Tags:        tags,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.DueDate.Valid {
		value := row.DueDate.Time
		task.DueDate = &value
	}
	if row.ReminderOffsetMinutes.Valid {
		value := int(row.ReminderOffsetMinutes.Int64)
		task.ReminderOffsetMinutes = &value
	}
	return task
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/grow/core/task"
)

type calendarRow struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	Name      string    `db:"name"`
	Color     string    `db:"color"`
	CreatedAt time.Time `db:"created_at"`
}

func (row calendarRow) unpack() task.Calendar {
	return task.Calendar(row)
}

type taskRow struct {
	ID          string      `db:"id"`
	OwnerID     string      `db:"owner_id"`
	CalendarID  string      `db:"calendar_id"`
	Title       string      `db:"title"`
	Description string      `db:"description"`
	Date        time.Time   `db:"date"`
	Time        null.String `db:"time"`
	IsAllDay    bool        `db:"is_all_day"`
	Completed   bool        `db:"completed"`
	HomeworkID  null.String `db:"homework_id"`
	CreatedAt   time.Time   `db:"created_at"`
}

func (row taskRow) unpack() task.Task {
	return task.Task{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		CalendarID:  row.CalendarID,
		Title:       row.Title,
		Description: row.Description,
		Date:        row.Date,
		Time:        row.Time.String,
		IsAllDay:    row.IsAllDay,
		Completed:   row.Completed,
		HomeworkID:  row.HomeworkID.String,
		CreatedAt:   row.CreatedAt,
	}
}

func packTask(tsk task.Task) taskRow {
	return taskRow{
		ID:          tsk.ID,
		OwnerID:     tsk.OwnerID,
		CalendarID:  tsk.CalendarID,
		Title:       tsk.Title,
		Description: tsk.Description,
		Date:        tsk.Date,
		Time:        null.NewString(tsk.Time, tsk.Time != ""),
		IsAllDay:    tsk.IsAllDay,
		Completed:   tsk.Completed,
		HomeworkID:  null.NewString(tsk.HomeworkID, tsk.HomeworkID != ""),
		CreatedAt:   tsk.CreatedAt.UTC(),
	}
}

type taskRepository struct {
	db *sqlx.DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *sqlx.DB) task.Repository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) CreateCalendar(ctx context.Context, cal task.Calendar) (task.Calendar, error) {
	query := `
		INSERT INTO task_calendars (id, owner_id, name, color, created_at)
		VALUES (:id, :owner_id, :name, :color, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, calendarRow(cal)); err != nil {
		return task.Calendar{}, errors.Wrap(err, "creating calendar")
	}
	return cal, nil
}

func (repo *taskRepository) QueryOwnerCalendars(ctx context.Context, ownerID string) ([]task.Calendar, error) {
	var rows []calendarRow
	query := `SELECT * FROM task_calendars WHERE owner_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, errors.Wrap(err, "querying calendars")
	}
	cals := make([]task.Calendar, 0, len(rows))
	for _, row := range rows {
		cals = append(cals, row.unpack())
	}
	return cals, nil
}

func (repo *taskRepository) GetOwnerCalendar(ctx context.Context, ownerID, id string) (task.Calendar, error) {
	var row calendarRow
	query := `SELECT * FROM task_calendars WHERE owner_id = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &row, query, ownerID, id); err != nil {
		if err == sql.ErrNoRows {
			return task.Calendar{}, task.ErrCalendarNotFound
		}
		return task.Calendar{}, errors.Wrap(err, "finding calendar")
	}
	return row.unpack(), nil
}

func (repo *taskRepository) UpdateCalendar(ctx context.Context, cal task.Calendar) (task.Calendar, error) {
	query := `UPDATE task_calendars SET name = :name, color = :color WHERE owner_id = :owner_id AND id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, calendarRow(cal))
	if err != nil {
		return task.Calendar{}, errors.Wrap(err, "updating calendar")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return task.Calendar{}, task.ErrCalendarNotFound
	}
	return cal, nil
}

func (repo *taskRepository) DeleteCalendar(ctx context.Context, ownerID, id string) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var inUse bool
	if err = tx.GetContext(ctx, &inUse, `SELECT EXISTS (SELECT 1 FROM tasks WHERE calendar_id = $1)`, id); err != nil {
		return errors.Wrap(err, "checking calendar tasks")
	}
	if inUse {
		return task.ErrCalendarInUse
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM task_calendars WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return errors.Wrap(err, "deleting calendar")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return task.ErrCalendarNotFound
	}
	return errors.Wrap(tx.Commit(), "committing calendar delete")
}

func (repo *taskRepository) CreateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	query := `
		INSERT INTO tasks (id, owner_id, calendar_id, title, description, date, time, is_all_day, completed, homework_id, created_at)
		VALUES (:id, :owner_id, :calendar_id, :title, :description, :date, :time, :is_all_day, :completed, :homework_id, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, packTask(tsk)); err != nil {
		return task.Task{}, errors.Wrap(err, "creating task")
	}
	return tsk, nil
}

func (repo *taskRepository) QueryOwnerTasks(ctx context.Context, ownerID string) ([]task.Task, error) {
	var rows []taskRow
	query := `SELECT * FROM tasks WHERE owner_id = $1 ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	tasks := make([]task.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.unpack())
	}
	return tasks, nil
}

func (repo *taskRepository) GetOwnerTask(ctx context.Context, ownerID, id string) (task.Task, error) {
	var row taskRow
	query := `SELECT * FROM tasks WHERE owner_id = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &row, query, ownerID, id); err != nil {
		if err == sql.ErrNoRows {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, errors.Wrap(err, "finding task")
	}
	return row.unpack(), nil
}

func (repo *taskRepository) UpdateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	query := `
		UPDATE tasks SET
			calendar_id = :calendar_id, title = :title, description = :description,
			date = :date, time = :time, is_all_day = :is_all_day, completed = :completed
		WHERE owner_id = :owner_id AND id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, packTask(tsk))
	if err != nil {
		return task.Task{}, errors.Wrap(err, "updating task")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return task.Task{}, task.ErrNotFound
	}
	return tsk, nil
}

func (repo *taskRepository) SetTaskCompleted(ctx context.Context, ownerID, id string, completed bool) (task.Task, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var row taskRow
	query := `UPDATE tasks SET completed = $1 WHERE owner_id = $2 AND id = $3 RETURNING *`
	if err = tx.GetContext(ctx, &row, query, completed, ownerID, id); err != nil {
		if err == sql.ErrNoRows {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, errors.Wrap(err, "updating task completion")
	}
	if row.HomeworkID.Valid {
		if _, err = tx.ExecContext(ctx,
			`UPDATE homework SET completed = $1 WHERE id = $2`, completed, row.HomeworkID.String); err != nil {
			return task.Task{}, errors.Wrap(err, "syncing homework completion")
		}
	}
	if err = tx.Commit(); err != nil {
		return task.Task{}, errors.Wrap(err, "committing task completion")
	}
	return row.unpack(), nil
}

func (repo *taskRepository) DeleteTask(ctx context.Context, ownerID, id string) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	// drop a stale link on the owning assignment
	if _, err = tx.ExecContext(ctx, `UPDATE homework SET linked_task_id = NULL WHERE linked_task_id = $1`, id); err != nil {
		return errors.Wrap(err, "unlinking homework")
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return errors.Wrap(err, "deleting task")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return task.ErrNotFound
	}
	return errors.Wrap(tx.Commit(), "committing task delete")
}

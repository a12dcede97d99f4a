package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/grow/core/homework"
	"github.com/trezcool/grow/core/task"
)

type homeworkRow struct {
	ID              string      `db:"id"`
	OwnerID         string      `db:"owner_id"`
	ScheduleEventID string      `db:"schedule_event_id"`
	Title           string      `db:"title"`
	Description     string      `db:"description"`
	Notes           string      `db:"notes"`
	DueDate         time.Time   `db:"due_date"`
	DueTime         null.String `db:"due_time"`
	IsAllDay        bool        `db:"is_all_day"`
	Completed       bool        `db:"completed"`
	LinkedTaskID    null.String `db:"linked_task_id"`
	CreatedAt       time.Time   `db:"created_at"`
}

func (row homeworkRow) unpack() homework.Homework {
	return homework.Homework{
		ID:              row.ID,
		OwnerID:         row.OwnerID,
		ScheduleEventID: row.ScheduleEventID,
		Title:           row.Title,
		Description:     row.Description,
		Notes:           row.Notes,
		DueDate:         row.DueDate,
		DueTime:         row.DueTime.String,
		IsAllDay:        row.IsAllDay,
		Completed:       row.Completed,
		LinkedTaskID:    row.LinkedTaskID.String,
		CreatedAt:       row.CreatedAt,
	}
}

func packHomework(hw homework.Homework) homeworkRow {
	return homeworkRow{
		ID:              hw.ID,
		OwnerID:         hw.OwnerID,
		ScheduleEventID: hw.ScheduleEventID,
		Title:           hw.Title,
		Description:     hw.Description,
		Notes:           hw.Notes,
		DueDate:         hw.DueDate,
		DueTime:         null.NewString(hw.DueTime, hw.DueTime != ""),
		IsAllDay:        hw.IsAllDay,
		Completed:       hw.Completed,
		LinkedTaskID:    null.NewString(hw.LinkedTaskID, hw.LinkedTaskID != ""),
		CreatedAt:       hw.CreatedAt.UTC(),
	}
}

type homeworkRepository struct {
	db *sqlx.DB
}

var _ homework.Repository = (*homeworkRepository)(nil) // interface compliance check

func NewHomeworkRepository(db *sqlx.DB) homework.Repository {
	return &homeworkRepository{db: db}
}

func (repo *homeworkRepository) CreateHomework(ctx context.Context, hw homework.Homework) (homework.Homework, error) {
	query := `
		INSERT INTO homework (id, owner_id, schedule_event_id, title, description, notes, due_date, due_time, is_all_day, completed, linked_task_id, created_at)
		VALUES (:id, :owner_id, :schedule_event_id, :title, :description, :notes, :due_date, :due_time, :is_all_day, :completed, :linked_task_id, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, packHomework(hw)); err != nil {
		return homework.Homework{}, errors.Wrap(err, "creating homework")
	}
	return hw, nil
}

func (repo *homeworkRepository) QueryOwnerHomework(ctx context.Context, ownerID string) ([]homework.Homework, error) {
	var rows []homeworkRow
	query := `SELECT * FROM homework WHERE owner_id = $1 ORDER BY due_date, created_at`
	if err := repo.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, errors.Wrap(err, "querying homework")
	}
	hws := make([]homework.Homework, 0, len(rows))
	for _, row := range rows {
		hws = append(hws, row.unpack())
	}
	return hws, nil
}

func (repo *homeworkRepository) GetOwnerHomework(ctx context.Context, ownerID, id string) (homework.Homework, error) {
	var row homeworkRow
	query := `SELECT * FROM homework WHERE owner_id = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &row, query, ownerID, id); err != nil {
		if err == sql.ErrNoRows {
			return homework.Homework{}, homework.ErrNotFound
		}
		return homework.Homework{}, errors.Wrap(err, "finding homework")
	}
	return row.unpack(), nil
}

func (repo *homeworkRepository) UpdateHomework(ctx context.Context, hw homework.Homework) (homework.Homework, error) {
	// the link is owned by LinkTask/DeleteHomework, never by updates
	query := `
		UPDATE homework SET
			schedule_event_id = :schedule_event_id, title = :title, description = :description,
			notes = :notes, due_date = :due_date, due_time = :due_time, is_all_day = :is_all_day
		WHERE owner_id = :owner_id AND id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, packHomework(hw))
	if err != nil {
		return homework.Homework{}, errors.Wrap(err, "updating homework")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return homework.Homework{}, homework.ErrNotFound
	}
	return hw, nil
}

func (repo *homeworkRepository) LinkTask(ctx context.Context, hw homework.Homework, tsk task.Task) (homework.Homework, task.Task, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return homework.Homework{}, task.Task{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var orig homeworkRow
	query := `SELECT * FROM homework WHERE owner_id = $1 AND id = $2 FOR UPDATE`
	if err = tx.GetContext(ctx, &orig, query, hw.OwnerID, hw.ID); err != nil {
		if err == sql.ErrNoRows {
			return homework.Homework{}, task.Task{}, homework.ErrNotFound
		}
		return homework.Homework{}, task.Task{}, errors.Wrap(err, "finding homework")
	}
	if orig.LinkedTaskID.Valid {
		return homework.Homework{}, task.Task{}, homework.ErrAlreadyLinked
	}

	insert := `
		INSERT INTO tasks (id, owner_id, calendar_id, title, description, date, time, is_all_day, completed, homework_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err = tx.ExecContext(ctx, insert,
		tsk.ID, tsk.OwnerID, tsk.CalendarID, tsk.Title, tsk.Description, tsk.Date,
		null.NewString(tsk.Time, tsk.Time != ""), tsk.IsAllDay, tsk.Completed, tsk.HomeworkID, tsk.CreatedAt.UTC(),
	); err != nil {
		return homework.Homework{}, task.Task{}, errors.Wrap(err, "creating linked task")
	}
	if _, err = tx.ExecContext(ctx, `UPDATE homework SET linked_task_id = $1 WHERE id = $2`, tsk.ID, hw.ID); err != nil {
		return homework.Homework{}, task.Task{}, errors.Wrap(err, "linking task")
	}
	if err = tx.Commit(); err != nil {
		return homework.Homework{}, task.Task{}, errors.Wrap(err, "committing link")
	}

	linked := orig.unpack()
	linked.LinkedTaskID = tsk.ID
	return linked, tsk, nil
}

func (repo *homeworkRepository) SetHomeworkCompleted(ctx context.Context, ownerID, id string, completed bool) (homework.Homework, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return homework.Homework{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var row homeworkRow
	query := `UPDATE homework SET completed = $1 WHERE owner_id = $2 AND id = $3 RETURNING *`
	if err = tx.GetContext(ctx, &row, query, completed, ownerID, id); err != nil {
		if err == sql.ErrNoRows {
			return homework.Homework{}, homework.ErrNotFound
		}
		return homework.Homework{}, errors.Wrap(err, "updating homework completion")
	}
	if row.LinkedTaskID.Valid {
		if _, err = tx.ExecContext(ctx,
			`UPDATE tasks SET completed = $1 WHERE id = $2`, completed, row.LinkedTaskID.String); err != nil {
			return homework.Homework{}, errors.Wrap(err, "syncing task completion")
		}
	}
	if err = tx.Commit(); err != nil {
		return homework.Homework{}, errors.Wrap(err, "committing homework completion")
	}
	return row.unpack(), nil
}

func (repo *homeworkRepository) DeleteHomework(ctx context.Context, ownerID, id string) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var row homeworkRow
	query := `SELECT * FROM homework WHERE owner_id = $1 AND id = $2 FOR UPDATE`
	if err = tx.GetContext(ctx, &row, query, ownerID, id); err != nil {
		if err == sql.ErrNoRows {
			return homework.ErrNotFound
		}
		return errors.Wrap(err, "finding homework")
	}
	// the linked task goes first so no orphaned back-reference survives
	if row.LinkedTaskID.Valid {
		if _, err = tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, row.LinkedTaskID.String); err != nil {
			return errors.Wrap(err, "deleting linked task")
		}
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM homework WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting homework")
	}
	return errors.Wrap(tx.Commit(), "committing homework delete")
}

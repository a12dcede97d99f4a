package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/grow/core/schedule"
)

type eventRow struct {
	ID          string         `db:"id"`
	OwnerID     string         `db:"owner_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Location    string         `db:"location"`
	StartTime   string         `db:"start_time"`
	EndTime     string         `db:"end_time"`
	WeekType    string         `db:"week_type"`
	Days        pq.StringArray `db:"days"`
	Color       string         `db:"color"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (row eventRow) unpack() schedule.Event {
	return schedule.Event{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Title:       row.Title,
		Description: row.Description,
		Location:    row.Location,
		StartTime:   row.StartTime,
		EndTime:     row.EndTime,
		WeekType:    row.WeekType,
		Days:        row.Days,
		Color:       row.Color,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func packEvent(evt schedule.Event) eventRow {
	return eventRow{
		ID:          evt.ID,
		OwnerID:     evt.OwnerID,
		Title:       evt.Title,
		Description: evt.Description,
		Location:    evt.Location,
		StartTime:   evt.StartTime,
		EndTime:     evt.EndTime,
		WeekType:    evt.WeekType,
		Days:        evt.Days,
		Color:       evt.Color,
		CreatedAt:   evt.CreatedAt.UTC(),
		UpdatedAt:   evt.UpdatedAt.UTC(),
	}
}

type weekSettingsRow struct {
	OwnerID         string         `db:"owner_id"`
	WeekType        string         `db:"week_type"`
	WeekInterval    int            `db:"week_interval"`
	CustomWeekNames pq.StringArray `db:"custom_week_names"`
	ReferenceDate   null.Time      `db:"reference_date"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (row weekSettingsRow) unpack() schedule.WeekSettings {
	return schedule.WeekSettings{
		OwnerID:         row.OwnerID,
		WeekType:        row.WeekType,
		WeekInterval:    row.WeekInterval,
		CustomWeekNames: row.CustomWeekNames,
		ReferenceDate:   row.ReferenceDate.Time,
		UpdatedAt:       row.UpdatedAt,
	}
}

type scheduleRepository struct {
	db *sqlx.DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *sqlx.DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) CreateEvent(ctx context.Context, evt schedule.Event) (schedule.Event, error) {
	query := `
		INSERT INTO schedule_events (id, owner_id, title, description, location, start_time, end_time, week_type, days, color, created_at, updated_at)
		VALUES (:id, :owner_id, :title, :description, :location, :start_time, :end_time, :week_type, :days, :color, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, packEvent(evt)); err != nil {
		return schedule.Event{}, errors.Wrap(err, "creating schedule event")
	}
	return evt, nil
}

func (repo *scheduleRepository) QueryOwnerEvents(ctx context.Context, ownerID string) ([]schedule.Event, error) {
	var rows []eventRow
	query := `SELECT * FROM schedule_events WHERE owner_id = $1 ORDER BY start_time, created_at`
	if err := repo.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, errors.Wrap(err, "querying schedule events")
	}
	events := make([]schedule.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.unpack())
	}
	return events, nil
}

func (repo *scheduleRepository) GetOwnerEvent(ctx context.Context, ownerID, id string) (schedule.Event, error) {
	var row eventRow
	query := `SELECT * FROM schedule_events WHERE owner_id = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &row, query, ownerID, id); err != nil {
		if err == sql.ErrNoRows {
			return schedule.Event{}, schedule.ErrNotFound
		}
		return schedule.Event{}, errors.Wrap(err, "finding schedule event")
	}
	return row.unpack(), nil
}

func (repo *scheduleRepository) UpdateEvent(ctx context.Context, evt schedule.Event) (schedule.Event, error) {
	query := `
		UPDATE schedule_events SET
			title = :title, description = :description, location = :location,
			start_time = :start_time, end_time = :end_time, week_type = :week_type,
			days = :days, color = :color, updated_at = :updated_at
		WHERE owner_id = :owner_id AND id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, packEvent(evt))
	if err != nil {
		return schedule.Event{}, errors.Wrap(err, "updating schedule event")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return schedule.Event{}, schedule.ErrNotFound
	}
	return evt, nil
}

func (repo *scheduleRepository) DeleteEvent(ctx context.Context, ownerID, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM schedule_events WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return errors.Wrap(err, "deleting schedule event")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return schedule.ErrNotFound
	}
	return nil
}

func (repo *scheduleRepository) GetWeekSettings(ctx context.Context, ownerID string) (schedule.WeekSettings, error) {
	var row weekSettingsRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM week_settings WHERE owner_id = $1`, ownerID); err != nil {
		if err == sql.ErrNoRows {
			return schedule.WeekSettings{}, schedule.ErrWeekSettingsNotFound
		}
		return schedule.WeekSettings{}, errors.Wrap(err, "finding week settings")
	}
	return row.unpack(), nil
}

func (repo *scheduleRepository) SaveWeekSettings(ctx context.Context, ws schedule.WeekSettings) (schedule.WeekSettings, error) {
	row := weekSettingsRow{
		OwnerID:         ws.OwnerID,
		WeekType:        ws.WeekType,
		WeekInterval:    ws.WeekInterval,
		CustomWeekNames: ws.CustomWeekNames,
		ReferenceDate:   null.NewTime(ws.ReferenceDate.UTC(), !ws.ReferenceDate.IsZero()),
		UpdatedAt:       ws.UpdatedAt.UTC(),
	}
	if row.CustomWeekNames == nil {
		row.CustomWeekNames = pq.StringArray{}
	}
	query := `
		INSERT INTO week_settings (owner_id, week_type, week_interval, custom_week_names, reference_date, updated_at)
		VALUES (:owner_id, :week_type, :week_interval, :custom_week_names, :reference_date, :updated_at)
		ON CONFLICT (owner_id) DO UPDATE SET
			week_type = EXCLUDED.week_type, week_interval = EXCLUDED.week_interval,
			custom_week_names = EXCLUDED.custom_week_names,
			reference_date = EXCLUDED.reference_date, updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return schedule.WeekSettings{}, errors.Wrap(err, "saving week settings")
	}
	return ws, nil
}

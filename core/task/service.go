package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/grow/core"
)

var (
	// errors
	ErrNotFound         = errors.New("task not found")
	ErrCalendarNotFound = errors.New("calendar not found")
	ErrCalendarInUse    = errors.New("calendar still has tasks")
)

type (
	Repository interface {
		CreateCalendar(ctx context.Context, cal Calendar) (Calendar, error)
		QueryOwnerCalendars(ctx context.Context, ownerID string) ([]Calendar, error)
		GetOwnerCalendar(ctx context.Context, ownerID, id string) (Calendar, error)
		UpdateCalendar(ctx context.Context, cal Calendar) (Calendar, error)
		// DeleteCalendar fails with ErrCalendarInUse while any task still
		// references the calendar; the check and the delete run in one
		// transaction.
		DeleteCalendar(ctx context.Context, ownerID, id string) error

		CreateTask(ctx context.Context, tsk Task) (Task, error)
		QueryOwnerTasks(ctx context.Context, ownerID string) ([]Task, error)
		GetOwnerTask(ctx context.Context, ownerID, id string) (Task, error)
		UpdateTask(ctx context.Context, tsk Task) (Task, error)
		// SetTaskCompleted writes the completion flag; when the task was
		// created from a homework assignment the assignment's flag is set to
		// the same value in the same transaction.
		SetTaskCompleted(ctx context.Context, ownerID, id string, completed bool) (Task, error)
		DeleteTask(ctx context.Context, ownerID, id string) error
	}

	Service interface {
		CreateCalendar(ctx context.Context, ownerID string, nc NewCalendar) (Calendar, error)
		QueryCalendars(ctx context.Context, ownerID string) ([]Calendar, error)
		GetCalendar(ctx context.Context, ownerID, id string) (Calendar, error)
		UpdateCalendar(ctx context.Context, ownerID, id string, uc UpdateCalendar) (Calendar, error)
		DeleteCalendar(ctx context.Context, ownerID, id string) error
		EnsureStarterCalendars(ctx context.Context, ownerID string) error
		StudyCalendar(ctx context.Context, ownerID string) (Calendar, error)

		Create(ctx context.Context, ownerID string, nt NewTask) (Task, error)
		QueryAll(ctx context.Context, ownerID string) ([]Task, error)
		GetByID(ctx context.Context, ownerID, id string) (Task, error)
		Update(ctx context.Context, ownerID, id string, ut UpdateTask) (Task, error)
		ToggleCompleted(ctx context.Context, ownerID, id string) (Task, error)
		Delete(ctx context.Context, ownerID, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CreateCalendar(ctx context.Context, ownerID string, nc NewCalendar) (Calendar, error) {
	cal := Calendar{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      nc.Name,
		Color:     nc.Color,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateCalendar(ctx, cal)
}

func (svc *service) QueryCalendars(ctx context.Context, ownerID string) ([]Calendar, error) {
	return svc.repo.QueryOwnerCalendars(ctx, ownerID)
}

func (svc *service) GetCalendar(ctx context.Context, ownerID, id string) (Calendar, error) {
	return svc.repo.GetOwnerCalendar(ctx, ownerID, id)
}

func (svc *service) UpdateCalendar(ctx context.Context, ownerID, id string, uc UpdateCalendar) (Calendar, error) {
	cal, err := svc.repo.GetOwnerCalendar(ctx, ownerID, id)
	if err != nil {
		return Calendar{}, err
	}
	cal.Name = uc.Name
	cal.Color = uc.Color
	return svc.repo.UpdateCalendar(ctx, cal)
}

func (svc *service) DeleteCalendar(ctx context.Context, ownerID, id string) error {
	if err := svc.repo.DeleteCalendar(ctx, ownerID, id); err != nil {
		if errors.Cause(err) == ErrCalendarInUse {
			return core.NewValidationError(ErrCalendarInUse)
		}
		return err
	}
	return nil
}

// EnsureStarterCalendars creates the default calendars an account starts
// with; calendars the owner already has (by name) are left alone.
func (svc *service) EnsureStarterCalendars(ctx context.Context, ownerID string) error {
	existing, err := svc.repo.QueryOwnerCalendars(ctx, ownerID)
	if err != nil {
		return errors.Wrap(err, "querying calendars")
	}
	byName := make(map[string]struct{}, len(existing))
	for _, cal := range existing {
		byName[cal.Name] = struct{}{}
	}
	for _, starter := range StarterCalendars {
		if _, ok := byName[starter.Name]; ok {
			continue
		}
		nc := NewCalendar{Name: starter.Name, Color: starter.Color}
		if _, err = svc.CreateCalendar(ctx, ownerID, nc); err != nil {
			return errors.Wrapf(err, "creating %q calendar", starter.Name)
		}
	}
	return nil
}

// StudyCalendar returns the owner's Study calendar, creating it if it was
// deleted.
func (svc *service) StudyCalendar(ctx context.Context, ownerID string) (Calendar, error) {
	cals, err := svc.repo.QueryOwnerCalendars(ctx, ownerID)
	if err != nil {
		return Calendar{}, errors.Wrap(err, "querying calendars")
	}
	for _, cal := range cals {
		if cal.Name == StudyCalendarName {
			return cal, nil
		}
	}
	for _, starter := range StarterCalendars {
		if starter.Name == StudyCalendarName {
			return svc.CreateCalendar(ctx, ownerID, NewCalendar{Name: starter.Name, Color: starter.Color})
		}
	}
	return Calendar{}, ErrCalendarNotFound
}

func (svc *service) Create(ctx context.Context, ownerID string, nt NewTask) (Task, error) {
	if _, err := svc.repo.GetOwnerCalendar(ctx, ownerID, nt.CalendarID); err != nil {
		if errors.Cause(err) == ErrCalendarNotFound {
			return Task{}, core.NewValidationError(err, core.FieldError{Field: "calendar_id", Error: ErrCalendarNotFound.Error()})
		}
		return Task{}, err
	}
	date, err := time.ParseInLocation("2006-01-02", nt.Date, time.UTC)
	if err != nil {
		return Task{}, errors.Wrap(err, "parsing date")
	}
	tsk := Task{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		CalendarID:  nt.CalendarID,
		Title:       nt.Title,
		Description: nt.Description,
		Date:        date,
		Time:        nt.Time,
		IsAllDay:    nt.IsAllDay,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateTask(ctx, tsk)
}

func (svc *service) QueryAll(ctx context.Context, ownerID string) ([]Task, error) {
	return svc.repo.QueryOwnerTasks(ctx, ownerID)
}

func (svc *service) GetByID(ctx context.Context, ownerID, id string) (Task, error) {
	return svc.repo.GetOwnerTask(ctx, ownerID, id)
}

func (svc *service) Update(ctx context.Context, ownerID, id string, ut UpdateTask) (Task, error) {
	tsk, err := svc.repo.GetOwnerTask(ctx, ownerID, id)
	if err != nil {
		return Task{}, err
	}
	if ut.CalendarID != tsk.CalendarID {
		if _, err = svc.repo.GetOwnerCalendar(ctx, ownerID, ut.CalendarID); err != nil {
			if errors.Cause(err) == ErrCalendarNotFound {
				return Task{}, core.NewValidationError(err, core.FieldError{Field: "calendar_id", Error: ErrCalendarNotFound.Error()})
			}
			return Task{}, err
		}
	}
	date, err := time.ParseInLocation("2006-01-02", ut.Date, time.UTC)
	if err != nil {
		return Task{}, errors.Wrap(err, "parsing date")
	}
	tsk.CalendarID = ut.CalendarID
	tsk.Title = ut.Title
	tsk.Description = *ut.Description
	tsk.Date = date
	tsk.Time = *ut.Time
	tsk.IsAllDay = *ut.IsAllDay
	return svc.repo.UpdateTask(ctx, tsk)
}

func (svc *service) ToggleCompleted(ctx context.Context, ownerID, id string) (Task, error) {
	tsk, err := svc.repo.GetOwnerTask(ctx, ownerID, id)
	if err != nil {
		return Task{}, err
	}
	return svc.repo.SetTaskCompleted(ctx, ownerID, id, !tsk.Completed)
}

func (svc *service) Delete(ctx context.Context, ownerID, id string) error {
	return svc.repo.DeleteTask(ctx, ownerID, id)
}

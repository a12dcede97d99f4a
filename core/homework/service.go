package homework

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/grow/core"
	"github.com/trezcool/grow/core/schedule"
	"github.com/trezcool/grow/core/task"
)

var (
	// errors
	ErrNotFound      = errors.New("homework not found")
	ErrAlreadyLinked = errors.New("homework already has a linked task")
)

type (
	Repository interface {
		CreateHomework(ctx context.Context, hw Homework) (Homework, error)
		QueryOwnerHomework(ctx context.Context, ownerID string) ([]Homework, error)
		GetOwnerHomework(ctx context.Context, ownerID, id string) (Homework, error)
		UpdateHomework(ctx context.Context, hw Homework) (Homework, error)
		// LinkTask inserts the task and sets the assignment's LinkedTaskID in
		// one transaction.
		LinkTask(ctx context.Context, hw Homework, tsk task.Task) (Homework, task.Task, error)
		// SetHomeworkCompleted writes the completion flag; a linked task's
		// flag is set to the same value in the same transaction.
		SetHomeworkCompleted(ctx context.Context, ownerID, id string, completed bool) (Homework, error)
		// DeleteHomework removes the assignment and its linked task (if any)
		// in one transaction.
		DeleteHomework(ctx context.Context, ownerID, id string) error
	}

	Service interface {
		Create(ctx context.Context, ownerID string, nh NewHomework) (Homework, TaskSuggestion, error)
		QueryAll(ctx context.Context, ownerID string) ([]Homework, error)
		GetByID(ctx context.Context, ownerID, id string) (Homework, error)
		Update(ctx context.Context, ownerID, id string, uh UpdateHomework) (Homework, error)
		CreateLinkedTask(ctx context.Context, ownerID, id string, nl NewLinkedTask) (Homework, task.Task, error)
		ToggleCompleted(ctx context.Context, ownerID, id string) (Homework, error)
		Delete(ctx context.Context, ownerID, id string) error
	}

	service struct {
		repo        Repository
		scheduleSvc schedule.Service
		taskSvc     task.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, scheduleSvc schedule.Service, taskSvc task.Service) Service {
	return &service{repo: repo, scheduleSvc: scheduleSvc, taskSvc: taskSvc}
}

func (svc *service) Create(ctx context.Context, ownerID string, nh NewHomework) (Homework, TaskSuggestion, error) {
	if _, err := svc.scheduleSvc.GetByID(ctx, ownerID, nh.ScheduleEventID); err != nil {
		if errors.Cause(err) == schedule.ErrNotFound {
			return Homework{}, TaskSuggestion{}, core.NewValidationError(
				err, core.FieldError{Field: "schedule_event_id", Error: schedule.ErrNotFound.Error()})
		}
		return Homework{}, TaskSuggestion{}, err
	}
	dueDate, err := time.ParseInLocation("2006-01-02", nh.DueDate, time.UTC)
	if err != nil {
		return Homework{}, TaskSuggestion{}, errors.Wrap(err, "parsing due date")
	}
	hw := Homework{
		ID:              uuid.New().String(),
		OwnerID:         ownerID,
		ScheduleEventID: nh.ScheduleEventID,
		Title:           nh.Title,
		Description:     nh.Description,
		Notes:           nh.Notes,
		DueDate:         dueDate,
		DueTime:         nh.DueTime,
		IsAllDay:        nh.IsAllDay,
		CreatedAt:       time.Now().UTC(),
	}
	hw, err = svc.repo.CreateHomework(ctx, hw)
	if err != nil {
		return Homework{}, TaskSuggestion{}, err
	}
	suggestion := TaskSuggestion{
		Title:       hw.Title,
		Description: hw.Description,
		Date:        hw.DueDate.Format("2006-01-02"),
		Time:        hw.DueTime,
		IsAllDay:    hw.IsAllDay,
	}
	return hw, suggestion, nil
}

func (svc *service) QueryAll(ctx context.Context, ownerID string) ([]Homework, error) {
	return svc.repo.QueryOwnerHomework(ctx, ownerID)
}

func (svc *service) GetByID(ctx context.Context, ownerID, id string) (Homework, error) {
	return svc.repo.GetOwnerHomework(ctx, ownerID, id)
}

func (svc *service) Update(ctx context.Context, ownerID, id string, uh UpdateHomework) (Homework, error) {
	hw, err := svc.repo.GetOwnerHomework(ctx, ownerID, id)
	if err != nil {
		return Homework{}, err
	}
	if uh.ScheduleEventID != hw.ScheduleEventID {
		if _, err = svc.scheduleSvc.GetByID(ctx, ownerID, uh.ScheduleEventID); err != nil {
			if errors.Cause(err) == schedule.ErrNotFound {
				return Homework{}, core.NewValidationError(
					err, core.FieldError{Field: "schedule_event_id", Error: schedule.ErrNotFound.Error()})
			}
			return Homework{}, err
		}
	}
	dueDate, err := time.ParseInLocation("2006-01-02", uh.DueDate, time.UTC)
	if err != nil {
		return Homework{}, errors.Wrap(err, "parsing due date")
	}
	hw.ScheduleEventID = uh.ScheduleEventID
	hw.Title = uh.Title
	hw.Description = *uh.Description
	hw.Notes = *uh.Notes
	hw.DueDate = dueDate
	hw.DueTime = *uh.DueTime
	hw.IsAllDay = *uh.IsAllDay
	return svc.repo.UpdateHomework(ctx, hw)
}

func (svc *service) CreateLinkedTask(ctx context.Context, ownerID, id string, nl NewLinkedTask) (Homework, task.Task, error) {
	hw, err := svc.repo.GetOwnerHomework(ctx, ownerID, id)
	if err != nil {
		return Homework{}, task.Task{}, err
	}
	if hw.Linked() {
		return Homework{}, task.Task{}, core.NewValidationError(ErrAlreadyLinked)
	}
	studyCal, err := svc.taskSvc.StudyCalendar(ctx, ownerID)
	if err != nil {
		return Homework{}, task.Task{}, errors.Wrap(err, "resolving study calendar")
	}
	date, err := time.ParseInLocation("2006-01-02", nl.Date, time.UTC)
	if err != nil {
		return Homework{}, task.Task{}, errors.Wrap(err, "parsing date")
	}
	tsk := task.Task{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		CalendarID:  studyCal.ID,
		Title:       nl.Title,
		Description: nl.Description,
		Date:        date,
		Time:        nl.Time,
		IsAllDay:    nl.IsAllDay,
		Completed:   hw.Completed,
		HomeworkID:  hw.ID,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.LinkTask(ctx, hw, tsk)
}

func (svc *service) ToggleCompleted(ctx context.Context, ownerID, id string) (Homework, error) {
	hw, err := svc.repo.GetOwnerHomework(ctx, ownerID, id)
	if err != nil {
		return Homework{}, err
	}
	return svc.repo.SetHomeworkCompleted(ctx, ownerID, id, !hw.Completed)
}

func (svc *service) Delete(ctx context.Context, ownerID, id string) error {
	return svc.repo.DeleteHomework(ctx, ownerID, id)
}

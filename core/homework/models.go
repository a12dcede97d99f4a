package homework

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/grow/core"
)

// Homework is an assignment pinned to one of the owner's recurring schedule
// events. It may be linked to at most one task; the linked task carries this
// assignment's ID in its HomeworkID.
type Homework struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"-"`
	ScheduleEventID string    `json:"schedule_event_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Notes           string    `json:"notes"`
	DueDate         time.Time `json:"due_date"`           // calendar day, midnight UTC
	DueTime         string    `json:"due_time,omitempty"` // wall-clock "HH:MM", empty when all-day
	IsAllDay        bool      `json:"is_all_day"`
	Completed       bool      `json:"completed"`
	LinkedTaskID    string    `json:"linked_task_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"` // UTC
}

// Linked reports whether a task has been created from this assignment.
func (hw Homework) Linked() bool { return hw.LinkedTaskID != "" }

// TaskSuggestion is a task prefill seeded from a freshly created assignment.
// It is a prompt for the caller, not a persisted record; the caller decides
// whether to materialize it via Service.CreateLinkedTask.
type TaskSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	IsAllDay    bool   `json:"is_all_day"`
}

// NewHomework contains information needed to create a new Homework.
type NewHomework struct {
	ScheduleEventID string `json:"schedule_event_id" validate:"required,uuid4"`
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	Notes           string `json:"notes"`
	DueDate         string `json:"due_date" validate:"required,datetime=2006-01-02"`
	DueTime         string `json:"due_time" validate:"omitempty,wallclock"`
	IsAllDay        bool   `json:"is_all_day"`
}

func (nh *NewHomework) Validate(validate *validator.Validate) error {
	nh.Title = core.CleanString(nh.Title)
	nh.Description = core.CleanString(nh.Description)
	nh.Notes = core.CleanString(nh.Notes)
	if nh.IsAllDay {
		nh.DueTime = ""
	}
	if nh.DueTime == "" {
		nh.IsAllDay = true
	}
	return validate.Struct(nh)
}

// NewLinkedTask contains information needed to materialize a TaskSuggestion
// into the owner's Study calendar.
type NewLinkedTask struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"omitempty,wallclock"`
	IsAllDay    bool   `json:"is_all_day"`
}

func (nl *NewLinkedTask) Validate(validate *validator.Validate) error {
	nl.Title = core.CleanString(nl.Title)
	nl.Description = core.CleanString(nl.Description)
	if nl.IsAllDay {
		nl.Time = ""
	}
	if nl.Time == "" {
		nl.IsAllDay = true
	}
	return validate.Struct(nl)
}

// UpdateHomework defines what information may be provided to modify an
// existing Homework; zero-valued fields keep the original values. The link
// and the linked task are never touched by an update.
type UpdateHomework struct {
	ScheduleEventID string  `json:"schedule_event_id" validate:"omitempty,uuid4"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	Notes           *string `json:"notes"`
	DueDate         string  `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	DueTime         *string `json:"due_time" validate:"omitempty,wallclock"`
	IsAllDay        *bool   `json:"is_all_day"`
}

func (uh *UpdateHomework) Validate(orig Homework, validate *validator.Validate) error {
	if uh.ScheduleEventID == "" {
		uh.ScheduleEventID = orig.ScheduleEventID
	}
	if title := core.CleanString(uh.Title); title != "" {
		uh.Title = title
	} else {
		uh.Title = orig.Title
	}
	if uh.Description == nil {
		uh.Description = &orig.Description
	}
	if uh.Notes == nil {
		uh.Notes = &orig.Notes
	}
	if uh.DueDate == "" {
		uh.DueDate = orig.DueDate.Format("2006-01-02")
	}
	if uh.DueTime == nil {
		uh.DueTime = &orig.DueTime
	}
	if uh.IsAllDay == nil {
		uh.IsAllDay = &orig.IsAllDay
	}
	if *uh.IsAllDay {
		empty := ""
		uh.DueTime = &empty
	} else if *uh.DueTime == "" {
		allDay := true
		uh.IsAllDay = &allDay
	}
	return validate.Struct(uh)
}

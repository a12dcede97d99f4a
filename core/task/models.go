package task

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/grow/core"
)

// Starter calendars created for every new account.
var StarterCalendars = []struct{ Name, Color string }{
	{Name: "Personal", Color: "#4f86f7"},
	{Name: "Work", Color: "#f7a14f"},
	{Name: "Study", Color: "#6fbf73"},
}

// StudyCalendarName is the calendar linked homework tasks land in.
const StudyCalendarName = "Study"

// Calendar groups tasks; every task belongs to exactly one calendar.
type Calendar struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewCalendar contains information needed to create a new Calendar.
type NewCalendar struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

func (nc *NewCalendar) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

// UpdateCalendar defines what information may be provided to modify an
// existing Calendar; zero-valued fields keep the original values.
type UpdateCalendar struct {
	Name  string `json:"name"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

func (uc *UpdateCalendar) Validate(orig Calendar, validate *validator.Validate) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if uc.Color == "" {
		uc.Color = orig.Color
	}
	return validate.Struct(uc)
}

// Task is a one-off to-do pinned to a calendar day. A task created from a
// homework assignment carries that assignment's ID in HomeworkID.
type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"-"`
	CalendarID  string    `json:"calendar_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`           // calendar day, midnight UTC
	Time        string    `json:"time,omitempty"` // wall-clock "HH:MM", empty when all-day
	IsAllDay    bool      `json:"is_all_day"`
	Completed   bool      `json:"completed"`
	HomeworkID  string    `json:"homework_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// NewTask contains information needed to create a new Task.
type NewTask struct {
	CalendarID  string `json:"calendar_id" validate:"required,uuid4"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"omitempty,wallclock"`
	IsAllDay    bool   `json:"is_all_day"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
	if nt.IsAllDay {
		nt.Time = ""
	}
	if nt.Time == "" {
		nt.IsAllDay = true
	}
	return validate.Struct(nt)
}

// UpdateTask defines what information may be provided to modify an existing
// Task; zero-valued fields keep the original values. Completion is toggled
// through the service, not patched here.
type UpdateTask struct {
	CalendarID  string  `json:"calendar_id" validate:"omitempty,uuid4"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time        *string `json:"time" validate:"omitempty,wallclock"`
	IsAllDay    *bool   `json:"is_all_day"`
}

func (ut *UpdateTask) Validate(orig Task, validate *validator.Validate) error {
	if ut.CalendarID == "" {
		ut.CalendarID = orig.CalendarID
	}
	if title := core.CleanString(ut.Title); title != "" {
		ut.Title = title
	} else {
		ut.Title = orig.Title
	}
	if ut.Description == nil {
		ut.Description = &orig.Description
	}
	if ut.Date == "" {
		ut.Date = orig.Date.Format("2006-01-02")
	}
	if ut.Time == nil {
		ut.Time = &orig.Time
	}
	if ut.IsAllDay == nil {
		ut.IsAllDay = &orig.IsAllDay
	}
	if *ut.IsAllDay {
		empty := ""
		ut.Time = &empty
	} else if *ut.Time == "" {
		allDay := true
		ut.IsAllDay = &allDay
	}
	return validate.Struct(ut)
}

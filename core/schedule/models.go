package schedule

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/grow/core"
)

// Week types an event may be pinned to.
const (
	WeekTypeBoth   = "both"
	WeekTypeUpper  = "upper"
	WeekTypeLower  = "lower"
	WeekTypeCustom = "custom"
)

// WeekdayNames holds the lowercase weekday names as stored on events,
// Monday first (the app week starts on Monday).
var WeekdayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WeekdayName returns the lowercase weekday name of t.
func WeekdayName(t time.Time) string {
	// time.Weekday is Sunday-based
	return WeekdayNames[(int(t.Weekday())+6)%7]
}

// Event is a recurring class/commitment template. It is independent of any
// concrete date; occurrences are resolved against dates by the agenda package.
type Event struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   string    `json:"start_time"` // wall-clock "HH:MM"
	EndTime     string    `json:"end_time"`   // wall-clock "HH:MM"
	WeekType    string    `json:"week_type"`
	Days        []string  `json:"days"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// OccursOn reports whether the event applies to the given date under the
// given week parity. An empty parity means no week alternation is configured;
// upper/lower-only events then always match their weekdays. Events with a
// custom week type are never resolved onto concrete dates.
func (e Event) OccursOn(day time.Time, parity Parity) bool {
	if !e.onWeekday(day) {
		return false
	}
	switch e.WeekType {
	case WeekTypeBoth:
		return true
	case WeekTypeUpper, WeekTypeLower:
		if parity == ParityNone {
			return true
		}
		return e.WeekType == string(parity)
	}
	return false
}

func (e Event) onWeekday(day time.Time) bool {
	name := WeekdayName(day)
	for _, d := range e.Days {
		if d == name {
			return true
		}
	}
	return false
}

// NewEvent contains information needed to create a new Event.
type NewEvent struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	StartTime   string   `json:"start_time" validate:"required,wallclock"`
	EndTime     string   `json:"end_time" validate:"required,wallclock"`
	WeekType    string   `json:"week_type" validate:"required,oneof=both upper lower custom"`
	Days        []string `json:"days" validate:"required,min=1,unique,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Color       string   `json:"color" validate:"omitempty,hexcolor"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	ne.Location = core.CleanString(ne.Location)
	if err := validate.Struct(ne); err != nil {
		return err
	}
	return checkTimeRange(ne.StartTime, ne.EndTime)
}

// checkTimeRange relies on "HH:MM" strings ordering like the times they name.
func checkTimeRange(start, end string) error {
	if start != "" && end != "" && end <= start {
		return core.NewValidationError(
			errors.New("invalid time range"),
			core.FieldError{Field: "end_time", Error: "end_time must be after start_time"},
		)
	}
	return nil
}

// UpdateEvent defines what information may be provided to modify an existing
// Event; zero-valued fields keep the original values.
type UpdateEvent struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	StartTime   string   `json:"start_time" validate:"omitempty,wallclock"`
	EndTime     string   `json:"end_time" validate:"omitempty,wallclock"`
	WeekType    string   `json:"week_type" validate:"omitempty,oneof=both upper lower custom"`
	Days        []string `json:"days" validate:"omitempty,min=1,unique,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Color       string   `json:"color" validate:"omitempty,hexcolor"`
}

func (ue *UpdateEvent) Validate(orig Event, validate *validator.Validate) error {
	if title := core.CleanString(ue.Title); title != "" {
		ue.Title = title
	} else {
		ue.Title = orig.Title
	}
	if ue.Description == nil {
		ue.Description = &orig.Description
	}
	if ue.Location == nil {
		ue.Location = &orig.Location
	}
	if ue.StartTime == "" {
		ue.StartTime = orig.StartTime
	}
	if ue.EndTime == "" {
		ue.EndTime = orig.EndTime
	}
	if ue.WeekType == "" {
		ue.WeekType = orig.WeekType
	}
	if ue.Days == nil {
		ue.Days = orig.Days
	}
	if ue.Color == "" {
		ue.Color = orig.Color
	}
	if err := validate.Struct(ue); err != nil {
		return err
	}
	return checkTimeRange(ue.StartTime, ue.EndTime)
}

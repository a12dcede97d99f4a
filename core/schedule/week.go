package schedule

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/grow/core"
)

// Parity names which half of an alternating-week cycle a date falls on.
// ParityNone means no alternation is configured.
type Parity string

const (
	ParityNone  Parity = ""
	ParityUpper Parity = "upper"
	ParityLower Parity = "lower"
)

// Week alternation modes.
const (
	WeekModeNone        = "none"
	WeekModeAlternating = "alternating"
	WeekModeCustom      = "custom"
)

// WeekSettings configures week alternation for one user. Parity is always
// derived from ReferenceDate and WeekInterval; it is never stored or toggled.
type WeekSettings struct {
	OwnerID         string    `json:"-"`
	WeekType        string    `json:"week_type"`
	WeekInterval    int       `json:"week_interval"` // weeks per flip
	CustomWeekNames []string  `json:"custom_week_names"`
	ReferenceDate   time.Time `json:"reference_date"` // anchors an upper week
	UpdatedAt       time.Time `json:"updated_at"`     // UTC
}

// DefaultWeekSettings is what a user gets before saving any settings.
func DefaultWeekSettings(ownerID string) WeekSettings {
	return WeekSettings{
		OwnerID:      ownerID,
		WeekType:     WeekModeNone,
		WeekInterval: 1,
	}
}

// ParityOn derives the week parity of the given date. Whole WeekInterval-week
// blocks are counted between the Monday of the reference week and the Monday
// of day's week; even blocks are upper. Dates before the reference date count
// backwards with the same rule.
func (ws WeekSettings) ParityOn(day time.Time) Parity {
	if ws.WeekType == WeekModeNone || ws.WeekType == "" {
		return ParityNone
	}
	if floorMod(ws.blockIndexOn(day), 2) == 0 {
		return ParityUpper
	}
	return ParityLower
}

// WeekNameOn returns the display name of day's week: the matching custom week
// name when configured, the parity name otherwise, "" when no alternation is
// configured.
func (ws WeekSettings) WeekNameOn(day time.Time) string {
	if ws.WeekType == WeekModeCustom && len(ws.CustomWeekNames) > 0 {
		return ws.CustomWeekNames[floorMod(ws.blockIndexOn(day), len(ws.CustomWeekNames))]
	}
	return string(ws.ParityOn(day))
}

func (ws WeekSettings) blockIndexOn(day time.Time) int {
	interval := ws.WeekInterval
	if interval < 1 {
		interval = 1
	}
	// Unix seconds rather than Sub: a Duration caps at ~292 years and the
	// gap to an unset (zero) anchor is far wider than that.
	days := int((mondayOf(day).Unix() - mondayOf(ws.ReferenceDate).Unix()) / (24 * 60 * 60))
	return floorDiv(floorDiv(days, 7), interval)
}

// mondayOf returns midnight UTC of the Monday of t's week.
func mondayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return midnight.AddDate(0, 0, -((int(t.Weekday()) + 6) % 7))
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return ((a % b) + b) % b
}

// UpdateWeekSettings defines what information may be provided to change a
// user's week settings.
type UpdateWeekSettings struct {
	WeekType        string   `json:"week_type" validate:"required,oneof=none alternating custom"`
	WeekInterval    int      `json:"week_interval" validate:"required,min=1,max=52"`
	CustomWeekNames []string `json:"custom_week_names" validate:"omitempty,max=10,dive,required"`
	ReferenceDate   string   `json:"reference_date" validate:"required_unless=WeekType none,omitempty,datetime=2006-01-02"`
}

func (uw *UpdateWeekSettings) Validate(validate *validator.Validate) error {
	for i, name := range uw.CustomWeekNames {
		uw.CustomWeekNames[i] = core.CleanString(name)
	}
	return validate.Struct(uw)
}

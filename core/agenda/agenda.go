// Package agenda resolves which schedule events, tasks and homework
// assignments are active on a concrete calendar date. It is pure: it reads
// already-fetched slices and never touches storage.
package agenda

import (
	"time"

	"github.com/trezcool/grow/core/homework"
	"github.com/trezcool/grow/core/schedule"
	"github.com/trezcool/grow/core/task"
)

// Day holds everything active on one calendar date, each list in the order
// of its input slice.
type Day struct {
	Events   []schedule.Event    `json:"events"`
	Tasks    []task.Task         `json:"tasks"`
	Homework []homework.Homework `json:"homework"`
}

// OnDate classifies the given slices against a calendar date and week parity.
// A nil visibleCalendarIDs means all calendars are visible; a non-nil set
// restricts tasks to its members. Time-of-day on day, task dates and due
// dates is ignored.
func OnDate(
	day time.Time,
	parity schedule.Parity,
	events []schedule.Event,
	tasks []task.Task,
	hws []homework.Homework,
	visibleCalendarIDs []string,
) Day {
	d := Day{
		Events:   []schedule.Event{},
		Tasks:    []task.Task{},
		Homework: []homework.Homework{},
	}

	for _, evt := range events {
		if evt.OccursOn(day, parity) {
			d.Events = append(d.Events, evt)
		}
	}

	var visible map[string]struct{}
	if visibleCalendarIDs != nil {
		visible = make(map[string]struct{}, len(visibleCalendarIDs))
		for _, id := range visibleCalendarIDs {
			visible[id] = struct{}{}
		}
	}
	for _, tsk := range tasks {
		if !sameDay(tsk.Date, day) {
			continue
		}
		if visible != nil {
			if _, ok := visible[tsk.CalendarID]; !ok {
				continue
			}
		}
		d.Tasks = append(d.Tasks, tsk)
	}

	for _, hw := range hws {
		if sameDay(hw.DueDate, day) {
			d.Homework = append(d.Homework, hw)
		}
	}
	return d
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

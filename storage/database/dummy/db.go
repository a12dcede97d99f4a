// Package dummydb provides in-memory repositories for tests and local dev.
// All tables share one lock so compound operations stay atomic.
package dummydb

import (
	"sync"

	"github.com/trezcool/grow/core/homework"
	"github.com/trezcool/grow/core/schedule"
	"github.com/trezcool/grow/core/task"
	"github.com/trezcool/grow/core/user"
)

type DB struct {
	sync.RWMutex
	users        map[string]*user.User
	events       map[string]*schedule.Event
	weekSettings map[string]*schedule.WeekSettings // keyed by owner ID
	calendars    map[string]*task.Calendar
	tasks        map[string]*task.Task
	homework     map[string]*homework.Homework
}

func Open() (*DB, error) {
	db := &DB{
		users:        make(map[string]*user.User),
		events:       make(map[string]*schedule.Event),
		weekSettings: make(map[string]*schedule.WeekSettings),
		calendars:    make(map[string]*task.Calendar),
		tasks:        make(map[string]*task.Task),
		homework:     make(map[string]*homework.Homework),
	}
	return db, nil
}

package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/grow/core/task"
)

type taskRepository struct {
	db *DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *DB) task.Repository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) CreateCalendar(_ context.Context, cal task.Calendar) (task.Calendar, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.calendars[cal.ID] = &cal
	return cal, nil
}

func (repo *taskRepository) QueryOwnerCalendars(_ context.Context, ownerID string) ([]task.Calendar, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	cals := make([]task.Calendar, 0)
	for _, cal := range repo.db.calendars {
		if cal.OwnerID == ownerID {
			cals = append(cals, *cal)
		}
	}
	sort.Slice(cals, func(i, j int) bool { return cals[i].CreatedAt.Before(cals[j].CreatedAt) })
	return cals, nil
}

func (repo *taskRepository) GetOwnerCalendar(_ context.Context, ownerID, id string) (task.Calendar, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cal, ok := repo.db.calendars[id]; ok && cal.OwnerID == ownerID {
		return *cal, nil
	}
	return task.Calendar{}, task.ErrCalendarNotFound
}

func (repo *taskRepository) UpdateCalendar(_ context.Context, cal task.Calendar) (task.Calendar, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.calendars[cal.ID]
	if !ok || orig.OwnerID != cal.OwnerID {
		return task.Calendar{}, task.ErrCalendarNotFound
	}
	repo.db.calendars[cal.ID] = &cal
	return cal, nil
}

func (repo *taskRepository) DeleteCalendar(_ context.Context, ownerID, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	cal, ok := repo.db.calendars[id]
	if !ok || cal.OwnerID != ownerID {
		return task.ErrCalendarNotFound
	}
	for _, tsk := range repo.db.tasks {
		if tsk.CalendarID == id {
			return task.ErrCalendarInUse
		}
	}
	delete(repo.db.calendars, id)
	return nil
}

func (repo *taskRepository) CreateTask(_ context.Context, tsk task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.tasks[tsk.ID] = &tsk
	return tsk, nil
}

func (repo *taskRepository) QueryOwnerTasks(_ context.Context, ownerID string) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tasks := make([]task.Task, 0)
	for _, tsk := range repo.db.tasks {
		if tsk.OwnerID == ownerID {
			tasks = append(tasks, *tsk)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	return tasks, nil
}

func (repo *taskRepository) GetOwnerTask(_ context.Context, ownerID, id string) (task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tsk, ok := repo.db.tasks[id]; ok && tsk.OwnerID == ownerID {
		return *tsk, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) UpdateTask(_ context.Context, tsk task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.tasks[tsk.ID]
	if !ok || orig.OwnerID != tsk.OwnerID {
		return task.Task{}, task.ErrNotFound
	}
	repo.db.tasks[tsk.ID] = &tsk
	return tsk, nil
}

func (repo *taskRepository) SetTaskCompleted(_ context.Context, ownerID, id string, completed bool) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tsk, ok := repo.db.tasks[id]
	if !ok || tsk.OwnerID != ownerID {
		return task.Task{}, task.ErrNotFound
	}
	tsk.Completed = completed
	if tsk.HomeworkID != "" {
		if hw, ok := repo.db.homework[tsk.HomeworkID]; ok {
			hw.Completed = completed
		}
	}
	return *tsk, nil
}

func (repo *taskRepository) DeleteTask(_ context.Context, ownerID, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	tsk, ok := repo.db.tasks[id]
	if !ok || tsk.OwnerID != ownerID {
		return task.ErrNotFound
	}
	// drop a stale link on the owning assignment
	if tsk.HomeworkID != "" {
		if hw, ok := repo.db.homework[tsk.HomeworkID]; ok && hw.LinkedTaskID == id {
			hw.LinkedTaskID = ""
		}
	}
	delete(repo.db.tasks, id)
	return nil
}

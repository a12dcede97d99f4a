package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/grow/core/schedule"
)

type scheduleRepository struct {
	db *DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) CreateEvent(_ context.Context, evt schedule.Event) (schedule.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.events[evt.ID] = &evt
	return evt, nil
}

func (repo *scheduleRepository) QueryOwnerEvents(_ context.Context, ownerID string) ([]schedule.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]schedule.Event, 0)
	for _, evt := range repo.db.events {
		if evt.OwnerID == ownerID {
			events = append(events, *evt)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartTime < events[j].StartTime })
	return events, nil
}

func (repo *scheduleRepository) GetOwnerEvent(_ context.Context, ownerID, id string) (schedule.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if evt, ok := repo.db.events[id]; ok && evt.OwnerID == ownerID {
		return *evt, nil
	}
	return schedule.Event{}, schedule.ErrNotFound
}

func (repo *scheduleRepository) UpdateEvent(_ context.Context, evt schedule.Event) (schedule.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.events[evt.ID]
	if !ok || orig.OwnerID != evt.OwnerID {
		return schedule.Event{}, schedule.ErrNotFound
	}
	repo.db.events[evt.ID] = &evt
	return evt, nil
}

func (repo *scheduleRepository) DeleteEvent(_ context.Context, ownerID, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if evt, ok := repo.db.events[id]; ok && evt.OwnerID == ownerID {
		delete(repo.db.events, id)
		return nil
	}
	return schedule.ErrNotFound
}

func (repo *scheduleRepository) GetWeekSettings(_ context.Context, ownerID string) (schedule.WeekSettings, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ws, ok := repo.db.weekSettings[ownerID]; ok {
		return *ws, nil
	}
	return schedule.WeekSettings{}, schedule.ErrWeekSettingsNotFound
}

func (repo *scheduleRepository) SaveWeekSettings(_ context.Context, ws schedule.WeekSettings) (schedule.WeekSettings, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.weekSettings[ws.OwnerID] = &ws
	return ws, nil
}

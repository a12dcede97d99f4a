package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/grow/core/homework"
	"github.com/trezcool/grow/core/task"
)

type homeworkRepository struct {
	db *DB
}

var _ homework.Repository = (*homeworkRepository)(nil) // interface compliance check

func NewHomeworkRepository(db *DB) homework.Repository {
	return &homeworkRepository{db: db}
}

func (repo *homeworkRepository) CreateHomework(_ context.Context, hw homework.Homework) (homework.Homework, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.homework[hw.ID] = &hw
	return hw, nil
}

func (repo *homeworkRepository) QueryOwnerHomework(_ context.Context, ownerID string) ([]homework.Homework, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	hws := make([]homework.Homework, 0)
	for _, hw := range repo.db.homework {
		if hw.OwnerID == ownerID {
			hws = append(hws, *hw)
		}
	}
	sort.SliceStable(hws, func(i, j int) bool {
		if hws[i].DueDate.Equal(hws[j].DueDate) {
			return hws[i].CreatedAt.Before(hws[j].CreatedAt)
		}
		return hws[i].DueDate.Before(hws[j].DueDate)
	})
	return hws, nil
}

func (repo *homeworkRepository) GetOwnerHomework(_ context.Context, ownerID, id string) (homework.Homework, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if hw, ok := repo.db.homework[id]; ok && hw.OwnerID == ownerID {
		return *hw, nil
	}
	return homework.Homework{}, homework.ErrNotFound
}

func (repo *homeworkRepository) UpdateHomework(_ context.Context, hw homework.Homework) (homework.Homework, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.homework[hw.ID]
	if !ok || orig.OwnerID != hw.OwnerID {
		return homework.Homework{}, homework.ErrNotFound
	}
	// the link is owned by LinkTask/DeleteHomework, never by updates
	hw.LinkedTaskID = orig.LinkedTaskID
	repo.db.homework[hw.ID] = &hw
	return hw, nil
}

func (repo *homeworkRepository) LinkTask(_ context.Context, hw homework.Homework, tsk task.Task) (homework.Homework, task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.homework[hw.ID]
	if !ok || orig.OwnerID != hw.OwnerID {
		return homework.Homework{}, task.Task{}, homework.ErrNotFound
	}
	if orig.LinkedTaskID != "" {
		return homework.Homework{}, task.Task{}, homework.ErrAlreadyLinked
	}
	repo.db.tasks[tsk.ID] = &tsk
	orig.LinkedTaskID = tsk.ID
	return *orig, tsk, nil
}

func (repo *homeworkRepository) SetHomeworkCompleted(_ context.Context, ownerID, id string, completed bool) (homework.Homework, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	hw, ok := repo.db.homework[id]
	if !ok || hw.OwnerID != ownerID {
		return homework.Homework{}, homework.ErrNotFound
	}
	hw.Completed = completed
	if hw.LinkedTaskID != "" {
		if tsk, ok := repo.db.tasks[hw.LinkedTaskID]; ok {
			tsk.Completed = completed
		}
	}
	return *hw, nil
}

func (repo *homeworkRepository) DeleteHomework(_ context.Context, ownerID, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	hw, ok := repo.db.homework[id]
	if !ok || hw.OwnerID != ownerID {
		return homework.ErrNotFound
	}
	if hw.LinkedTaskID != "" {
		delete(repo.db.tasks, hw.LinkedTaskID)
	}
	delete(repo.db.homework, id)
	return nil
}

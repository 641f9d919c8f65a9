package inmemdb

import (
	"context"

	"github.com/trezcool/classhub/core/gateway"
	"github.com/trezcool/classhub/core/timetable"
)

type timetableRepository struct {
	db *timetableTable
}

var _ gateway.TimetableRepository = (*timetableRepository)(nil) // interface compliance check

func NewTimetableRepository(db *DB) *timetableRepository {
	return &timetableRepository{db: db.timetable}
}

func (repo *timetableRepository) QueryEntries(ctx context.Context) ([]timetable.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return timetable.Clone(repo.db.rows), nil
}

func (repo *timetableRepository) DeleteAllEntries(ctx context.Context) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.rows = nil
	return nil
}

func (repo *timetableRepository) CreateEntries(ctx context.Context, entries []timetable.Entry) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.rows = append(repo.db.rows, entries...)
	return nil
}

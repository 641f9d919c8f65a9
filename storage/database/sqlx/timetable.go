package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/gateway"
	"github.com/trezcool/classhub/core/timetable"
)

type entryRow struct {
	ID        string      `db:"id"`
	Day       int         `db:"day"`
	StartHour int         `db:"start_hour"`
	EndHour   int         `db:"end_hour"`
	SubjectID string      `db:"subject_id"`
	Color     string      `db:"color"`
	Room      null.String `db:"room"`
}

func entryToRow(e timetable.Entry) entryRow {
	return entryRow{
		ID:        e.ID,
		Day:       e.Day,
		StartHour: e.StartHour,
		EndHour:   e.EndHour,
		SubjectID: e.SubjectID,
		Color:     e.Color,
		Room:      null.NewString(e.Room, e.Room != ""),
	}
}

func (row entryRow) entry() timetable.Entry {
	return timetable.Entry{
		ID:        row.ID,
		Day:       row.Day,
		StartHour: row.StartHour,
		EndHour:   row.EndHour,
		SubjectID: row.SubjectID,
		Color:     row.Color,
		Room:      row.Room.String,
	}
}

type timetableRepository struct {
	db core.DB
}

var _ gateway.TimetableRepository = (*timetableRepository)(nil) // interface compliance check

func NewTimetableRepository(db core.DB) *timetableRepository {
	return &timetableRepository{db: db}
}

func (repo timetableRepository) QueryEntries(ctx context.Context) ([]timetable.Entry, error) {
	var rows []entryRow
	q := "SELECT id, day, start_hour, end_hour, subject_id, color, room FROM timetable" +
		core.OrderBy(core.DBOrdering{Field: "day", Ascending: true}, core.DBOrdering{Field: "start_hour", Ascending: true})
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting timetable")
	}
	entries := make([]timetable.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.entry())
	}
	return entries, nil
}

func (repo timetableRepository) DeleteAllEntries(ctx context.Context) error {
	_, err := repo.db.ExecContext(ctx, "DELETE FROM timetable")
	return errors.Wrap(err, "deleting timetable")
}

// CreateEntries inserts all entries or none of them.
func (repo timetableRepository) CreateEntries(ctx context.Context, entries []timetable.Entry) error {
	q := `INSERT INTO timetable (id, day, start_hour, end_hour, subject_id, color, room)
		VALUES (:id, :day, :start_hour, :end_hour, :subject_id, :color, :room)`
	return inTx(ctx, repo.db, func(tx core.DBTransactor) error {
		for _, e := range entries {
			if e.ID == "" {
				e.ID = newID()
			}
			if _, err := tx.NamedExecContext(ctx, q, entryToRow(e)); err != nil {
				return errors.Wrap(err, "inserting timetable entry")
			}
		}
		return nil
	})
}

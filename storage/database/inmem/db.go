// Package inmemdb keeps the remote collections in process memory.
// It backs tests and the API when no database is configured.
package inmemdb

import (
	"sync"

	"github.com/trezcool/classhub/core/academic"
	"github.com/trezcool/classhub/core/gateway"
	"github.com/trezcool/classhub/core/identity"
	"github.com/trezcool/classhub/core/timetable"
)

type (
	DB struct {
		identity  *identityTable
		item      *itemTable
		resource  *resourceTable
		timetable *timetableTable
	}

	identityTable struct {
		rows  []identity.Identity
		mutex sync.RWMutex
	}

	itemTable struct {
		rows  []academic.Item
		mutex sync.RWMutex
	}

	resourceTable struct {
		rows  []gateway.AttachedResource
		mutex sync.RWMutex
	}

	timetableTable struct {
		rows  []timetable.Entry
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		identity:  &identityTable{},
		item:      &itemTable{},
		resource:  &resourceTable{},
		timetable: &timetableTable{},
	}
}

// Repositories returns the repositories of db, with files as object store.
func (db *DB) Repositories(files gateway.FileStore) gateway.Repositories {
	return gateway.Repositories{
		Identities: NewIdentityRepository(db),
		Items:      NewItemRepository(db),
		Resources:  NewResourceRepository(db),
		Timetable:  NewTimetableRepository(db),
		Files:      files,
	}
}

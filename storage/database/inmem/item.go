package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/classhub/core/academic"
	"github.com/trezcool/classhub/core/gateway"
)

var newID = func() string { return uuid.New().String() }

type itemRepository struct {
	db *itemTable
}

var _ gateway.ItemRepository = (*itemRepository)(nil) // interface compliance check

func NewItemRepository(db *DB) *itemRepository {
	return &itemRepository{db: db.item}
}

func (repo *itemRepository) QueryItems(ctx context.Context) ([]academic.Item, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return academic.CloneItems(repo.db.rows), nil
}

func (repo *itemRepository) CreateItem(ctx context.Context, item academic.Item) (academic.Item, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if item.ID == "" {
		item.ID = newID()
	}
	item.Resources = nil
	repo.db.rows = append(repo.db.rows, item)
	return item, nil
}

func (repo *itemRepository) DeleteItem(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i, it := range repo.db.rows {
		if it.ID == id {
			repo.db.rows = append(repo.db.rows[:i], repo.db.rows[i+1:]...)
			break
		}
	}
	return nil
}

type resourceRepository struct {
	db *resourceTable
}

var _ gateway.ResourceRepository = (*resourceRepository)(nil) // interface compliance check

func NewResourceRepository(db *DB) *resourceRepository {
	return &resourceRepository{db: db.resource}
}

func (repo *resourceRepository) QueryResources(ctx context.Context) ([]gateway.AttachedResource, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]gateway.AttachedResource{}, repo.db.rows...), nil
}

func (repo *resourceRepository) CreateResource(ctx context.Context, res gateway.AttachedResource) (gateway.AttachedResource, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if res.ID == "" {
		res.ID = newID()
	}
	repo.db.rows = append(repo.db.rows, res)
	return res, nil
}

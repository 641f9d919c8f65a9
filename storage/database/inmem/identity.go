package inmemdb

import (
	"context"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/gateway"
	"github.com/trezcool/classhub/core/identity"
)

type identityRepository struct {
	db *identityTable
}

var _ gateway.IdentityRepository = (*identityRepository)(nil) // interface compliance check

func NewIdentityRepository(db *DB) *identityRepository {
	return &identityRepository{db: db.identity}
}

func (repo *identityRepository) indexOf(id string) int {
	for i, idt := range repo.db.rows {
		if idt.ID == id {
			return i
		}
	}
	return -1
}

func (repo *identityRepository) QueryIdentities(ctx context.Context) ([]identity.Identity, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]identity.Identity{}, repo.db.rows...), nil
}

func (repo *identityRepository) GetIdentityByEmail(ctx context.Context, email string) (identity.Identity, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	email = core.CleanEmail(email)
	for _, idt := range repo.db.rows {
		if core.CleanEmail(idt.Email) == email {
			return idt, nil
		}
	}
	return identity.Identity{}, core.ErrNotFound
}

func (repo *identityRepository) CreateIdentity(ctx context.Context, idt identity.Identity) (identity.Identity, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, row := range repo.db.rows {
		if core.CleanEmail(row.Email) == core.CleanEmail(idt.Email) {
			return identity.Identity{}, core.ErrDuplicateEmail
		}
	}
	if idt.ID == "" {
		idt.ID = newID()
	}
	repo.db.rows = append(repo.db.rows, idt)
	return idt, nil
}

func (repo *identityRepository) UpdateIdentityRole(ctx context.Context, id string, role identity.Role) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if i := repo.indexOf(id); i >= 0 {
		repo.db.rows[i].Role = role
	}
	return nil
}

func (repo *identityRepository) DeleteIdentity(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if i := repo.indexOf(id); i >= 0 {
		repo.db.rows = append(repo.db.rows[:i], repo.db.rows[i+1:]...)
	}
	return nil
}

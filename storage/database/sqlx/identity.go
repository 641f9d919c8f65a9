package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/gateway"
	"github.com/trezcool/classhub/core/identity"
)

const identityColumns = "id, email, name, role, student_number, created_at"

type identityRow struct {
	ID            string      `db:"id"`
	Email         string      `db:"email"`
	Name          string      `db:"name"`
	Role          string      `db:"role"`
	StudentNumber null.String `db:"student_number"`
	CreatedAt     time.Time   `db:"created_at"`
}

func identityToRow(idt identity.Identity) identityRow {
	return identityRow{
		ID:            idt.ID,
		Email:         idt.Email,
		Name:          idt.Name,
		Role:          string(idt.Role),
		StudentNumber: null.NewString(idt.StudentNumber, idt.StudentNumber != ""),
		CreatedAt:     idt.CreatedAt.UTC(),
	}
}

func (row identityRow) identity() identity.Identity {
	return identity.Identity{
		ID:            row.ID,
		Email:         row.Email,
		Name:          row.Name,
		Role:          identity.Role(row.Role),
		StudentNumber: row.StudentNumber.String,
		CreatedAt:     row.CreatedAt.UTC(),
	}
}

type identityRepository struct {
	exec core.DBExecutor
}

var _ gateway.IdentityRepository = (*identityRepository)(nil) // interface compliance check

func NewIdentityRepository(exec core.DBExecutor) *identityRepository {
	return &identityRepository{exec: exec}
}

func (repo identityRepository) QueryIdentities(ctx context.Context) ([]identity.Identity, error) {
	var rows []identityRow
	q := "SELECT " + identityColumns + " FROM users" + core.OrderBy(core.DBOrdering{Field: "created_at", Ascending: true})
	if err := repo.exec.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	identities := make([]identity.Identity, 0, len(rows))
	for _, row := range rows {
		identities = append(identities, row.identity())
	}
	return identities, nil
}

func (repo identityRepository) GetIdentityByEmail(ctx context.Context, email string) (identity.Identity, error) {
	var row identityRow
	q := "SELECT " + identityColumns + " FROM users WHERE lower(email) = $1"
	if err := repo.exec.GetContext(ctx, &row, q, core.CleanEmail(email)); err != nil {
		return identity.Identity{}, trapNoRowsErr(err, "selecting user by email")
	}
	return row.identity(), nil
}

func (repo identityRepository) CreateIdentity(ctx context.Context, idt identity.Identity) (identity.Identity, error) {
	if idt.ID == "" {
		idt.ID = newID()
	}
	if idt.CreatedAt.IsZero() {
		idt.CreatedAt = core.NowFunc().UTC()
	}
	q := `INSERT INTO users (` + identityColumns + `)
		VALUES (:id, :email, :name, :role, :student_number, :created_at)`
	if _, err := repo.exec.NamedExecContext(ctx, q, identityToRow(idt)); err != nil {
		if isUniqueViolation(err) {
			return identity.Identity{}, core.ErrDuplicateEmail
		}
		return identity.Identity{}, errors.Wrap(err, "inserting user")
	}
	return idt, nil
}

func (repo identityRepository) UpdateIdentityRole(ctx context.Context, id string, role identity.Role) error {
	_, err := repo.exec.ExecContext(ctx, "UPDATE users SET role = $1 WHERE id = $2", string(role), id)
	return errors.Wrap(err, "updating user role")
}

func (repo identityRepository) DeleteIdentity(ctx context.Context, id string) error {
	_, err := repo.exec.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	return errors.Wrap(err, "deleting user")
}

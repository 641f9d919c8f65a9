package gateway

import (
	"context"
	"io"

	"github.com/trezcool/classhub/core/academic"
	"github.com/trezcool/classhub/core/identity"
	"github.com/trezcool/classhub/core/timetable"
)

type (
	IdentityRepository interface {
		QueryIdentities(ctx context.Context) ([]identity.Identity, error)
		// GetIdentityByEmail returns core.ErrNotFound when no row matches.
		GetIdentityByEmail(ctx context.Context, email string) (identity.Identity, error)
		// CreateIdentity returns core.ErrDuplicateEmail when the email is taken.
		CreateIdentity(ctx context.Context, idt identity.Identity) (identity.Identity, error)
		UpdateIdentityRole(ctx context.Context, id string, role identity.Role) error
		DeleteIdentity(ctx context.Context, id string) error
	}

	// ItemRepository stores items without their resources.
	ItemRepository interface {
		QueryItems(ctx context.Context) ([]academic.Item, error)
		// CreateItem returns the stored row, with the generated id when item.ID is empty.
		CreateItem(ctx context.Context, item academic.Item) (academic.Item, error)
		// DeleteItem removes zero or one row.
		DeleteItem(ctx context.Context, id string) error
	}

	ResourceRepository interface {
		QueryResources(ctx context.Context) ([]AttachedResource, error)
		CreateResource(ctx context.Context, res AttachedResource) (AttachedResource, error)
	}

	TimetableRepository interface {
		QueryEntries(ctx context.Context) ([]timetable.Entry, error)
		DeleteAllEntries(ctx context.Context) error
		CreateEntries(ctx context.Context, entries []timetable.Entry) error
	}

	// FileStore is the binary object store behind uploads.
	FileStore interface {
		Put(ctx context.Context, path, contentType string, body io.Reader, size int64) error
		// URL returns the public URL of path.
		URL(path string) string
	}
)

// AttachedResource is a resource row with the id of the item owning it.
type AttachedResource struct {
	ItemID string
	academic.Resource
}

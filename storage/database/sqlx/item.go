package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/academic"
	"github.com/trezcool/classhub/core/gateway"
)

var newID = func() string { return uuid.New().String() } // mockable

const itemColumns = "id, title, subject_id, type, date, time, location, notes, created_at"

type itemRow struct {
	ID        string      `db:"id"`
	Title     string      `db:"title"`
	SubjectID string      `db:"subject_id"`
	Kind      string      `db:"type"`
	Date      string      `db:"date"`
	Time      null.String `db:"time"`
	Location  null.String `db:"location"`
	Notes     string      `db:"notes"`
	CreatedAt time.Time   `db:"created_at"`
}

func itemToRow(it academic.Item) itemRow {
	return itemRow{
		ID:        it.ID,
		Title:     it.Title,
		SubjectID: it.SubjectID,
		Kind:      string(it.Kind),
		Date:      it.Date,
		Time:      null.NewString(it.Time, it.Time != ""),
		Location:  null.NewString(it.Location, it.Location != ""),
		Notes:     it.Notes,
		CreatedAt: core.NowFunc().UTC(),
	}
}

// item returns the row without resources; the gateway attaches them.
func (row itemRow) item() academic.Item {
	return academic.Item{
		ID:        row.ID,
		Title:     row.Title,
		SubjectID: row.SubjectID,
		Kind:      academic.ItemKind(row.Kind),
		Date:      row.Date,
		Time:      row.Time.String,
		Location:  row.Location.String,
		Notes:     row.Notes,
	}
}

type itemRepository struct {
	exec core.DBExecutor
}

var _ gateway.ItemRepository = (*itemRepository)(nil) // interface compliance check

func NewItemRepository(exec core.DBExecutor) *itemRepository {
	return &itemRepository{exec: exec}
}

// QueryItems returns the items in insertion order.
func (repo itemRepository) QueryItems(ctx context.Context) ([]academic.Item, error) {
	var rows []itemRow
	q := "SELECT " + itemColumns + " FROM academic_items" + core.OrderBy(core.DBOrdering{Field: "created_at", Ascending: true})
	if err := repo.exec.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting academic items")
	}
	items := make([]academic.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.item())
	}
	return items, nil
}

func (repo itemRepository) CreateItem(ctx context.Context, item academic.Item) (academic.Item, error) {
	if item.ID == "" {
		item.ID = newID()
	}
	q := `INSERT INTO academic_items (` + itemColumns + `)
		VALUES (:id, :title, :subject_id, :type, :date, :time, :location, :notes, :created_at)`
	row := itemToRow(item)
	if _, err := repo.exec.NamedExecContext(ctx, q, row); err != nil {
		return academic.Item{}, errors.Wrap(err, "inserting academic item")
	}
	return row.item(), nil
}

func (repo itemRepository) DeleteItem(ctx context.Context, id string) error {
	_, err := repo.exec.ExecContext(ctx, "DELETE FROM academic_items WHERE id = $1", id)
	return errors.Wrap(err, "deleting academic item")
}

type resourceRow struct {
	ID     string `db:"id"`
	ItemID string `db:"item_id"`
	Title  string `db:"title"`
	Kind   string `db:"type"`
	URL    string `db:"url"`
}

func (row resourceRow) resource() gateway.AttachedResource {
	return gateway.AttachedResource{
		ItemID: row.ItemID,
		Resource: academic.Resource{
			ID:    row.ID,
			Title: row.Title,
			Kind:  academic.ResourceKind(row.Kind),
			URL:   row.URL,
		},
	}
}

type resourceRepository struct {
	exec core.DBExecutor
}

var _ gateway.ResourceRepository = (*resourceRepository)(nil) // interface compliance check

func NewResourceRepository(exec core.DBExecutor) *resourceRepository {
	return &resourceRepository{exec: exec}
}

func (repo resourceRepository) QueryResources(ctx context.Context) ([]gateway.AttachedResource, error) {
	var rows []resourceRow
	q := "SELECT id, item_id, title, type, url FROM resources" + core.OrderBy(core.DBOrdering{Field: "created_at", Ascending: true})
	if err := repo.exec.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting resources")
	}
	resources := make([]gateway.AttachedResource, 0, len(rows))
	for _, row := range rows {
		resources = append(resources, row.resource())
	}
	return resources, nil
}

func (repo resourceRepository) CreateResource(ctx context.Context, res gateway.AttachedResource) (gateway.AttachedResource, error) {
	if res.ID == "" {
		res.ID = newID()
	}
	row := resourceRow{ID: res.ID, ItemID: res.ItemID, Title: res.Title, Kind: string(res.Kind), URL: res.URL}
	q := "INSERT INTO resources (id, item_id, title, type, url) VALUES (:id, :item_id, :title, :type, :url)"
	if _, err := repo.exec.NamedExecContext(ctx, q, row); err != nil {
		return gateway.AttachedResource{}, errors.Wrap(err, "inserting resource")
	}
	return res, nil
}

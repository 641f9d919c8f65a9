// Package gateway performs every read and write against the remote store and the object store.
package gateway

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/academic"
	"github.com/trezcool/classhub/core/identity"
	"github.com/trezcool/classhub/core/timetable"
)

const (
	opFetchAll         = "fetch_all"
	opCreateItem       = "create_item"
	opDeleteItem       = "delete_item"
	opReplaceTimetable = "replace_timetable"
	opRegister         = "register_identity"
	opFindByEmail      = "find_identity"
	opUpdateRole       = "update_role"
	opDeleteIdentity   = "delete_identity"
	opUpload           = "upload_file"

	// UploadDir prefixes every uploaded object path.
	UploadDir = "uploads"
)

var (
	newObjectName = defaultNewObjectName // mockable

	operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classhub_gateway_operations_total",
		Help: "Remote store operations, by operation and outcome.",
	}, []string{"op", "outcome"})
)

func defaultNewObjectName() string { return uuid.New().String() }

// Bundle is the result of a bulk read. Items carry their resources.
type Bundle struct {
	Identities []identity.Identity
	Items      []academic.Item
	Timetable  []timetable.Entry
}

// Repositories groups the stores a Gateway talks to.
type Repositories struct {
	Identities IdentityRepository
	Items      ItemRepository
	Resources  ResourceRepository
	Timetable  TimetableRepository
	Files      FileStore
}

type Gateway struct {
	repos    Repositories
	validate *validator.Validate
	log      core.Logger
}

// New returns a Gateway over repos. validate must know the identity, item and timetable validators.
func New(repos Repositories, validate *validator.Validate, logger core.Logger) (*Gateway, error) {
	err := vala.BeginValidation().Validate(
		core.IsNotNil(repos.Identities, "identity repository"),
		core.IsNotNil(repos.Items, "item repository"),
		core.IsNotNil(repos.Resources, "resource repository"),
		core.IsNotNil(repos.Timetable, "timetable repository"),
		core.IsNotNil(repos.Files, "file store"),
		core.IsNotNil(validate, "validate"),
		core.IsNotNil(logger, "logger"),
	).Check()
	if err != nil {
		return nil, errors.Wrap(err, "creating gateway")
	}
	return &Gateway{repos: repos, validate: validate, log: logger}, nil
}

func (gw *Gateway) observe(op string, err *error) {
	outcome := "ok"
	if *err != nil {
		outcome = "error"
	}
	operations.WithLabelValues(op, outcome).Inc()
}

// FetchAll reads the four collections in parallel and attaches resources to their items.
// Rows failing the entity validation of validate are skipped, so the bundle can always be imported back.
func (gw *Gateway) FetchAll(ctx context.Context) (_ Bundle, err error) {
	defer gw.observe(opFetchAll, &err)

	var (
		identities []identity.Identity
		items      []academic.Item
		entries    []timetable.Entry
		resources  []AttachedResource
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		identities, err = gw.repos.Identities.QueryIdentities(gctx)
		return errors.Wrap(err, "querying identities")
	})
	g.Go(func() error {
		var err error
		items, err = gw.repos.Items.QueryItems(gctx)
		return errors.Wrap(err, "querying items")
	})
	g.Go(func() error {
		var err error
		entries, err = gw.repos.Timetable.QueryEntries(gctx)
		return errors.Wrap(err, "querying timetable")
	})
	g.Go(func() error {
		var err error
		resources, err = gw.repos.Resources.QueryResources(gctx)
		return errors.Wrap(err, "querying resources")
	})
	if err = g.Wait(); err != nil {
		return Bundle{}, core.NewPersistenceError(opFetchAll, err)
	}

	return Bundle{
		Identities: gw.keepValidIdentities(identities),
		Items:      gw.keepValidItems(attach(items, gw.keepKnownResourceKinds(resources))),
		Timetable:  gw.keepValidEntries(entries),
	}, nil
}

// keepValid reports whether row passes the validation an import would apply to it.
func (gw *Gateway) keepValid(what, id string, row interface{}) bool {
	if err := gw.validate.Struct(row); err != nil {
		gw.log.Warn("skipping invalid "+what, err, map[string]interface{}{"id": id})
		return false
	}
	return true
}

func (gw *Gateway) keepValidIdentities(rows []identity.Identity) []identity.Identity {
	r := make([]identity.Identity, 0, len(rows))
	for _, idt := range rows {
		if gw.keepValid("identity", idt.ID, idt) {
			r = append(r, idt)
		}
	}
	return r
}

// keepValidItems runs once resources are attached; an item is dropped with its resources.
func (gw *Gateway) keepValidItems(rows []academic.Item) []academic.Item {
	r := make([]academic.Item, 0, len(rows))
	for _, it := range rows {
		if gw.keepValid("item", it.ID, it) {
			r = append(r, it)
		}
	}
	return r
}

func (gw *Gateway) keepKnownResourceKinds(rows []AttachedResource) []AttachedResource {
	r := make([]AttachedResource, 0, len(rows))
	for _, res := range rows {
		if !res.Kind.Valid() {
			gw.log.Warn("skipping resource with unknown type", map[string]interface{}{"id": res.ID, "type": res.Kind})
			continue
		}
		r = append(r, res)
	}
	return r
}

func (gw *Gateway) keepValidEntries(rows []timetable.Entry) []timetable.Entry {
	r := make([]timetable.Entry, 0, len(rows))
	for _, e := range rows {
		if gw.keepValid("timetable entry", e.ID, e) {
			r = append(r, e)
		}
	}
	return r
}

// attach partitions resources over items. Resources without a matching item are dropped.
func attach(items []academic.Item, resources []AttachedResource) []academic.Item {
	byItem := make(map[string][]academic.Resource, len(items))
	for _, res := range resources {
		byItem[res.ItemID] = append(byItem[res.ItemID], res.Resource)
	}
	r := make([]academic.Item, 0, len(items))
	for _, it := range items {
		it.Resources = byItem[it.ID]
		if it.Resources == nil {
			it.Resources = []academic.Resource{}
		}
		r = append(r, it)
	}
	return r
}

// CreateItem writes the item row, then one resource row per resource tagged with the item id.
// A failing resource write leaves the item row in place.
func (gw *Gateway) CreateItem(ctx context.Context, item academic.Item) (_ academic.Item, err error) {
	defer gw.observe(opCreateItem, &err)

	resources := item.Resources
	item.Resources = nil

	created, err := gw.repos.Items.CreateItem(ctx, item)
	if err != nil {
		return academic.Item{}, core.NewPersistenceError(opCreateItem, errors.Wrap(err, "inserting item"))
	}

	created.Resources = make([]academic.Resource, 0, len(resources))
	for _, res := range resources {
		ar, err := gw.repos.Resources.CreateResource(ctx, AttachedResource{ItemID: created.ID, Resource: res})
		if err != nil {
			return academic.Item{}, core.NewPersistenceError(opCreateItem, errors.Wrapf(err, "inserting resource of item %s", created.ID))
		}
		created.Resources = append(created.Resources, ar.Resource)
	}
	return created, nil
}

// DeleteItem does not touch the resources of the item.
func (gw *Gateway) DeleteItem(ctx context.Context, id string) (err error) {
	defer gw.observe(opDeleteItem, &err)

	if err = gw.repos.Items.DeleteItem(ctx, id); err != nil {
		return core.NewPersistenceError(opDeleteItem, errors.Wrap(err, "deleting item"))
	}
	return nil
}

// ReplaceTimetable deletes every row, then inserts entries. The two steps are not atomic.
func (gw *Gateway) ReplaceTimetable(ctx context.Context, entries []timetable.Entry) (err error) {
	defer gw.observe(opReplaceTimetable, &err)

	if err = gw.repos.Timetable.DeleteAllEntries(ctx); err != nil {
		return core.NewPersistenceError(opReplaceTimetable, errors.Wrap(err, "clearing timetable"))
	}
	if len(entries) == 0 {
		return nil
	}
	if err = gw.repos.Timetable.CreateEntries(ctx, entries); err != nil {
		return core.NewPersistenceError(opReplaceTimetable, errors.Wrap(err, "inserting timetable"))
	}
	return nil
}

// RegisterIdentity fails with an error matching core.ErrDuplicateEmail when the email is taken.
func (gw *Gateway) RegisterIdentity(ctx context.Context, idt identity.Identity) (_ identity.Identity, err error) {
	defer gw.observe(opRegister, &err)

	idt.Email = core.CleanEmail(idt.Email)
	created, err := gw.repos.Identities.CreateIdentity(ctx, idt)
	if err != nil {
		return identity.Identity{}, core.NewPersistenceError(opRegister, errors.Wrap(err, "inserting identity"))
	}
	return created, nil
}

// FindIdentityByEmail matches email case-insensitively. A miss is not an error.
func (gw *Gateway) FindIdentityByEmail(ctx context.Context, email string) (_ identity.Identity, _ bool, err error) {
	defer gw.observe(opFindByEmail, &err)

	email = core.CleanEmail(email)
	if email == "" {
		return identity.Identity{}, false, nil
	}
	idt, err := gw.repos.Identities.GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return identity.Identity{}, false, nil
		}
		return identity.Identity{}, false, core.NewPersistenceError(opFindByEmail, errors.Wrap(err, "finding identity"))
	}
	if !idt.Role.Valid() {
		gw.log.Warn("skipping identity with unknown role", map[string]interface{}{"id": idt.ID, "role": idt.Role})
		return identity.Identity{}, false, nil
	}
	return idt, true, nil
}

func (gw *Gateway) UpdateIdentityRole(ctx context.Context, id string, role identity.Role) (err error) {
	defer gw.observe(opUpdateRole, &err)

	if err = gw.repos.Identities.UpdateIdentityRole(ctx, id, role); err != nil {
		return core.NewPersistenceError(opUpdateRole, errors.Wrap(err, "updating role"))
	}
	return nil
}

func (gw *Gateway) DeleteIdentity(ctx context.Context, id string) (err error) {
	defer gw.observe(opDeleteIdentity, &err)

	if err = gw.repos.Identities.DeleteIdentity(ctx, id); err != nil {
		return core.NewPersistenceError(opDeleteIdentity, errors.Wrap(err, "deleting identity"))
	}
	return nil
}

// UploadFile stores body under uploads/<random>.<ext> and returns its public URL
// along with the content type it was stored with, sniffed when contentType is empty.
func (gw *Gateway) UploadFile(ctx context.Context, name, contentType string, body io.Reader, size int64) (_, _ string, err error) {
	defer gw.observe(opUpload, &err)

	ext := strings.ToLower(filepath.Ext(name))
	if contentType == "" || ext == "" {
		var head bytes.Buffer
		mtype, err := mimetype.DetectReader(io.TeeReader(body, &head))
		if err != nil {
			return "", "", core.NewUploadError(name, errors.Wrap(err, "detecting content type"))
		}
		body = io.MultiReader(&head, body)
		if contentType == "" {
			contentType = mtype.String()
		}
		if ext == "" {
			ext = mtype.Extension()
		}
	}

	path := UploadDir + "/" + newObjectName() + ext
	if err = gw.repos.Files.Put(ctx, path, contentType, body, size); err != nil {
		return "", "", core.NewUploadError(name, err)
	}
	return gw.repos.Files.URL(path), contentType, nil
}

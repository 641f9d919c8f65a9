// Package session binds one browser to its identity, its local state and its view.
package session

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/academic"
	"github.com/trezcool/classhub/core/gateway"
	"github.com/trezcool/classhub/core/i18n"
	"github.com/trezcool/classhub/core/identity"
	"github.com/trezcool/classhub/core/state"
	"github.com/trezcool/classhub/core/subject"
	"github.com/trezcool/classhub/core/timetable"
)

// DefaultView is shown after login, logout and on any unknown view.
const DefaultView = "overview"

var (
	ErrUploadInProgress = errors.New("an upload is already in progress")
	ErrLoginFailed      = errors.Wrap(core.ErrUnauthenticated, "no account with this email")

	newID = func() string { return uuid.New().String() } // mockable
)

type (
	// Remote is the remote store as seen by a session.
	Remote interface {
		FetchAll(ctx context.Context) (gateway.Bundle, error)
		CreateItem(ctx context.Context, item academic.Item) (academic.Item, error)
		DeleteItem(ctx context.Context, id string) error
		ReplaceTimetable(ctx context.Context, entries []timetable.Entry) error
		RegisterIdentity(ctx context.Context, idt identity.Identity) (identity.Identity, error)
		FindIdentityByEmail(ctx context.Context, email string) (identity.Identity, bool, error)
		UpdateIdentityRole(ctx context.Context, id string, role identity.Role) error
		DeleteIdentity(ctx context.Context, id string) error
		UploadFile(ctx context.Context, name, contentType string, body io.Reader, size int64) (url, storedType string, err error)
	}

	// Prefs persists the language chosen on a client.
	Prefs interface {
		// LoadLanguage returns "" when nothing was saved for clientID.
		LoadLanguage(clientID string) (i18n.Language, error)
		SaveLanguage(clientID string, lang i18n.Language) error
	}
)

// SubjectPatch holds the subject fields to change; nil fields are kept.
type SubjectPatch struct {
	Name        map[i18n.Language]string `json:"name"`
	Description map[i18n.Language]string `json:"description"`
	Color       *string                  `json:"color"`
}

type Session struct {
	id       string
	clientID string

	remote     Remote
	registrar  *identity.Registrar
	table      *i18n.Table
	prefs      Prefs
	validate   *validator.Validate
	translator ut.Translator
	log        core.Logger

	store *state.Store
	doc   *i18n.Document

	mu      sync.Mutex
	current *identity.Identity
	view    string
	navOpen bool

	issued    uint64 // last reload generation handed out
	applied   uint64 // generation of the last applied reload
	uploading int32
}

func (s *Session) ID() string { return s.id }

func (s *Session) ClientID() string { return s.clientID }

// Store exposes the local state for reading.
func (s *Session) Store() *state.Store { return s.store }

func (s *Session) Document() *i18n.Document { return s.doc }

// Translator returns the translator of the active language.
func (s *Session) Translator() i18n.Translator { return s.table.For(s.store.Language()) }

// T looks key up in the active language.
func (s *Session) T(key string) string { return s.table.Lookup(s.store.Language(), key) }

// Identity returns the bound identity, if any.
func (s *Session) Identity() (identity.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return identity.Identity{}, false
	}
	return *s.current, true
}

// Capabilities are derived from the bound identity on every call. Anonymous sessions have none.
func (s *Session) Capabilities() identity.Capabilities {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capabilities()
}

func (s *Session) capabilities() identity.Capabilities {
	if s.current == nil {
		return identity.Capabilities{}
	}
	return s.current.Capabilities()
}

// require checks the bound identity against need; s.mu must be held.
func (s *Session) require(need func(identity.Capabilities) bool) error {
	if s.current == nil {
		return core.ErrUnauthenticated
	}
	if !need(s.current.Capabilities()) {
		return core.ErrForbidden
	}
	return nil
}

func super(c identity.Capabilities) bool    { return c.Super }
func elevated(c identity.Capabilities) bool { return c.Elevated }

// logArgs returns err followed by the bound identity, if any.
func (s *Session) logArgs(err error) []interface{} {
	if s.current == nil {
		return []interface{}{err}
	}
	return []interface{}{err, *s.current}
}

// Reload replaces identities, items and timetable with a bulk read of the remote store.
// Subjects are left alone. A reload finishing after a more recent one is discarded.
func (s *Session) Reload(ctx context.Context) error {
	gen := atomic.AddUint64(&s.issued, 1)

	b, err := s.remote.FetchAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.applied {
		s.log.Debug("discarding stale reload", map[string]interface{}{"session": s.id, "generation": gen, "applied": s.applied})
		return nil
	}
	s.applied = gen
	s.store.ReplaceAll(state.Partial{Identities: &b.Identities, Items: &b.Items, Timetable: &b.Timetable})
	return nil
}

// Login binds the identity registered with email. No credential is checked.
func (s *Session) Login(ctx context.Context, email string) (identity.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idt, ok, err := s.remote.FindIdentityByEmail(ctx, email)
	if err != nil {
		return identity.Identity{}, err
	}
	if !ok {
		return identity.Identity{}, ErrLoginFailed
	}
	s.bind(idt)
	return idt, nil
}

// Register creates an identity, then binds it. The secret decides the role.
func (s *Session) Register(ctx context.Context, ni identity.NewIdentity) (identity.Identity, error) {
	if err := ni.Validate(s.validate); err != nil {
		return identity.Identity{}, core.TranslateValidationErrors(err, s.translator)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idt, err := s.remote.RegisterIdentity(ctx, s.registrar.Build(ni))
	if err != nil {
		return identity.Identity{}, err
	}
	identities := append(s.store.Identities(), idt)
	s.store.ReplaceAll(state.Partial{Identities: &identities})
	s.bind(idt)
	return idt, nil
}

func (s *Session) bind(idt identity.Identity) {
	s.current = &idt
	s.view = DefaultView
	s.navOpen = false
}

// Logout clears the identity and goes back to the default view.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.view = DefaultView
	s.navOpen = false
}

// SelectView records the view being shown and closes the navigation overlay.
// name is expected to be already resolved against the capabilities of the session.
func (s *Session) SelectView(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		name = DefaultView
	}
	s.view = name
	s.navOpen = false
}

func (s *Session) CurrentView() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) ToggleNav() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navOpen = !s.navOpen
	return s.navOpen
}

func (s *Session) NavOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navOpen
}

// SetLanguage switches the active language and saves it for the client.
func (s *Session) SetLanguage(lang i18n.Language) error {
	if !lang.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "language", Error: "must be one of en, fr, ar"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLanguage(lang)
}

func (s *Session) setLanguage(lang i18n.Language) error {
	s.store.ReplaceAll(state.Partial{Language: &lang})
	s.doc.Apply(lang)
	if err := s.prefs.SaveLanguage(s.clientID, lang); err != nil {
		s.log.Error("saving language", err, map[string]interface{}{"client": s.clientID})
		return errors.Wrap(err, "saving language")
	}
	return nil
}

// CreateItem persists a new item with its resources, then puts it first in the local list.
func (s *Session) CreateItem(ctx context.Context, ni academic.NewItem) (academic.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(super); err != nil {
		return academic.Item{}, err
	}

	var defaultSubject string
	if subjects := s.store.Subjects(); len(subjects) > 0 {
		defaultSubject = subjects[0].ID
	}
	if err := ni.Validate(s.validate, defaultSubject); err != nil {
		return academic.Item{}, core.TranslateValidationErrors(err, s.translator)
	}

	item, err := s.remote.CreateItem(ctx, ni.Build(newID))
	if err != nil {
		s.log.Error("creating item", s.logArgs(err)...)
		return academic.Item{}, err
	}
	items := append([]academic.Item{item}, s.store.Items()...)
	s.store.ReplaceAll(state.Partial{Items: &items})
	return item, nil
}

// DeleteItem deletes the item remotely, then locally.
func (s *Session) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(super); err != nil {
		return err
	}

	if err := s.remote.DeleteItem(ctx, id); err != nil {
		s.log.Error("deleting item", s.logArgs(err)...)
		return err
	}
	items := make([]academic.Item, 0)
	for _, it := range s.store.Items() {
		if it.ID != id {
			items = append(items, it)
		}
	}
	s.store.ReplaceAll(state.Partial{Items: &items})
	return nil
}

// ClearItems empties the local item list, then deletes every item remotely.
// It stops at the first remote failure.
func (s *Session) ClearItems(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(super); err != nil {
		return err
	}

	items := s.store.Items()
	empty := []academic.Item{}
	s.store.ReplaceAll(state.Partial{Items: &empty})
	for _, it := range items {
		if err := s.remote.DeleteItem(ctx, it.ID); err != nil {
			s.log.Error("clearing items", s.logArgs(err)...)
			return err
		}
	}
	return nil
}

// AddTimetableEntry appends a slot locally, then replaces the remote timetable.
func (s *Session) AddTimetableEntry(ctx context.Context, ne timetable.NewEntry) (timetable.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(elevated); err != nil {
		return timetable.Entry{}, err
	}
	if err := ne.Validate(s.validate); err != nil {
		return timetable.Entry{}, core.TranslateValidationErrors(err, s.translator)
	}

	entry := ne.Build(newID())
	entries := append(s.store.Timetable(), entry)
	return entry, s.replaceTimetable(ctx, entries)
}

func (s *Session) RemoveTimetableEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(elevated); err != nil {
		return err
	}
	return s.replaceTimetable(ctx, timetable.Without(s.store.Timetable(), id))
}

// ReplaceTimetable swaps the whole timetable. No entry is applied unless all are valid.
func (s *Session) ReplaceTimetable(ctx context.Context, entries []timetable.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(elevated); err != nil {
		return err
	}
	for _, e := range entries {
		if err := s.validate.Struct(e); err != nil {
			return core.TranslateValidationErrors(err, s.translator)
		}
	}
	if entries == nil {
		entries = []timetable.Entry{}
	}
	return s.replaceTimetable(ctx, entries)
}

// replaceTimetable applies entries locally, then persists them. A remote failure is not rolled back.
func (s *Session) replaceTimetable(ctx context.Context, entries []timetable.Entry) error {
	s.store.ReplaceAll(state.Partial{Timetable: &entries})
	if err := s.remote.ReplaceTimetable(ctx, entries); err != nil {
		s.log.Error("replacing timetable", s.logArgs(err)...)
		return err
	}
	return nil
}

// ChangeRole overrides the role of an identity locally, then remotely.
func (s *Session) ChangeRole(ctx context.Context, id string, role identity.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(elevated); err != nil {
		return err
	}
	if !role.Valid() {
		_, err := identity.ParseRole(string(role))
		return err
	}

	identities := s.store.Identities()
	found := false
	for i := range identities {
		if identities[i].ID == id {
			identities[i].Role = role
			found = true
		}
	}
	if !found {
		return core.ErrNotFound
	}
	s.store.ReplaceAll(state.Partial{Identities: &identities})
	if s.current.ID == id {
		s.current.Role = role
	}

	if err := s.remote.UpdateIdentityRole(ctx, id, role); err != nil {
		s.log.Error("changing role", s.logArgs(err)...)
		return err
	}
	return nil
}

// RemoveIdentity drops an identity from the class list locally, then remotely.
func (s *Session) RemoveIdentity(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(super); err != nil {
		return err
	}

	identities := make([]identity.Identity, 0)
	for _, idt := range s.store.Identities() {
		if idt.ID != id {
			identities = append(identities, idt)
		}
	}
	s.store.ReplaceAll(state.Partial{Identities: &identities})

	if err := s.remote.DeleteIdentity(ctx, id); err != nil {
		s.log.Error("removing identity", s.logArgs(err)...)
		return err
	}
	return nil
}

// UpdateSubject edits a subject of the local list. Subjects are never persisted remotely.
func (s *Session) UpdateSubject(id string, patch SubjectPatch) (subject.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(elevated); err != nil {
		return subject.Subject{}, err
	}

	subjects := s.store.Subjects()
	for i := range subjects {
		if subjects[i].ID != id {
			continue
		}
		for lang, v := range patch.Name {
			subjects[i].Name[lang] = v
		}
		for lang, v := range patch.Description {
			subjects[i].Description[lang] = v
		}
		if patch.Color != nil {
			subjects[i].Color = *patch.Color
		}
		s.store.ReplaceAll(state.Partial{Subjects: &subjects})
		return subjects[i], nil
	}
	return subject.Subject{}, core.ErrNotFound
}

// Update merges a raw edit into the local state. Only the timetable is persisted.
func (s *Session) Update(ctx context.Context, p state.Partial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.require(elevated); err != nil {
		return err
	}

	lang := p.Language
	p.Language = nil
	s.store.ReplaceAll(p)
	if lang != nil {
		if err := s.setLanguage(*lang); err != nil {
			return err
		}
	}
	if p.Timetable != nil {
		if err := s.remote.ReplaceTimetable(ctx, *p.Timetable); err != nil {
			s.log.Error("raw edit", s.logArgs(err)...)
			return err
		}
	}
	return nil
}

// Import decodes a raw JSON edit, then applies it like Update. Invalid input changes nothing.
func (s *Session) Import(ctx context.Context, data []byte) error {
	if err := s.requireLocked(elevated); err != nil {
		return err
	}
	p, err := state.ParsePartial(data, s.validate, s.translator)
	if err != nil {
		return err
	}
	return s.Update(ctx, p)
}

func (s *Session) requireLocked(need func(identity.Capabilities) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.require(need)
}

// UploadFile stores a file for a resource being drafted. Only one upload runs at a time.
func (s *Session) UploadFile(ctx context.Context, name, contentType string, body io.Reader, size int64) (academic.NewResource, error) {
	if err := s.requireLocked(super); err != nil {
		return academic.NewResource{}, err
	}
	if !atomic.CompareAndSwapInt32(&s.uploading, 0, 1) {
		return academic.NewResource{}, ErrUploadInProgress
	}
	defer atomic.StoreInt32(&s.uploading, 0)

	url, storedType, err := s.remote.UploadFile(ctx, name, contentType, body, size)
	if err != nil {
		s.log.Error("uploading file", err, map[string]interface{}{"name": name})
		return academic.NewResource{}, err
	}
	return academic.NewResource{
		Title: name,
		Kind:  academic.KindForContentType(storedType),
		URL:   url,
	}, nil
}

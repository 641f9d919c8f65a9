// Package state holds the in-memory mirror of the remote collections.
package state

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/academic"
	"github.com/trezcool/classhub/core/i18n"
	"github.com/trezcool/classhub/core/identity"
	"github.com/trezcool/classhub/core/subject"
	"github.com/trezcool/classhub/core/timetable"
)

// State is the full local mirror. Only Language outlives a session.
type State struct {
	Identities []identity.Identity `json:"users"`
	Subjects   []subject.Subject   `json:"subjects"`
	Items      []academic.Item     `json:"items"`
	Timetable  []timetable.Entry   `json:"timetable"`
	Language   i18n.Language       `json:"language"`
}

// Initial is the state of a fresh session, before the first reload.
func Initial(lang i18n.Language) State {
	if !lang.Valid() {
		lang = i18n.DefaultLanguage
	}
	return State{
		Identities: []identity.Identity{},
		Subjects:   subject.Seed(),
		Items:      []academic.Item{},
		Timetable:  []timetable.Entry{},
		Language:   lang,
	}
}

func (s State) clone() State {
	c := State{Language: s.Language}
	if s.Identities != nil {
		c.Identities = make([]identity.Identity, len(s.Identities))
		copy(c.Identities, s.Identities)
	}
	c.Subjects = subject.Clone(s.Subjects)
	c.Items = academic.CloneItems(s.Items)
	c.Timetable = timetable.Clone(s.Timetable)
	return c
}

// Partial names the fields to replace; nil fields are left alone.
type Partial struct {
	Identities *[]identity.Identity `json:"users,omitempty" validate:"omitempty,dive"`
	Subjects   *[]subject.Subject   `json:"subjects,omitempty" validate:"omitempty,dive"`
	Items      *[]academic.Item     `json:"items,omitempty" validate:"omitempty,dive"`
	Timetable  *[]timetable.Entry   `json:"timetable,omitempty" validate:"omitempty,dive"`
	Language   *i18n.Language       `json:"language,omitempty"`
}

func (p Partial) Empty() bool {
	return p.Identities == nil && p.Subjects == nil && p.Items == nil && p.Timetable == nil && p.Language == nil
}

// Store guards one State. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	st State
}

func NewStore(initial State) *Store {
	return &Store{st: initial.clone()}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.clone()
}

// ReplaceAll shallow merges the non-nil fields of p into the state.
func (s *Store) ReplaceAll(p Partial) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Identities != nil {
		s.st.Identities = append([]identity.Identity{}, *p.Identities...)
	}
	if p.Subjects != nil {
		s.st.Subjects = subject.Clone(*p.Subjects)
	}
	if p.Items != nil {
		s.st.Items = academic.CloneItems(*p.Items)
	}
	if p.Timetable != nil {
		s.st.Timetable = timetable.Clone(*p.Timetable)
	}
	if p.Language != nil {
		s.st.Language = *p.Language
	}
}

func (s *Store) Language() i18n.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Language
}

func (s *Store) Identities() []identity.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]identity.Identity{}, s.st.Identities...)
}

func (s *Store) Subjects() []subject.Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return subject.Clone(s.st.Subjects)
}

func (s *Store) Items() []academic.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return academic.CloneItems(s.st.Items)
}

func (s *Store) Timetable() []timetable.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return timetable.Clone(s.st.Timetable)
}

func (s *Store) ItemsBySubject(subjectID string) []academic.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return academic.CloneItems(academic.BySubject(s.st.Items, subjectID))
}

// ItemsBetween returns the items dated within [from, to], both ISO dates.
func (s *Store) ItemsBetween(from, to string) []academic.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return academic.CloneItems(academic.Between(s.st.Items, from, to))
}

func (s *Store) Upcoming(now time.Time) []academic.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return academic.CloneItems(academic.Upcoming(s.st.Items, now))
}

func (s *Store) CountByKind(kind academic.ItemKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return academic.CountByKind(s.st.Items, kind)
}

// SearchIdentities matches term against names and student numbers, ignoring case.
func (s *Store) SearchIdentities(term string) []identity.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return identity.Search(s.st.Identities, term)
}

func (s *Store) EntriesByDay(day int) []timetable.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return timetable.ByDay(s.st.Timetable, day)
}

// Export returns the indented JSON snapshot of the state.
func (s *Store) Export() ([]byte, error) {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding state")
	}
	return data, nil
}

// SnapshotFilename names an export file: <prefix>_backup_YYYY-MM-DD.json
func SnapshotFilename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_backup_%s.json", prefix, now.Format(core.DateLayout))
}

// ParsePartial decodes a raw edit. Malformed JSON and invalid entities are reported as a *core.ValidationError.
func ParsePartial(data []byte, validate *validator.Validate, translator ut.Translator) (Partial, error) {
	var p Partial
	if err := json.Unmarshal(data, &p); err != nil {
		return Partial{}, core.NewValidationError(errors.Wrap(err, "invalid JSON structure"))
	}
	if p.Language != nil && !p.Language.Valid() {
		return Partial{}, core.NewValidationError(nil, core.FieldError{Field: "language", Error: "must be one of en, fr, ar"})
	}
	if err := validate.Struct(p); err != nil {
		return Partial{}, core.TranslateValidationErrors(err, translator)
	}
	return p, nil
}

// NewValidator returns a validator knowing every entity of the state.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	identity.InitValidators(validate, translator)
	academic.InitValidators(validate, translator)
	timetable.InitValidators(validate, translator)
	return validate, translator
}

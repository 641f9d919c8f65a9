package session

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/i18n"
	"github.com/trezcool/classhub/core/identity"
	"github.com/trezcool/classhub/core/state"
)

// Deps are shared by every session of a Manager.
type Deps struct {
	Remote     Remote
	Registrar  *identity.Registrar
	Table      *i18n.Table
	Prefs      Prefs
	Validate   *validator.Validate
	Translator ut.Translator
	Logger     core.Logger
}

// Manager opens sessions and keeps them while they are used.
// A session expires after ttl without activity.
type Manager struct {
	deps     Deps
	sessions *cache.Cache
	ttl      time.Duration
}

func NewManager(deps Deps, ttl time.Duration) (*Manager, error) {
	err := vala.BeginValidation().Validate(
		core.IsNotNil(deps.Remote, "remote"),
		core.IsNotNil(deps.Registrar, "registrar"),
		core.IsNotNil(deps.Table, "table"),
		core.IsNotNil(deps.Prefs, "prefs"),
		core.IsNotNil(deps.Validate, "validate"),
		core.IsNotNil(deps.Translator, "translator"),
		core.IsNotNil(deps.Logger, "logger"),
	).Check()
	if err != nil {
		return nil, errors.Wrap(err, "creating session manager")
	}
	return &Manager{
		deps:     deps,
		sessions: cache.New(ttl, 10*time.Minute),
		ttl:      ttl,
	}, nil
}

// Open starts an anonymous session for clientID, in the language last saved for it.
func (m *Manager) Open(clientID string) *Session {
	lang, err := m.deps.Prefs.LoadLanguage(clientID)
	if err != nil {
		m.deps.Logger.Warn("loading language", err, map[string]interface{}{"client": clientID})
	}
	if !lang.Valid() {
		lang = i18n.DefaultLanguage
	}

	s := &Session{
		id:         newID(),
		clientID:   clientID,
		remote:     m.deps.Remote,
		registrar:  m.deps.Registrar,
		table:      m.deps.Table,
		prefs:      m.deps.Prefs,
		validate:   m.deps.Validate,
		translator: m.deps.Translator,
		log:        m.deps.Logger,
		store:      state.NewStore(state.Initial(lang)),
		doc:        i18n.NewDocument(lang),
		view:       DefaultView,
	}
	m.sessions.Set(s.id, s, m.ttl)
	return s
}

// Get returns the session with id and extends its lifetime.
func (m *Manager) Get(id string) (*Session, bool) {
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	m.sessions.Set(id, s, m.ttl)
	return s, true
}

func (m *Manager) Close(id string) {
	m.sessions.Delete(id)
}

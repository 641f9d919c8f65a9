package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	. "github.com/trezcool/classhub/apps/api/echo"
	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/gateway"
	"github.com/trezcool/classhub/core/i18n"
	"github.com/trezcool/classhub/core/identity"
	"github.com/trezcool/classhub/core/session"
	"github.com/trezcool/classhub/core/state"
	"github.com/trezcool/classhub/core/view"
	inmemdb "github.com/trezcool/classhub/storage/database/inmem"
	"github.com/trezcool/classhub/storage/objectstore/memstore"
)

const devSecret = "otmane55"

var (
	conf     *core.Config
	db       *inmemdb.DB
	files    *memstore.Store
	sessions *session.Manager
	app      *Server

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type memPrefs struct {
	mu    sync.Mutex
	langs map[string]i18n.Language
}

func (p *memPrefs) LoadLanguage(clientID string) (i18n.Language, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.langs[clientID], nil
}

func (p *memPrefs) SaveLanguage(clientID string, lang i18n.Language) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.langs[clientID] = lang
	return nil
}

func TestMain(m *testing.M) {
	if err := setUp(); err != nil {
		fmt.Printf("setUp(): %v", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func setUp() error {
	conf = &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "1Bacsm 2",
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
			SessionTTL:         time.Hour,
			MaxUploadSize:      1 << 20,
		},
		Prefs: core.PrefsConfig{StorageKey: "1bacsm2_state"},
	}

	db = inmemdb.Open()
	files = memstore.New("https://files.test/resources")
	validate, translator := state.NewValidator()
	gw, err := gateway.New(db.Repositories(files), validate, core.NewNopLogger())
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(devSecret), bcrypt.MinCost)
	if err != nil {
		return err
	}
	sessions, err = session.NewManager(session.Deps{
		Remote:     gw,
		Registrar:  identity.NewRegistrar(string(hash)),
		Table:      i18n.MustNewTable(),
		Prefs:      &memPrefs{langs: make(map[string]i18n.Language)},
		Validate:   validate,
		Translator: translator,
		Logger:     core.NewNopLogger(),
	}, conf.Server.SessionTTL)
	if err != nil {
		return err
	}

	app = NewServer(conf, core.NewNopLogger(), sessions, view.NewRouter(), validate, translator)
	return nil
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     interface{}
	token    string
	wantCode int
}

func newAuthRequest(t *testing.T, method, path, token string, data interface{}) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	if data != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(data))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func do(t *testing.T, method, path, token string, data interface{}) *httptest.ResponseRecorder {
	t.Helper()
	req, rec := newAuthRequest(t, method, path, token, data)
	app.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

// openSession returns the token of a new anonymous session.
func openSession(t *testing.T, clientID string) SessionResponse {
	t.Helper()
	rec := do(t, http.MethodPost, "/v1/sessions", "", OpenSessionRequest{ClientID: clientID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp SessionResponse
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp
}

// registerAs opens a session and registers a new identity on it.
func registerAs(t *testing.T, name, email, secret string) (token string, idt identity.Identity) {
	t.Helper()
	token = openSession(t, "").Token
	rec := do(t, http.MethodPost, "/v1/sessions/register", token, identity.NewIdentity{Name: name, Email: email, Secret: secret})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp SessionResponse
	decode(t, rec, &resp)
	require.NotNil(t, resp.Identity)
	return token, *resp.Identity
}

// adminToken promotes a fresh student to ADMIN through a dev session, then logs it in.
func adminToken(t *testing.T, email string) string {
	t.Helper()
	devToken, _ := registerAs(t, "Dev "+email, "dev."+email, devSecret)
	_, stu := registerAs(t, "Admin "+email, email, "")

	require.Equal(t, http.StatusNoContent, do(t, http.MethodPost, "/v1/sessions/reload", devToken, nil).Code)
	rec := do(t, http.MethodPut, "/v1/identities/"+stu.ID+"/role", devToken, RoleRequest{Role: "admin"})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	token := openSession(t, "").Token
	rec = do(t, http.MethodPost, "/v1/sessions/login", token, LoginRequest{Email: email})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return token
}

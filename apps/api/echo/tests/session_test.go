package tests

import (
	"net/http"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/classhub/apps/api/echo"
	"github.com/trezcool/classhub/core/i18n"
	"github.com/trezcool/classhub/core/identity"
)

func TestHome(t *testing.T) {
	rec := do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to 1Bacsm 2 API!", rec.Body.String())
}

func TestOpenSession(t *testing.T) {
	t.Run("keeps the client id", func(t *testing.T) {
		resp := openSession(t, "client-1")
		assert.Equal(t, "client-1", resp.ClientID)
		assert.Equal(t, i18n.French, resp.Language)
		assert.Equal(t, i18n.LTR, resp.Dir)
		assert.Equal(t, "overview", resp.View)
		assert.Nil(t, resp.Identity)
		assert.Equal(t, identity.Capabilities{}, resp.Capabilities)
	})

	t.Run("assigns a client id", func(t *testing.T) {
		resp := openSession(t, "")
		assert.NotEmpty(t, resp.ClientID)
	})

	t.Run("token names the session", func(t *testing.T) {
		resp := openSession(t, "client-2")
		claims := new(Claims)
		_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(conf.SecretKey), nil
		})
		require.NoError(t, err)
		assert.Equal(t, resp.ID, claims.Id)
		assert.Equal(t, "client-2", claims.Subject)
		assert.Equal(t, conf.AppName, claims.Issuer)
	})

	t.Run("language survives the session", func(t *testing.T) {
		token := openSession(t, "client-ar").Token
		rec := do(t, http.MethodPut, "/v1/sessions/language", token, LanguageRequest{Language: i18n.Arabic})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := openSession(t, "client-ar")
		assert.Equal(t, i18n.Arabic, resp.Language)
		assert.Equal(t, i18n.RTL, resp.Dir)
	})
}

func TestOpenSessionNeedsNoToken(t *testing.T) {
	rec := do(t, http.MethodPost, "/v1/sessions", "", OpenSessionRequest{})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp SessionResponse
	decode(t, rec, &resp)
	rec = do(t, http.MethodGet, "/v1/sessions/me", resp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, http.MethodPost, "/v1/sessions/reload", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthentication(t *testing.T) {
	closed := openSession(t, "")
	sessions.Close(closed.ID)

	tests := []httpTest{
		{name: "missing token", method: http.MethodGet, path: "/v1/sessions/me", wantCode: http.StatusUnauthorized},
		{name: "invalid token", method: http.MethodGet, path: "/v1/sessions/me", token: "not-a-jwt", wantCode: http.StatusUnauthorized},
		{name: "expired session", method: http.MethodGet, path: "/v1/sessions/me", token: closed.Token, wantCode: http.StatusUnauthorized},
		{name: "anonymous item creation", method: http.MethodPost, path: "/v1/items", token: openSession(t, "").Token, body: map[string]string{"date": "2026-10-20"}, wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}

	t.Run("missing token message", func(t *testing.T) {
		var got httpErr
		decode(t, do(t, http.MethodGet, "/v1/sessions/me", "", nil), &got)
		assert.Equal(t, errMissingToken, got)
	})
}

func TestRegisterAndLogin(t *testing.T) {
	token, stu := registerAs(t, "Amina Idrissi", "Amina@Class.ma", "")
	assert.Equal(t, "amina@class.ma", stu.Email)
	assert.Equal(t, identity.RoleStudent, stu.Role)
	assert.NotEmpty(t, stu.StudentNumber)

	_, dev := registerAs(t, "Yassine Dev", "yassine@class.ma", devSecret)
	assert.Equal(t, identity.RoleDev, dev.Role)

	t.Run("logout then login", func(t *testing.T) {
		rec := do(t, http.MethodPost, "/v1/sessions/logout", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp SessionResponse
		decode(t, rec, &resp)
		assert.Nil(t, resp.Identity)

		rec = do(t, http.MethodPost, "/v1/sessions/login", token, LoginRequest{Email: " AMINA@class.ma "})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		decode(t, rec, &resp)
		require.NotNil(t, resp.Identity)
		assert.Equal(t, stu.ID, resp.Identity.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := do(t, http.MethodPost, "/v1/sessions/login", openSession(t, "").Token, LoginRequest{Email: "nobody@class.ma"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var got httpErr
		decode(t, rec, &got)
		assert.Equal(t, "no account with this email", got.Error)
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := do(t, http.MethodPost, "/v1/sessions/login", openSession(t, "").Token, LoginRequest{Email: "nope"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate email is a notice", func(t *testing.T) {
		rec := do(t, http.MethodPost, "/v1/sessions/register", openSession(t, "").Token,
			identity.NewIdentity{Name: "Other", Email: "amina@class.ma"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		var got struct {
			Error  string `json:"error"`
			Notice bool   `json:"notice"`
		}
		decode(t, rec, &got)
		assert.True(t, got.Notice)
		assert.NotEmpty(t, got.Error)
	})
}

func TestDocumentHeaders(t *testing.T) {
	token := openSession(t, "").Token

	rec := do(t, http.MethodGet, "/v1/sessions/me", token, nil)
	assert.Equal(t, "fr", rec.Header().Get("Content-Language"))
	assert.Equal(t, "ltr", rec.Header().Get("X-Document-Dir"))

	rec = do(t, http.MethodPut, "/v1/sessions/language", token, LanguageRequest{Language: i18n.Arabic})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ar", rec.Header().Get("Content-Language"))
	assert.Equal(t, "rtl", rec.Header().Get("X-Document-Dir"))

	rec = do(t, http.MethodPut, "/v1/sessions/language", token, LanguageRequest{Language: "de"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ar", rec.Header().Get("Content-Language"))
}

func TestToggleNav(t *testing.T) {
	token := openSession(t, "").Token

	var got struct {
		NavOpen bool `json:"navOpen"`
	}
	decode(t, do(t, http.MethodPost, "/v1/sessions/nav", token, nil), &got)
	assert.True(t, got.NavOpen)
	decode(t, do(t, http.MethodPost, "/v1/sessions/nav", token, nil), &got)
	assert.False(t, got.NavOpen)
}

package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/session"
)

const (
	contextTokenKey   = "sessionToken"
	contextSessionKey = "session"
)

// Claims represents the authorization claims transmitted via a JWT.
// Id is the session id and Subject the client id.
type Claims struct {
	jwt.StandardClaims
	Language string `json:"lang,omitempty"`
}

func (s *Server) jwtConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(s.conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

func (s *Server) sessionClaims(sess *session.Session) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        sess.ID(),
			Issuer:    s.conf.AppName,
			Subject:   sess.ClientID(),
			ExpiresAt: now.Add(s.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Language: string(sess.Store().Language()),
	}
}

// GenerateToken generates a signed JWT token string representing the session Claims.
func (s *Server) GenerateToken(sess *session.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, s.sessionClaims(sess))
	ss, err := token.SignedString([]byte(s.conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextSession(ctx echo.Context) (*session.Session, error) {
	if sess, ok := ctx.Get(contextSessionKey).(*session.Session); ok {
		return sess, nil
	}
	return nil, errors.Wrap(core.ErrUnauthenticated, "session not found in echo.Context")
}

// sessionMiddleware loads the session named by the token. Expired sessions are rejected.
func (s *Server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return err
		}
		sess, ok := s.sessions.Get(claims.Id)
		if !ok {
			return errSessionExpired
		}
		ctx.Set(contextSessionKey, sess)
		return next(ctx)
	}
}

package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"washpos/internal/database"
	"washpos/internal/model"
	"washpos/internal/poserror"
)

type (
	// A Manager manages sessions.
	Manager interface {
		// SigningKey returns the key used to sign access tokens.
		SigningKey() []byte
		// Generate creates a new session record without user information.
		Generate(userAgent string) *model.Session
		// AccessToken issues a signed access token for the session's user.
		// The returned expiry is in epoch seconds.
		AccessToken(session *model.Session, user *model.User) (token string, expiresAt int64, err error)
		// Validate verifies an access token and returns its session and user.
		Validate(token string) (*model.Session, *model.User, error)
		// Regenerate rotates the session's refresh token.
		Regenerate(session *model.Session) error
	}

	// Claims are the access token claims.
	Claims struct {
		jwt.RegisteredClaims
		SessionID string `json:"sid"`
		Email     string `json:"email"`
		Role      string `json:"role"`
	}

	manager struct {
		db         database.Client
		signingKey []byte
		// Session params
		accessTokenExpirationTime  time.Duration
		refreshTokenExpirationTime time.Duration
	}
)

// NewManager returns a new manager.
func NewManager(db database.Client, signingKey []byte, accessTokenExpirationTime, refreshTokenExpirationTime time.Duration) Manager {
	return &manager{
		db:                         db,
		signingKey:                 signingKey,
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
	}
}

func (m *manager) SigningKey() []byte {
	return m.signingKey
}

func (m *manager) Generate(userAgent string) *model.Session {
	return &model.Session{
		ExpireAt:     time.Now().Add(m.refreshTokenExpirationTime).UTC(),
		UserAgent:    userAgent,
		RefreshToken: SecureToken(24),
	}
}

func (m *manager) AccessToken(session *model.Session, user *model.User) (string, int64, error) {
	expiresAt := time.Now().Add(m.accessTokenExpirationTime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: session.ID,
		Email:     user.Email,
		Role:      user.Role,
	})

	signed, err := token.SignedString(m.signingKey)
	return signed, expiresAt.Unix(), errors.Wrap(err, "could not sign access token")
}

func (m *manager) Validate(token string) (*model.Session, *model.User, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %s", t.Header["alg"])
		}
		return m.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, nil, poserror.NewWithTagCode(
				http.StatusUnauthorized,
				"expired-access-token",
				"The provided access token has expired.",
			)
		}
		return nil, nil, poserror.NewWithTagCode(
			http.StatusUnauthorized,
			"invalid-auth",
			"Invalid login credentials.",
		)
	}

	// The session record is the revocation handle: a signed-out session
	// invalidates its tokens before their nominal expiry.
	session, err := m.db.FindSession(claims.SessionID)
	if err != nil {
		if m.db.IsNotFound(err) {
			return nil, nil, poserror.NewWithTagCode(
				http.StatusUnauthorized,
				"invalid-auth",
				"Invalid login credentials.",
			)
		}
		return nil, nil, errors.Wrap(err, "could not get access to database")
	}

	if m.isSessionExpired(session) {
		return nil, nil, poserror.NewWithTagCode(http.StatusUnauthorized, "invalid-auth", "Invalid login credentials.")
	}

	user, err := m.db.FindUser(claims.Subject)
	if err != nil {
		if m.db.IsNotFound(err) {
			return nil, nil, poserror.NewWithTagCode(
				http.StatusUnauthorized,
				"invalid-auth",
				"Invalid login credentials.",
			)
		}
		return nil, nil, errors.Wrap(err, "could not get access to database")
	}

	// A password change revokes every token issued before it.
	if claims.IssuedAt != nil && claims.IssuedAt.Unix() < user.PasswordUpdatedAt {
		return nil, nil, poserror.NewWithTagCode(http.StatusUnauthorized, "invalid-auth", "Revoked token.")
	}

	return session, user, nil
}

func (m *manager) Regenerate(session *model.Session) error {
	if m.isSessionExpired(session) {
		return poserror.NewWithTagCode(
			http.StatusBadRequest,
			"expired-refresh-token",
			"The refresh token has expired.",
		)
	}

	session.RefreshToken = SecureToken(24)
	session.ExpireAt = time.Now().Add(m.refreshTokenExpirationTime).UTC()

	return errors.Wrap(m.db.Save(session), "could not save session after refreshing session")
}

func (m *manager) isSessionExpired(session *model.Session) bool {
	return session.ExpireAt.Before(time.Now())
}

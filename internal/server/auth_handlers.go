package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	argon2 "github.com/mdouchement/simple-argon2"
	"github.com/pkg/errors"

	"washpos/internal/database"
	"washpos/internal/model"
	"washpos/internal/poserror"
	"washpos/internal/server/serializer"
	"washpos/internal/server/session"
)

// auth contains all authentication handlers.
type auth struct {
	db       database.Client
	sessions session.Manager
}

type (
	registerParams struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
		Role        string `json:"role"`
	}

	tokenParams struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		RefreshToken string `json:"refresh_token"`
	}
)

// Register creates a staff account.
func (h *auth) Register(c echo.Context) error {
	var params registerParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, poserror.New("Could not get user's params."))
	}

	if params.Email == "" {
		return c.JSON(http.StatusBadRequest, poserror.New("No email provided."))
	}
	if params.Password == "" {
		return c.JSON(http.StatusBadRequest, poserror.New("No password provided."))
	}

	if _, err := h.db.FindUserByMail(params.Email); err == nil {
		return c.JSON(http.StatusUnauthorized, poserror.NewWithTagCode(
			http.StatusUnauthorized,
			"email-taken",
			"This email is already registered.",
		))
	} else if !h.db.IsNotFound(err) {
		return errors.Wrap(err, "could not get access to database")
	}

	user := model.NewUser()
	user.Email = params.Email
	user.DisplayName = params.DisplayName
	if params.Role != "" {
		user.Role = params.Role
	}

	var err error
	user.Password, err = argon2.GenerateFromPasswordString(params.Password, argon2.Default)
	if err != nil {
		return errors.Wrap(err, "could not store user's password safe")
	}

	if err = h.db.Save(user); err != nil {
		return errors.Wrap(err, "could not persist user")
	}

	return h.grant(c, user)
}

// Token exchanges credentials or a refresh token for a new token pair.
func (h *auth) Token(c echo.Context) error {
	var params tokenParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, poserror.New("Could not get credentials."))
	}

	switch c.QueryParam("grant_type") {
	case "password":
		return h.password(c, params)
	case "refresh_token":
		return h.refresh(c, params)
	}

	return c.JSON(http.StatusBadRequest, poserror.NewWithTagCode(
		http.StatusBadRequest,
		"unsupported-grant-type",
		"Unsupported grant type.",
	))
}

// Logout revokes the current session.
func (h *auth) Logout(c echo.Context) error {
	if err := h.db.Delete(currentSession(c)); err != nil {
		return errors.Wrap(err, "could not revoke session")
	}
	return c.NoContent(http.StatusNoContent)
}

// User renders the current user.
func (h *auth) User(c echo.Context) error {
	return c.JSON(http.StatusOK, serializer.User(currentUser(c)))
}

func (h *auth) password(c echo.Context, params tokenParams) error {
	if params.Email == "" || params.Password == "" {
		return c.JSON(http.StatusBadRequest, poserror.New("No email or password provided."))
	}

	user, err := h.db.FindUserByMail(params.Email)
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusUnauthorized, poserror.NewWithTagCode(
				http.StatusUnauthorized,
				"invalid-auth",
				"Invalid login credentials.",
			))
		}
		return errors.Wrap(err, "could not get access to database")
	}

	if err = argon2.CompareHashAndPasswordString(user.Password, params.Password); err != nil {
		if err == argon2.ErrMismatchedHashAndPassword {
			return c.JSON(http.StatusUnauthorized, poserror.NewWithTagCode(
				http.StatusUnauthorized,
				"invalid-auth",
				"Invalid login credentials.",
			))
		}
		return errors.Wrap(err, "could not validate user's password")
	}

	return h.grant(c, user)
}

func (h *auth) refresh(c echo.Context, params tokenParams) error {
	if params.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, poserror.New("Please provide all required parameters."))
	}

	session, err := h.db.FindSessionByRefreshToken(params.RefreshToken)
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusBadRequest, poserror.NewWithTagCode(
				http.StatusBadRequest,
				"invalid-refresh-token",
				"The provided refresh token is not valid.",
			))
		}
		return errors.Wrap(err, "could not get access to database")
	}

	if err = h.sessions.Regenerate(session); err != nil {
		return err
	}

	user, err := h.db.FindUser(session.UserID)
	if err != nil {
		return errors.Wrap(err, "could not find session's user")
	}

	access, expiresAt, err := h.sessions.AccessToken(session, user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Token(access, expiresAt, session, user))
}

// grant opens a new session for the user and renders the token pair.
func (h *auth) grant(c echo.Context, user *model.User) error {
	session := h.sessions.Generate(c.Request().UserAgent())
	session.UserID = user.ID
	if err := h.db.Save(session); err != nil {
		return errors.Wrap(err, "could not persist session")
	}

	access, expiresAt, err := h.sessions.AccessToken(session, user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Token(access, expiresAt, session, user))
}

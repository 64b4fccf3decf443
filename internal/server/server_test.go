package server_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/appleboy/gofight/v2"
	"github.com/labstack/echo/v4"
	argon2 "github.com/mdouchement/simple-argon2"
	"github.com/stretchr/testify/assert"

	"washpos/internal/database"
	"washpos/internal/model"
	"washpos/internal/server"
	sessionpkg "washpos/internal/server/session"
)

func TestRequestHome(t *testing.T) {
	engine, _, _, cleanup := setup()
	defer cleanup()

	// The "/" rewrite matches on the request URI, which only server-style
	// requests carry.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"test"}`, rec.Body.String())
}

func TestRequestVersion(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.GET("/version").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `{"version":"test"}`, r.Body.String())
	})
}

func TestRequestAPIKey(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "washpos.*.db")
	if err != nil {
		panic(err)
	}
	filename := tmpfile.Name()
	tmpfile.Close()
	defer os.RemoveAll(filename)

	db, err := database.StormOpen(filename)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	engine := server.EchoEngine(server.IOC{
		Version:                    "test",
		Database:                   db,
		APIKey:                     "apikey-test",
		SigningKey:                 []byte("secret"),
		AccessTokenExpirationTime:  time.Hour,
		RefreshTokenExpirationTime: 24 * time.Hour,
	})
	r := gofight.New()

	r.POST("/auth/v1/token?grant_type=password").
		SetJSON(gofight.D{"email": "nobody@nowhere.lan", "password": "nope"}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusUnauthorized, r.Code)
			assert.JSONEq(t, `{"error":{"tag":"invalid-apikey", "message":"Invalid API key."}}`, r.Body.String())
		})

	r.POST("/auth/v1/token?grant_type=password").
		SetHeader(gofight.H{"apikey": "apikey-test"}).
		SetJSON(gofight.D{"email": "nobody@nowhere.lan", "password": "nope"}).
		Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusUnauthorized, r.Code)
			assert.JSONEq(t, `{"error":{"tag":"invalid-auth", "message":"Invalid login credentials."}}`, r.Body.String())
		})
}

func setup() (engine *echo.Echo, ioc server.IOC, r *gofight.RequestConfig, cleanup func()) {
	tmpfile, err := os.CreateTemp("", "washpos.*.db")
	if err != nil {
		panic(err)
	}
	filename := tmpfile.Name()
	tmpfile.Close()

	db, err := database.StormOpen(filename)
	if err != nil {
		panic(err)
	}

	ioc = server.IOC{
		Version:                    "test",
		Database:                   db,
		NoRegistration:             false,
		SigningKey:                 []byte("secret"),
		AccessTokenExpirationTime:  time.Hour,
		RefreshTokenExpirationTime: 24 * time.Hour,
	}
	engine = server.EchoEngine(ioc)

	return engine, ioc, gofight.New(), func() {
		db.Close()
		os.RemoveAll(filename)
	}
}

func createUser(ioc server.IOC) *model.User {
	user := model.NewUser()
	user.Email = "george.abitbol@laundry.lan"
	user.DisplayName = "George"
	user.Role = model.RoleOwner

	password, err := argon2.GenerateFromPasswordString("password42", argon2.Default)
	if err != nil {
		panic(err)
	}
	user.Password = password

	if err := ioc.Database.Save(user); err != nil {
		panic(err)
	}
	return user
}

func createUserWithSession(ioc server.IOC) (*model.User, *model.Session, string) {
	user := createUser(ioc)

	sessions := sessionpkg.NewManager(ioc.Database, ioc.SigningKey,
		ioc.AccessTokenExpirationTime, ioc.RefreshTokenExpirationTime)

	session := sessions.Generate("Go-http-client/1.1")
	session.UserID = user.ID
	if err := ioc.Database.Save(session); err != nil {
		panic(err)
	}

	access, _, err := sessions.AccessToken(session, user)
	if err != nil {
		panic(err)
	}
	return user, session, access
}

func createStore(ioc server.IOC, name string) *model.Store {
	store := &model.Store{Name: name, Address: "12 Main Street"}
	if err := ioc.Database.Save(store); err != nil {
		panic(err)
	}
	return store
}

package server

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"washpos/internal/database"
	"washpos/internal/model"
	"washpos/internal/server/middlewares"
	"washpos/internal/server/session"
)

// An IOC is an Inversion Of Control pattern used to init the server package.
type IOC struct {
	Version        string
	Database       database.Client
	NoRegistration bool
	APIKey         string
	SigningKey     []byte
	// Session params
	AccessTokenExpirationTime  time.Duration
	RefreshTokenExpirationTime time.Duration
}

// EchoEngine instantiates the web server.
func EchoEngine(ctrl IOC) *echo.Echo {
	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.Gzip())

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler

	engine.Pre(middleware.Rewrite(map[string]string{
		"/": "/version",
	}))

	////////////
	// Router //
	////////////

	sessions := session.NewManager(
		ctrl.Database,
		ctrl.SigningKey,
		ctrl.AccessTokenExpirationTime,
		ctrl.RefreshTokenExpirationTime,
	)

	// generic handlers
	//
	engine.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	router := engine.Group("")
	if ctrl.APIKey != "" {
		router.Use(middlewares.APIKey(ctrl.APIKey))
	}
	restricted := router.Group("")
	restricted.Use(middlewares.Session(sessions))

	//
	// auth handlers
	//
	auth := &auth{
		db:       ctrl.Database,
		sessions: sessions,
	}
	if !ctrl.NoRegistration {
		router.POST("/auth/v1/signup", auth.Register)
	}
	router.POST("/auth/v1/token", auth.Token)
	restricted.POST("/auth/v1/logout", auth.Logout)
	restricted.GET("/auth/v1/user", auth.User)

	//
	// rest handlers
	//
	store := &store{db: ctrl.Database}
	restricted.GET("/rest/v1/stores", store.List)

	inventory := &inventory{db: ctrl.Database}
	restricted.GET("/rest/v1/inventory", inventory.List)
	restricted.POST("/rest/v1/inventory", inventory.Create)
	restricted.PATCH("/rest/v1/inventory/:id", inventory.Update)
	restricted.DELETE("/rest/v1/inventory/:id", inventory.Delete)

	catalog := &catalog{db: ctrl.Database}
	restricted.GET("/rest/v1/services", catalog.ListServices)
	restricted.POST("/rest/v1/services", catalog.CreateService)
	restricted.PATCH("/rest/v1/services/:id", catalog.UpdateService)
	restricted.DELETE("/rest/v1/services/:id", catalog.DeleteService)
	restricted.GET("/rest/v1/payment_methods", catalog.ListPaymentMethods)
	restricted.POST("/rest/v1/payment_methods", catalog.CreatePaymentMethod)
	restricted.PATCH("/rest/v1/payment_methods/:id", catalog.UpdatePaymentMethod)
	restricted.DELETE("/rest/v1/payment_methods/:id", catalog.DeletePaymentMethod)

	order := &order{db: ctrl.Database}
	restricted.GET("/rest/v1/orders", order.List)
	restricted.GET("/rest/v1/orders/reference/:reference", order.ByReference)
	restricted.GET("/rest/v1/metrics/dashboard", order.DashboardMetrics)

	return engine
}

// PrintRoutes prints the Echo engine exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}

func currentUser(c echo.Context) *model.User {
	user, ok := c.Get(middlewares.CurrentUserContextKey).(*model.User)
	if ok {
		return user
	}
	return nil
}

func currentSession(c echo.Context) *model.Session {
	session, ok := c.Get(middlewares.CurrentSessionContextKey).(*model.Session)
	if ok {
		return session
	}
	return nil
}

// Package server assembles the gin engine from the module handlers.
package server

import (
	"net/http"
	"strings"

	"shugly/internal/domain"
	"shugly/internal/middleware"
	"shugly/internal/modules/admin"
	"shugly/internal/modules/auth"
	"shugly/internal/modules/booking"
	"shugly/internal/modules/catalog"
	"shugly/internal/modules/chat"
	"shugly/internal/modules/review"
	"shugly/internal/modules/worker"
	"shugly/internal/pkg/response"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// Handlers groups every module handler mounted by NewRouter.
type Handlers struct {
	Auth    *auth.Handler
	Worker  *worker.Handler
	Booking *booking.Handler
	Review  *review.Handler
	Chat    *chat.Handler
	Admin   *admin.Handler
	Catalog *catalog.Handler
}

type Options struct {
	AllowedOrigins []string
	Sessions       middleware.SessionResolver

	// UploadsDir is served under UploadsPath when images are stored on local disk.
	UploadsDir  string
	UploadsPath string
}

func NewRouter(opts Options, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(
		sentrygin.New(sentrygin.Options{Repanic: true}),
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.CORS(opts.AllowedOrigins),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": "shugly", "status": "ok"})
	})
	if opts.UploadsDir != "" && opts.UploadsPath != "" {
		r.Static(opts.UploadsPath, opts.UploadsDir)
	}

	v1 := r.Group("/api/v1")

	// public
	h.Auth.RegisterPublicRoutes(v1)
	h.Worker.RegisterPublicRoutes(v1)
	h.Review.RegisterPublicRoutes(v1)
	h.Catalog.RegisterRoutes(v1)
	h.Chat.RegisterSocketRoute(v1)

	authed := v1.Group("")
	authed.Use(middleware.Authenticate(opts.Sessions))
	h.Auth.RegisterSessionRoutes(authed)

	members := authed.Group("")
	members.Use(middleware.RequireRole(domain.RoleCustomer, domain.RoleWorker))
	h.Auth.RegisterProfileRoutes(members)
	h.Booking.RegisterMemberRoutes(members)
	h.Chat.RegisterMemberRoutes(members)

	customers := authed.Group("")
	customers.Use(middleware.RequireRole(domain.RoleCustomer))
	h.Booking.RegisterCustomerRoutes(customers)
	h.Review.RegisterCustomerRoutes(customers)

	workers := authed.Group("")
	workers.Use(middleware.RequireRole(domain.RoleWorker))
	h.Worker.RegisterWorkerRoutes(workers)
	h.Booking.RegisterWorkerRoutes(workers)

	admins := authed.Group("")
	admins.Use(middleware.AdminOnly())
	h.Admin.RegisterRoutes(admins)

	r.NoRoute(noRoute)
	return r
}

// noRoute answers unknown API paths with JSON and sends every other path to the landing page.
func noRoute(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/undangan-builder/internal/config"
	"github.com/iliyamo/undangan-builder/internal/handler"
	"github.com/iliyamo/undangan-builder/internal/metrics"
	"github.com/iliyamo/undangan-builder/internal/middleware"
	"github.com/iliyamo/undangan-builder/internal/policy"
	"github.com/iliyamo/undangan-builder/internal/queue"
	"github.com/iliyamo/undangan-builder/internal/repository"
	"github.com/iliyamo/undangan-builder/internal/storage"
)

// Deps is everything the routes are built from.  Redis may be nil, which
// turns the response cache and the rate limiter into pass-throughs.
type Deps struct {
	Cfg       config.Config
	DB        *sql.DB
	Log       *zap.Logger
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Store     storage.Store
	Bus       queue.Publisher
}

// New builds the echo instance: validator, error handler, global middleware
// and every route.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log, !d.Cfg.IsProd())

	// RequestLog sits outside Recover so recovered panics are logged with
	// their final status.
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLog(d.Log))
	e.Use(echomw.Recover())
	e.Use(middleware.Identify(d.Cfg.JWTSecret))
	e.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log))

	if d.Bus == nil {
		d.Bus = queue.Nop{}
	}
	uploads := handler.Uploads{Store: d.Store, ImageMaxKB: d.Cfg.ImageMaxKB, TemplateMaxKB: d.Cfg.TemplateMaxKB}

	invitations := repository.NewInvitationRepo(d.DB)
	reads := policy.ReadOwner
	if d.Cfg.ChildReadsPublic {
		reads = policy.ReadPublic
	}
	authz := policy.NewAuthorizer(invitations, reads)

	events := repository.NewEventRepo(d.DB)
	stories := repository.NewStoryRepo(d.DB)
	gallery := repository.NewGalleryRepo(d.DB)
	accounts := repository.NewBankAccountRepo(d.DB)
	templates := repository.NewTemplateRepo(d.DB)

	RegisterRoutes(e, d)
	RegisterAuth(e, handler.NewAuthHandler(d.Cfg, repository.NewUserRepo(d.DB), repository.NewTokenRepo(d.DB), d.Log), d.Cfg.JWTSecret)
	RegisterInvitations(e, &handler.InvitationHandler{
		Invitations:  invitations,
		Templates:    templates,
		Events:       events,
		Stories:      stories,
		Gallery:      gallery,
		BankAccounts: accounts,
		Policy:       authz,
		Bus:          d.Bus,
		Log:          d.Log,
	}, d.Cfg.JWTSecret)
	RegisterContent(e, &handler.ContentHandler{
		Events:       events,
		Stories:      stories,
		Gallery:      gallery,
		BankAccounts: accounts,
		Policy:       authz,
		Uploads:      uploads,
	}, d.Cfg.JWTSecret)

	cache := middleware.NewResponseCache(d.Cache, d.Redis, d.Log)
	RegisterTemplates(e, &handler.TemplateHandler{
		Templates: templates,
		Saved:     repository.NewSavedTemplateRepo(d.DB),
		Uploads:   uploads,
		Bus:       d.Bus,
		Log:       d.Log,
	}, d.Cfg.JWTSecret, cache)
	RegisterBanks(e, &handler.BankHandler{Banks: repository.NewBankRepo(d.DB), Uploads: uploads}, d.Cfg.JWTSecret, cache)
	return e
}

// RegisterRoutes registers health, metrics and the public storage files.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health(d.DB))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.Static(d.Cfg.StorageURLPrefix, d.Cfg.StorageRoot)
}

// RegisterAuth registers the auth endpoints.  Only logout and the current
// user need a token.
//
// Routes are mounted at the root, so middleware is attached per route: a
// root Group with middleware would also capture every unmatched path.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)

	e.POST("/register", a.Register)
	e.POST("/login", a.Login)
	e.POST("/admin-login", a.AdminLogin)
	e.POST("/refresh", a.Refresh)
	e.POST("/logout", a.Logout, auth)
	e.GET("/user", a.Me, auth)
}

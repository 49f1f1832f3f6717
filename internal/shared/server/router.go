package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

const (
	rateGroupAuth    = "AUTH"
	rateGroupUpload  = "UPLOAD"
	rateGroupDefault = "DEFAULT"
)

// RouteRegistrar mounts a feature's routes under /api.
type RouteRegistrar func(api *gin.RouterGroup, policy middleware.Policy)

// RouterDeps carries what the router needs from the composition root.
type RouterDeps struct {
	Config config.Config
	// Authn verifies bearer tokens.
	Authn middleware.Authenticator
	// ActiveBackend names the store serving requests, for request logs.
	ActiveBackend func() string
	Health        gin.HandlerFunc
	Routes        []RouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.IsDevLike() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	mw := []gin.HandlerFunc{
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.BodyLimit(cfg.MaxBodyBytes),
	}
	if deps.ActiveBackend != nil {
		mw = append(mw, middleware.StorageBackend(deps.ActiveBackend))
	}
	mw = append(mw, middleware.Auth(deps.Authn))
	if cfg.RateLimitEnabled {
		mw = append(mw, middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				rateGroupAuth:    {Rate: 1, Burst: 10},
				rateGroupUpload:  {Rate: 0.5, Burst: 10},
				rateGroupDefault: {Rate: 20, Burst: 60},
			},
			DefaultGroup: rateGroupDefault,
			GroupFor:     rateGroup,
		}))
	}
	r.Use(mw...)

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "Route not found", nil)
	})

	api := r.Group("/api")
	if deps.Health != nil {
		api.GET("/health", deps.Health)
	}
	api.GET("/metrics", metrics.Handler())

	policy := middleware.Policy{RequireAuth: cfg.RequireAuth}
	for _, register := range deps.Routes {
		register(api, policy)
	}
	return r
}

func rateGroup(c *gin.Context) string {
	path := c.Request.URL.Path
	switch {
	case c.Request.Method != http.MethodPost:
		return rateGroupDefault
	case path == "/api/register" || path == "/api/login":
		return rateGroupAuth
	case strings.HasPrefix(path, "/api/upload/"):
		return rateGroupUpload
	default:
		return rateGroupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

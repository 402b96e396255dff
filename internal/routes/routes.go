package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/auth"
	"petshop_back_end/internal/cache"
	"petshop_back_end/internal/handlers"
	"petshop_back_end/internal/metrics"
	"petshop_back_end/internal/middleware"
)

// Deps carries everything the router needs. Cache and Metrics may be nil.
type Deps struct {
	Log      *slog.Logger
	Metrics  *metrics.Registry
	Cache    *cache.Store
	Issuer   *auth.Issuer
	Prices   middleware.PriceLookup
	Accounts middleware.AccountChecker
	Health   map[string]handlers.Pinger
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Products *handlers.ProductHandler
	Orders   *handlers.OrderHandler

	StaticDir      string
	CORSOrigins    []string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// NewRouter builds the engine with the global middleware chain and every
// route registered.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.AccessLog(d.Log, observer(d.Metrics)),
		cors.New(corsConfig(d.CORSOrigins)),
		middleware.Timeout(d.RequestTimeout),
		middleware.BodyLimit(d.MaxBodyBytes),
	)
	RegisterRoutes(r, d)
	return r
}

// RegisterRoutes mounts the API, health and metrics endpoints and the
// static fallback on r.
func RegisterRoutes(r *gin.Engine, d Deps) {
	authRequired := middleware.AuthRequired(d.Issuer, d.Cache, d.Accounts)

	r.GET("/healthz", handlers.Health(d.Health))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	api := r.Group("/api")

	// Auth
	authGroup := api.Group("/auth")
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/cadastro", d.Auth.Register)
	authGroup.POST("/login", middleware.LoginRateLimit(d.Cache), d.Auth.Login)
	authGroup.POST("/logout", authRequired, d.Auth.Logout)

	// Users
	users := api.Group("/users", authRequired)
	users.GET("/me", d.Users.Me)
	users.PUT("/:id", d.Users.Update)
	users.DELETE("/:id", middleware.AuditCriticalActions("delete", "user", d.Log), d.Users.Delete)

	// Products
	products := api.Group("/products")
	products.GET("", d.Products.List)
	products.GET("/:id", d.Products.Get)
	admin := products.Group("", authRequired, middleware.RequireAdmin)
	admin.POST("", middleware.AuditCriticalActions("create", "product", d.Log), d.Products.Create)
	admin.PUT("/:id", middleware.AuditPriceChanges(d.Prices, d.Log), d.Products.Update)
	admin.DELETE("/:id", middleware.AuditCriticalActions("delete", "product", d.Log), d.Products.Delete)

	// Orders
	orders := api.Group("/orders", authRequired)
	orders.POST("", d.Orders.Create)
	orders.GET("/mine", d.Orders.Mine)
	orders.GET("/user", d.Orders.Mine)
	orders.GET("/:id", d.Orders.Get)

	r.NoRoute(handlers.NoRoute(d.StaticDir))
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.HeaderRequestID)
	cfg.ExposeHeaders = []string{middleware.HeaderRequestID}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// observer avoids handing AccessLog a typed nil.
func observer(m *metrics.Registry) middleware.RequestObserver {
	if m == nil {
		return nil
	}
	return m
}

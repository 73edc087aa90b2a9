package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/example/bitebuddy/pkg/config"
	"github.com/example/bitebuddy/pkg/metrics"
	"github.com/example/bitebuddy/pkg/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

func init() {
	// Prices and totals are rendered as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Services bundles the business components the handlers call.
type Services struct {
	Accounts *service.Accounts
	Catalog  *service.Catalog
	Cart     *service.Cart
	Orders   *service.Orders
	Inbox    *service.Inbox
}

type Gateway struct {
	config   *config.Config
	services Services
	metrics  *metrics.Metrics
	logger   *zap.Logger
	router   *gin.Engine
	server   *http.Server
}

func NewGateway(cfg *config.Config, logger *zap.Logger, services Services, m *metrics.Metrics) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))
	router.Use(m.Middleware())

	return &Gateway{
		config:   cfg,
		services: services,
		metrics:  m,
		logger:   logger,
		router:   router,
	}
}

func (g *Gateway) SetupRoutes() {
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	g.router.GET("/metrics", gin.WrapH(g.metrics.Handler()))

	g.router.POST("/login", g.login)
	g.router.POST("/register", g.register)
	g.router.POST("/logout", g.logout)
	g.router.GET("/logout", g.logout)

	api := g.router.Group("/api", g.requireSession())
	{
		api.GET("/dashboard", g.dashboard)

		api.GET("/services", g.listServices)
		api.GET("/service/:id", g.getService)
		api.GET("/menu", g.listMenu)

		api.GET("/cart", g.listCart)
		api.POST("/cart", g.updateCart)
		api.DELETE("/cart", g.removeFromCart)

		api.POST("/order", g.placeOrder)
		api.GET("/orders", g.listOrders)
		api.GET("/orders/:id", g.getOrder)

		api.POST("/get-location", g.getLocation)

		api.GET("/messages", g.listMessages)
		api.POST("/messages/read", g.markMessagesRead)
	}

	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// Handler exposes the router, mainly for httptest.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

func (g *Gateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Gateway.Host, g.config.Gateway.Port)
	g.server = &http.Server{
		Addr:              addr,
		Handler:           g.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.logger.Info("Gateway starting", zap.String("address", addr))

	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	return g.server.Shutdown(ctx)
}

func (g *Gateway) sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(g.config.Session.CookieName); err == nil && token != "" {
		return token
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

func (g *Gateway) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := g.services.Accounts.Authenticate(c.Request.Context(), g.sessionToken(c))
		if err != nil {
			g.fail(c, err)
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}

// fail renders err. Expected business failures keep HTTP 200 and carry a
// redirect hint where the client should switch between login and register.
func (g *Gateway) fail(c *gin.Context, err error) {
	body := gin.H{"success": false, "message": service.Message(err)}

	status := http.StatusOK
	switch {
	case errors.Is(err, service.ErrUnknownAccount):
		body["redirect_to_register"] = true
	case errors.Is(err, service.ErrDuplicateMobile), errors.Is(err, service.ErrDuplicateEmail):
		body["redirect_to_login"] = true
	case errors.Is(err, service.ErrUnauthenticated):
		status = http.StatusUnauthorized
		body["redirect_to_login"] = true
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrMissingAddress),
		errors.Is(err, service.ErrUnsupportedPayment),
		errors.Is(err, service.ErrEmptyCart):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidCredential):
	default:
		status = http.StatusInternalServerError
		g.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		c.Next()

		logger.Info("HTTP request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Uint("user_id", c.GetUint(userIDKey)),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

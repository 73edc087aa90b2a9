package gateway

import (
	"errors"
	"net/http"

	"github.com/example/bitebuddy/pkg/models"
	"github.com/example/bitebuddy/pkg/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (g *Gateway) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	session, err := g.services.Accounts.Login(c.Request.Context(), req.Mobile, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnknownAccount) {
			g.metrics.Login("unknown_account")
			c.JSON(http.StatusOK, gin.H{
				"success":              false,
				"message":              service.Message(err),
				"redirect_to_register": true,
				"mobile":               req.Mobile,
			})
			return
		}
		if errors.Is(err, service.ErrInvalidCredential) {
			g.metrics.Login("invalid_credential")
		}
		g.fail(c, err)
		return
	}

	g.metrics.Login("success")
	g.startSession(c, session)
}

func (g *Gateway) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	session, err := g.services.Accounts.Register(c.Request.Context(), req.toService())
	if err != nil {
		g.fail(c, err)
		return
	}

	g.metrics.Registered()
	g.startSession(c, session)
}

func (g *Gateway) startSession(c *gin.Context, session *models.Session) {
	maxAge := int(g.config.Session.TTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(g.config.Session.CookieName, session.Token, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   session.Token,
		"user":    session.User,
	})
}

func (g *Gateway) logout(c *gin.Context) {
	if err := g.services.Accounts.Logout(c.Request.Context(), g.sessionToken(c)); err != nil {
		g.logger.Warn("Logout failed", zap.Error(err))
	}
	c.SetCookie(g.config.Session.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *Gateway) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUser(c)

	user, err := g.services.Accounts.User(ctx, userID)
	if err != nil {
		g.fail(c, err)
		return
	}
	services, err := g.services.Catalog.ListAvailableServices(ctx)
	if err != nil {
		g.fail(c, err)
		return
	}
	menu, err := g.services.Catalog.ListMenu(ctx)
	if err != nil {
		g.fail(c, err)
		return
	}
	orders, err := g.services.Orders.ListOrders(ctx, userID)
	if err != nil {
		g.fail(c, err)
		return
	}
	messages, err := g.services.Inbox.ListRecent(ctx, userID, 5)
	if err != nil {
		g.fail(c, err)
		return
	}
	unread, err := g.services.Inbox.UnreadCount(ctx, userID)
	if err != nil {
		g.fail(c, err)
		return
	}
	cart, err := g.services.Cart.Summary(ctx, userID)
	if err != nil {
		g.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"user":         user,
		"services":     services,
		"menu_items":   menu,
		"orders":       orders,
		"messages":     toMessageResponses(messages),
		"unread_count": unread,
		"cart_items":   cart.Lines,
		"cart_count":   cart.Count,
		"cart_total":   cart.Total,
	})
}

// getLocation is a stub until a geolocation provider is wired in.
func (g *Gateway) getLocation(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"location": "Current Location Detected",
	})
}

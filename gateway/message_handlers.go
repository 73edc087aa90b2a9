package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listMessages returns the inbox as it was when opened, then marks it read.
func (g *Gateway) listMessages(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUser(c)

	messages, err := g.services.Inbox.List(ctx, userID)
	if err != nil {
		g.fail(c, err)
		return
	}
	if _, err := g.services.Inbox.MarkAllRead(ctx, userID); err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toMessageResponses(messages))
}

func (g *Gateway) markMessagesRead(c *gin.Context) {
	changed, err := g.services.Inbox.MarkAllRead(c.Request.Context(), currentUser(c))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "marked": changed})
}

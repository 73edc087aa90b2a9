package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (g *Gateway) listCart(c *gin.Context) {
	lines, err := g.services.Cart.List(c.Request.Context(), currentUser(c))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

// updateCart handles both "add" (one more unit) and "update" (set quantity).
func (g *Gateway) updateCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "item_id and item_type are required")
		return
	}
	if req.Action == "" {
		req.Action = cartActionAdd
	}

	ctx := c.Request.Context()
	userID := currentUser(c)

	var err error
	switch req.Action {
	case cartActionAdd:
		err = g.services.Cart.Add(ctx, userID, req.ItemID, req.ItemType)
	case cartActionUpdate:
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		err = g.services.Cart.SetQuantity(ctx, userID, req.ItemID, req.ItemType, quantity)
	default:
		badRequest(c, "Unknown cart action")
		return
	}
	if err != nil {
		g.fail(c, err)
		return
	}

	g.metrics.CartMutated(req.Action)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *Gateway) removeFromCart(c *gin.Context) {
	var q cartQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid item_id")
		return
	}

	if err := g.services.Cart.Remove(c.Request.Context(), currentUser(c), q.ItemID, q.ItemType); err != nil {
		g.fail(c, err)
		return
	}

	g.metrics.CartMutated("remove")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

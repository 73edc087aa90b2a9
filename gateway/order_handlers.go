package gateway

import (
	"net/http"
	"strconv"

	"github.com/example/bitebuddy/pkg/service"
	"github.com/gin-gonic/gin"
)

func (g *Gateway) placeOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	order, err := g.services.Orders.PlaceOrder(c.Request.Context(), currentUser(c), service.PlaceOrderRequest{
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		g.fail(c, err)
		return
	}

	g.metrics.OrderPlaced(order.TotalAmount.InexactFloat64())
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
	})
}

func (g *Gateway) listOrders(c *gin.Context) {
	orders, err := g.services.Orders.ListOrders(c.Request.Context(), currentUser(c))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (g *Gateway) getOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	order, err := g.services.Orders.GetOrder(c.Request.Context(), currentUser(c), uint(id))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

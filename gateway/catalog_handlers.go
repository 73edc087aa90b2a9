package gateway

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (g *Gateway) listServices(c *gin.Context) {
	services, err := g.services.Catalog.ListAvailableServices(c.Request.Context())
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "services": services})
}

func (g *Gateway) listMenu(c *gin.Context) {
	menu, err := g.services.Catalog.ListMenu(c.Request.Context())
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "menu_items": menu})
}

func (g *Gateway) getService(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service not found"})
		return
	}

	detail, err := g.services.Catalog.GetService(c.Request.Context(), uint(id))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

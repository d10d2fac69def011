package handler

import (
	"net/http"

	"rpl-backend/internal/client/unitcatalog"
	"rpl-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalog *unitcatalog.Client
}

func NewCatalogHandler(catalog *unitcatalog.Client) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/uwa/:code", h.Lookup)
}

// Lookup proxies a unit-code lookup to the catalog scraper
// @Summary      Look up a UWA unit
// @Description  Proxies the handbook scraper for form autofill; upstream errors bubble through.
// @Tags         catalog
// @Produce      json
// @Param        code  path      string  true  "Unit code"
// @Success      200   {object}  map[string]interface{}
// @Failure      502   {object}  response.Response
// @Router       /api/uwa/{code} [get]
func (h *CatalogHandler) Lookup(c *gin.Context) {
	status, body, err := h.catalog.Proxy(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, "Proxy to catalog failed: "+err.Error()))
		return
	}
	c.Data(status, "application/json", body)
}

package handler

import (
	"net/http"

	"rpl-backend/internal/middleware"
	"rpl-backend/internal/service"
	"rpl-backend/pkg/apperr"
	"rpl-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/login", h.Login)
	router.POST("/api/logout", h.Logout)
	router.GET("/api/whoami", h.Whoami)
}

// Login authenticates a staff account
// @Summary      Staff login
// @Description  Authenticates studentservices or a unit-coordinator account (provisioned on first login for valid unit codes) and sets an HttpOnly token cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequestDTO  true  "Credentials"
// @Success      200      {object}  map[string]interface{}
// @Failure      401      {object}  response.Response
// @Router       /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		// Login failures are 401 rather than the usual 403 mapping.
		status := httpStatus(err)
		if apperr.IsKind(err, apperr.Forbidden) {
			status = http.StatusUnauthorized
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	middleware.SetTokenCookie(c, result.Token, req.Remember)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"view_unitcode": result.ViewUnitcode,
		"role":          result.Role,
	})
}

// Logout clears the session cookie
// @Summary      Staff logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Whoami reports the logged-in identity, if any
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/whoami [get]
func (h *AuthHandler) Whoami(c *gin.Context) {
	claims, ok := middleware.ParseClaims(c, middleware.GetJWTSecret())
	if !ok {
		c.JSON(http.StatusOK, gin.H{"username": nil, "view_unitcode": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username":      claims["sub"],
		"view_unitcode": claims["view_unitcode"],
	})
}

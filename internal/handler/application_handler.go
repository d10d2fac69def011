package handler

import (
	"net/http"

	"rpl-backend/internal/middleware"
	"rpl-backend/internal/model"
	"rpl-backend/internal/repository"
	"rpl-backend/internal/service"
	"rpl-backend/pkg/pagination"
	"rpl-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationService service.ApplicationService
}

func NewApplicationHandler(applicationService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ApplicationHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Applicants submit without an account
	router.POST("/api/submit", h.Submit)

	staff := middleware.RequireRole(model.RoleStudentServices, model.RoleUnitCoordinator)
	router.GET("/api/db", staff, h.ListApplications)
	app := router.Group("/api/application")
	{
		app.GET("/:id", staff, h.GetApplication)
		app.POST("/:id/comments", staff, h.PostComment)
		app.POST("/:id/assign-uc", middleware.RequireRole(model.RoleStudentServices), h.AssignUnitCoordinator)
		app.POST("/:id/unlink-supporting", staff, h.UnlinkSupporting)
	}
}

// Submit accepts a unit-equivalence request form
// @Summary      Submit a unit equivalence request
// @Description  Creates one application per requested unit pairing, auto-resolving against prior identical decided requests. Supersedes listed original applications when this is a revision.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitRequestDTO  true  "Submission"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  response.Response
// @Router       /api/submit [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req service.SubmitRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	ids, err := h.applicationService.Submit(c.Request.Context(), req)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Form submitted", "ids": ids})
}

// ListApplications returns the review dashboard listing
// @Summary      List applications
// @Description  Paginated application rows with first proposed unit, incoming-unit summary and latest comment. Coordinators are scoped to their own unit code.
// @Tags         applications
// @Produce      json
// @Param        status   query  string  false  "Filter by status"
// @Param        search   query  string  false  "Substring match on applicant name/email"
// @Param        page     query  int     false  "Page"
// @Param        limit    query  int     false  "Page size"
// @Success      200      {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /api/db [get]
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	params := pagination.Parse(c)

	filter := repository.ApplicationFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	// A coordinator only ever sees their own unit; studentservices may
	// narrow by any code.
	if viewUnitcode := c.GetString("viewUnitcode"); viewUnitcode != "" {
		filter.UnitCode = viewUnitcode
	} else {
		filter.UnitCode = c.Query("view_unitcode")
	}

	apps, total, err := h.applicationService.ListApplications(c.Request.Context(), filter, params.Page, params.Limit)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   apps,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// GetApplication returns a single application in the review-page shape
// @Summary      Get one application
// @Description  Normalized application with catalog-enriched UWA unit, comment history across all revisions, and latest-version link.
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application id"
// @Success      200  {object}  service.ApplicationView
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Security     BearerAuth
// @Router       /api/application/{id} [get]
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	view, err := h.applicationService.GetApplicationView(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, view)
}

type postCommentRequest struct {
	Author string `json:"author"`
	Text   string `json:"text" binding:"required"`
	Type   string `json:"type"`
}

// PostComment appends a review comment or decision
// @Summary      Comment on an application
// @Description  Appends a comment and recomputes the application status from the latest decision comment.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Application id"
// @Param        payload  body      postCommentRequest  true  "Comment"
// @Success      201      {object}  service.CommentResult
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Security     BearerAuth
// @Router       /api/application/{id}/comments [post]
func (h *ApplicationHandler) PostComment(c *gin.Context) {
	var req postCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	if req.Author == "" {
		req.Author = c.GetString("username")
	}

	result, err := h.applicationService.AddComment(c.Request.Context(), c.Param("id"), req.Author, req.Text, req.Type)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}
	c.JSON(http.StatusCreated, result)
}

type assignUCRequest struct {
	Recipients []string `json:"recipients"`
}

// AssignUnitCoordinator escalates an application for coordinator review
// @Summary      Escalate to unit coordinator
// @Description  Resets status to Pending, stamps assignment metadata and records a system comment. Studentservices only.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      string           true   "Application id"
// @Param        payload  body      assignUCRequest  false  "Optional notification recipients"
// @Success      200      {object}  map[string]interface{}
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Security     BearerAuth
// @Router       /api/application/{id}/assign-uc [post]
func (h *ApplicationHandler) AssignUnitCoordinator(c *gin.Context) {
	var req assignUCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Recipients are optional; an empty body is fine.
		req.Recipients = nil
	}

	err := h.applicationService.EscalateToCoordinator(c.Request.Context(), c.Param("id"), c.GetString("username"), req.Recipients)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": model.StatusPending})
}

type unlinkSupportingRequest struct {
	FileID string `json:"fileId" binding:"required"`
}

// UnlinkSupporting removes a supporting-document reference
// @Summary      Unlink a supporting document
// @Description  Removes the reference from the application without deleting the stored file.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Application id"
// @Param        payload  body      unlinkSupportingRequest  true  "File reference"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Security     BearerAuth
// @Router       /api/application/{id}/unlink-supporting [post]
func (h *ApplicationHandler) UnlinkSupporting(c *gin.Context) {
	var req unlinkSupportingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "missing fileId"))
		return
	}

	removed, err := h.applicationService.UnlinkSupportingDocument(c.Request.Context(), c.Param("id"), req.FileID)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	modified := 0
	if removed {
		modified = 1
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "modifiedCount": modified})
}

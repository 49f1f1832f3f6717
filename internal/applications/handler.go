package applications

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, policy middleware.Policy) {
	rg.POST("/applications", policy.Require(roleUser), h.submit)
	rg.GET("/applications/job/:jobId", h.listForJob)
	rg.GET("/applications/user/:userId", h.listForUser)
	rg.PATCH("/applications/:id", policy.Require(roleCompany), h.updateStatus)
}

func (h *Handler) submit(c *gin.Context) {
	var in SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	app, err := h.Svc.SubmitApplication(c.Request.Context(), middleware.ActorFromContext(c), in)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	c.Set(middleware.EntityIDKey, app.ID)
	respond.Success(c, http.StatusCreated, "Application submitted", gin.H{"application": app})
}

func (h *Handler) listForJob(c *gin.Context) {
	jobID := c.Param("jobId")
	c.Set(middleware.EntityIDKey, jobID)
	views, err := h.Svc.ListApplicationsForJob(c.Request.Context(), jobID)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "", gin.H{"applications": views})
}

func (h *Handler) listForUser(c *gin.Context) {
	userID := c.Param("userId")
	c.Set(middleware.EntityIDKey, userID)
	views, err := h.Svc.ListApplicationsForUser(c.Request.Context(), userID)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "", gin.H{"applications": views})
}

func (h *Handler) updateStatus(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.EntityIDKey, id)
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	app, err := h.Svc.UpdateApplicationStatus(c.Request.Context(), middleware.ActorFromContext(c), id, req.Status)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "Application status updated", gin.H{"application": app})
}

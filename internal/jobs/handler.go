package jobs

import (
	"encoding/json"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, policy middleware.Policy) {
	rg.GET("/jobs", h.list)
	rg.POST("/jobs", policy.Require(roleCompany), h.create)
	rg.GET("/jobs/company/:companyId", h.listByCompany)
	rg.GET("/jobs/:id", h.get)
	rg.PUT("/jobs/:id", policy.Require(roleCompany), h.update)
	rg.DELETE("/jobs/:id", policy.Require(roleCompany), h.remove)
}

func (h *Handler) list(c *gin.Context) {
	views, err := h.Svc.ListJobs(c.Request.Context(), Filter{})
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "", gin.H{"jobs": views})
}

func (h *Handler) listByCompany(c *gin.Context) {
	companyID := c.Param("companyId")
	c.Set(middleware.EntityIDKey, companyID)
	views, err := h.Svc.ListJobs(c.Request.Context(), Filter{CompanyID: companyID})
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "", gin.H{"jobs": views})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.EntityIDKey, id)
	v, err := h.Svc.GetJob(c.Request.Context(), id)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "", gin.H{"job": v})
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	v, err := h.Svc.CreateJob(c.Request.Context(), middleware.ActorFromContext(c), in)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	c.Set(middleware.EntityIDKey, v.ID)
	respond.Success(c, http.StatusCreated, "Job posted successfully", gin.H{"job": v})
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.EntityIDKey, id)
	var p map[string]json.RawMessage
	if err := c.ShouldBindJSON(&p); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	v, err := h.Svc.UpdateJob(c.Request.Context(), middleware.ActorFromContext(c), id, p)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "Job updated", gin.H{"job": v})
}

func (h *Handler) remove(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.EntityIDKey, id)
	if err := h.Svc.DeleteJob(c.Request.Context(), middleware.ActorFromContext(c), id); err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "Job deleted", nil)
}

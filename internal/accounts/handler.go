package accounts

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/sessions"
	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

// SessionIssuer mints a bearer token for a freshly authenticated identity.
type SessionIssuer interface {
	Issue(ctx context.Context, claims auth.Claims) (sessions.Session, error)
}

type Handler struct {
	Svc      *Service
	Sessions SessionIssuer
}

func NewHandler(svc *Service, issuer SessionIssuer) *Handler {
	return &Handler{Svc: svc, Sessions: issuer}
}

// RegisterAuthRoutes attaches registration and login.
func (h *Handler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
}

// RegisterProfileRoutes attaches profile reads and updates.
func (h *Handler) RegisterProfileRoutes(rg *gin.RouterGroup, policy middleware.Policy) {
	rg.GET("/profile/user/:id", h.getUser)
	rg.PUT("/profile/user/:id", policy.Require(RoleUser), h.updateUser)
	rg.GET("/profile/company/:id", h.getCompany)
	rg.PUT("/profile/company/:id", policy.Require(RoleCompany), h.updateCompany)
}

func (h *Handler) register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	ident, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	c.Set(middleware.EntityIDKey, ident.ID)

	session, err := h.issue(c, ident)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	message := "User registered"
	if ident.Role == RoleCompany {
		message = "Company registered"
	}
	respond.Success(c, http.StatusCreated, message, authBody(entityKey(ident.Role), ident, session))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	ident, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	c.Set(middleware.EntityIDKey, ident.ID)

	session, err := h.issue(c, ident)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "Login successful", authBody("user", ident, session))
}

func (h *Handler) issue(c *gin.Context, ident Identity) (*sessions.Session, error) {
	if h.Sessions == nil {
		return nil, nil
	}
	session, err := h.Sessions.Issue(c.Request.Context(), identityClaims(ident))
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (h *Handler) getUser(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.EntityIDKey, id)
	u, err := h.Svc.GetUser(c.Request.Context(), id)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "", gin.H{"user": u})
}

func (h *Handler) getCompany(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.EntityIDKey, id)
	co, err := h.Svc.GetCompany(c.Request.Context(), id)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "", gin.H{"company": co})
}

func (h *Handler) updateUser(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.EntityIDKey, id)
	var p map[string]json.RawMessage
	if err := c.ShouldBindJSON(&p); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	u, err := h.Svc.UpdateUser(c.Request.Context(), middleware.ActorFromContext(c), id, p)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "User profile updated", gin.H{"user": u})
}

func (h *Handler) updateCompany(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.EntityIDKey, id)
	var p map[string]json.RawMessage
	if err := c.ShouldBindJSON(&p); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	co, err := h.Svc.UpdateCompany(c.Request.Context(), middleware.ActorFromContext(c), id, p)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "Company profile updated", gin.H{"company": co})
}

package sessions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/logout", h.logout)
	rg.GET("/me", h.me)
}

func (h *Handler) logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		respond.Failure(c, apperr.Wrap(apperr.ErrUnauthorized, "session"))
		return
	}
	if err := h.Svc.Revoke(c.Request.Context(), claims); err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "Logged out", nil)
}

func (h *Handler) me(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		respond.Failure(c, apperr.Wrap(apperr.ErrUnauthorized, "session"))
		return
	}
	respond.Success(c, http.StatusOK, "", gin.H{
		"user": gin.H{
			"id":    claims.Sub,
			"email": claims.Email,
			"name":  claims.Name,
			"role":  claims.Role,
		},
		"expiresAt": claims.ExpiresAt(),
	})
}

package uploads

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/accounts"
	"jobboard-backend/internal/extract"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/shared/storage/object"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

type imageRequest struct {
	ImageData string `json:"imageData"`
	ImageType string `json:"imageType"`
}

type cvRequest struct {
	CVData string `json:"cvData"`
	CVType string `json:"cvType"`
	CVName string `json:"cvName"`
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, policy middleware.Policy) {
	rg.POST("/upload/avatar/:userId", policy.Require(accounts.RoleUser), h.avatar)
	rg.POST("/upload/logo/:companyId", policy.Require(accounts.RoleCompany), h.logo)
	rg.POST("/upload/cv/:userId", policy.Require(accounts.RoleUser), h.cv)
	rg.GET("/blobs/*key", h.blob)
}

func (h *Handler) avatar(c *gin.Context) {
	userID := c.Param("userId")
	c.Set(middleware.EntityIDKey, userID)
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	url, err := h.Svc.UploadAvatar(c.Request.Context(), middleware.ActorFromContext(c), userID, Payload{Data: req.ImageData, Type: req.ImageType})
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "Avatar uploaded", gin.H{"avatar": url})
}

func (h *Handler) logo(c *gin.Context) {
	companyID := c.Param("companyId")
	c.Set(middleware.EntityIDKey, companyID)
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	url, err := h.Svc.UploadLogo(c.Request.Context(), middleware.ActorFromContext(c), companyID, Payload{Data: req.ImageData, Type: req.ImageType})
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "Logo uploaded", gin.H{"logo": url})
}

func (h *Handler) cv(c *gin.Context) {
	userID := c.Param("userId")
	c.Set(middleware.EntityIDKey, userID)
	var req cvRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	url, err := h.Svc.UploadCV(c.Request.Context(), middleware.ActorFromContext(c), userID, Payload{Data: req.CVData, Type: req.CVType, Name: req.CVName})
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "CV uploaded", gin.H{"cv": url})
}

// blob streams a stored object. Only known image types render inline;
// everything else is served as a download.
func (h *Handler) blob(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if !object.ValidKey(key) {
		respond.Error(c, http.StatusNotFound, "not_found", "Blob not found", nil)
		return
	}
	r, err := h.Svc.Store.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Blob not found", nil)
			return
		}
		respond.Failure(c, err)
		return
	}
	defer r.Close()

	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		respond.Failure(c, err)
		return
	}
	contentType, inline := servedType(r.ContentType, head[:n])
	body := io.MultiReader(bytes.NewReader(head[:n]), r)
	c.Header("Cache-Control", "private, max-age=300")
	c.Header("X-Content-Type-Options", "nosniff")
	if !inline {
		c.Header("Content-Disposition", "attachment")
	}
	c.DataFromReader(http.StatusOK, -1, contentType, body, nil)
}

// servedType picks the response type for a blob from the recorded type, or
// the sniffed one when the store kept none. Text and markup never pass through.
func servedType(recorded string, head []byte) (string, bool) {
	ct := recorded
	if ct == "" {
		ct = http.DetectContentType(head)
	}
	ct = strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	if _, ok := imageTypes[ct]; ok {
		return ct, true
	}
	switch ct {
	case extract.MimePDF, extract.MimeDOC, extract.MimeDOCX:
		return ct, false
	}
	return "application/octet-stream", false
}

package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/server/respond"
)

// Storage reports which backend is serving operations.
type Storage interface {
	Name() string
	Configured() bool
	IsPrimaryAvailable() bool
	ActiveBackend() string
}

// Service encapsulates health-related checks.
type Service struct {
	Storage Storage
	Now     func() time.Time
}

// NewService constructs a new health service.
func NewService(storage Storage) *Service {
	return &Service{Storage: storage, Now: time.Now}
}

// StorageStatus is the connectivity part of the health payload.
type StorageStatus struct {
	Driver           string `json:"driver"`
	Configured       bool   `json:"configured"`
	PrimaryAvailable bool   `json:"primaryAvailable"`
	Active           string `json:"active"`
}

// Status never fails; an unavailable primary only shows in the payload.
func (s *Service) Status() StorageStatus {
	if s.Storage == nil {
		return StorageStatus{Driver: "memory", Active: "memory"}
	}
	return StorageStatus{
		Driver:           s.Storage.Name(),
		Configured:       s.Storage.Configured(),
		PrimaryAvailable: s.Storage.IsPrimaryAvailable(),
		Active:           s.Storage.ActiveBackend(),
	}
}

func (s *Service) Handle(c *gin.Context) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	respond.Success(c, http.StatusOK, "Server is running", gin.H{
		"timestamp": now().UTC().Format(time.RFC3339),
		"storage":   s.Status(),
	})
}

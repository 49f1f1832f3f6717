package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/storage/selector"
)

func TestHealthReportsFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mon := selector.NewMonitor(selector.PingFunc(func(context.Context) error {
		return errors.New("connection refused")
	}), selector.Options{Name: "mongo"})
	svc := NewService(mon)
	svc.Now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.GET("/api/health", svc.Handle)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Success   bool          `json:"success"`
		Message   string        `json:"message"`
		Timestamp string        `json:"timestamp"`
		Storage   StorageStatus `json:"storage"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Message != "Server is running" || body.Timestamp != "2025-03-01T12:00:00Z" {
		t.Fatalf("unexpected body %+v", body)
	}
	want := StorageStatus{Driver: "mongo", Configured: true, PrimaryAvailable: false, Active: selector.BackendMemory}
	if body.Storage != want {
		t.Fatalf("unexpected storage %+v", body.Storage)
	}
}

func TestHealthWithoutPrimary(t *testing.T) {
	got := NewService(nil).Status()
	if got.Active != "memory" || got.PrimaryAvailable {
		t.Fatalf("unexpected status %+v", got)
	}
}

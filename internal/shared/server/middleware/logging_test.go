package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authn := stubAuthenticator{"tok": auth.Claims{Sub: "company-1", Role: "company", JTI: "j"}}
	router := gin.New()
	router.Use(RequestID(), Auth(authn), Logging())
	router.GET("/api/jobs/:id", func(c *gin.Context) {
		c.Set(EntityIDKey, c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	prevOut := telemetry.SetOutput(w)
	defer func() {
		telemetry.SetOutput(prevOut)
	}()

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil)
	req.Header.Set("Authorization", "Bearer tok")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	_ = w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read log output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) == 0 {
		t.Fatalf("expected log output")
	}
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"request_id", "user_id", "role", "entity_id", "duration_ms", "status", "route"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["user_id"] != "company-1" {
		t.Fatalf("unexpected user_id: %v", payload["user_id"])
	}
	if payload["entity_id"] != "job-1" {
		t.Fatalf("unexpected entity_id: %v", payload["entity_id"])
	}
	if payload["route"] != "/api/jobs/:id" {
		t.Fatalf("unexpected route: %v", payload["route"])
	}
}

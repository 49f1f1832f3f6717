package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestIDEchoesOrMints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = RequestIDFromContext(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if seen != "abc-123" || resp.Header().Get("X-Request-Id") != "abc-123" {
		t.Fatalf("expected incoming id to be reused, got %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "bad id\nwith newline")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if seen == "" || strings.ContainsAny(seen, " \n") {
		t.Fatalf("expected a minted id, got %q", seen)
	}
	if resp.Header().Get("X-Request-Id") != seen {
		t.Fatalf("expected response header to carry the minted id")
	}
}

package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/apperr"
)

func serveFailure(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) { Failure(c, err) })

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body ErrorResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr != nil {
		t.Fatalf("decode body: %v", decodeErr)
	}
	return resp, body
}

func TestFailureMapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Required("title"), http.StatusBadRequest},
		{apperr.Wrap(apperr.ErrAlreadyExists, "User"), http.StatusConflict},
		{apperr.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperr.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("get job: %w", apperr.Wrap(apperr.ErrNotFound, "Job")), http.StatusNotFound},
	}
	for _, tc := range cases {
		resp, body := serveFailure(t, tc.err)
		if resp.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, resp.Code)
		}
		if body.Success {
			t.Fatalf("expected success=false")
		}
	}
}

func TestFailureHidesServerErrors(t *testing.T) {
	resp, body := serveFailure(t, errors.New("pq: connection refused at 10.0.0.5"))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if strings.Contains(body.Message, "10.0.0.5") {
		t.Fatalf("internal detail leaked: %q", body.Message)
	}
	if body.Message != "Server error" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestFailureIncludesFieldDetails(t *testing.T) {
	_, body := serveFailure(t, apperr.Required("jobId", "userId"))
	details, ok := body.Details.([]any)
	if !ok || len(details) != 2 {
		t.Fatalf("expected 2 details, got %#v", body.Details)
	}
}

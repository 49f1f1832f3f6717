package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/storage/object"
)

func TestUploadAndServeBlob(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	f.svc.PublicBaseURL = ""
	r := gin.New()
	NewHandler(f.svc).RegisterRoutes(r.Group("/api"), middleware.Policy{})

	body, _ := json.Marshal(gin.H{"imageData": dataURI("image/png", pngBytes)})
	req := httptest.NewRequest(http.MethodPost, "/api/upload/avatar/"+f.userID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "Avatar uploaded", out["message"])
	ref, _ := out["avatar"].(string)
	require.True(t, strings.HasPrefix(ref, RoutePrefix))

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, ref, nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", resp.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, resp.Header().Get("Content-Disposition"))
	assert.Equal(t, pngBytes, resp.Body.Bytes())

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/blobs/nope/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUploadMissingDataIs400(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	r := gin.New()
	NewHandler(f.svc).RegisterRoutes(r.Group("/api"), middleware.Policy{})

	req := httptest.NewRequest(http.MethodPost, "/api/upload/cv/"+f.userID, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "CV data is required")
}

func TestBlobNeverServesMarkup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	r := gin.New()
	NewHandler(f.svc).RegisterRoutes(r.Group("/api"), middleware.Policy{})

	cases := []struct {
		name        string
		body        []byte
		wantType    string
		disposition string
	}{
		{name: "html", body: []byte("<html><script>alert(1)</script></html>"), wantType: "application/octet-stream", disposition: "attachment"},
		{name: "plain text", body: []byte("just words"), wantType: "application/octet-stream", disposition: "attachment"},
		{name: "pdf", body: []byte("%PDF-1.4\n%%EOF"), wantType: "application/pdf", disposition: "attachment"},
		{name: "png", body: pngBytes, wantType: "image/png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := f.svc.Store.Put(context.Background(), object.Upload{Owner: f.userID, Name: "avatar.png", Body: bytes.NewReader(tc.body)})
			require.NoError(t, err)

			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, RoutePrefix+obj.Key, nil))
			require.Equal(t, http.StatusOK, resp.Code)
			assert.Equal(t, tc.wantType, resp.Header().Get("Content-Type"))
			assert.Equal(t, "nosniff", resp.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, tc.disposition, resp.Header().Get("Content-Disposition"))
			assert.Equal(t, tc.body, resp.Body.Bytes())
		})
	}
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futureforceai/careerprep/internal/models"
	"github.com/futureforceai/careerprep/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cvRouter(userID string, svc *fakeCVSvc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCVHandler(svc)
	r := gin.New()
	g := r.Group("/api", asUser(userID))
	g.POST("/cv/upload", h.Upload)
	g.GET("/cv/list", h.List)
	g.DELETE("/cv/:cv_id", h.Delete)
	return r
}

func TestCVUploadHandler(t *testing.T) {
	now := time.Now().UTC()
	svc := &fakeCVSvc{cv: &models.CV{
		ID:           "cv-1",
		UserID:       "u1",
		OriginalName: "resume.pdf",
		FileSize:     7,
		ContentType:  "application/pdf",
		UploadedAt:   now,
		LastUsed:     now,
	}}
	r := cvRouter("u1", svc)

	body, ct := multipartBody(t, nil, "cv_file", "resume.pdf", []byte("%PDF-1.4"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cv/upload", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"success"`)
	assert.Contains(t, w.Body.String(), "cv-1")
	assert.Contains(t, w.Body.String(), "resume.pdf")
}

func TestCVUploadHandlerMissingFile(t *testing.T) {
	r := cvRouter("u1", &fakeCVSvc{})

	body, ct := multipartBody(t, map[string]string{"other": "field"}, "", "", nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cv/upload", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCVUploadHandlerEmptyFile(t *testing.T) {
	r := cvRouter("u1", &fakeCVSvc{})

	body, ct := multipartBody(t, nil, "cv_file", "resume.pdf", nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cv/upload", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cv file is empty")
}

func TestCVListHandler(t *testing.T) {
	svc := &fakeCVSvc{summaries: []models.CVSummary{}}
	r := cvRouter("u1", svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cv/list", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cvs":[]}`, w.Body.String())
}

func TestCVDeleteHandler(t *testing.T) {
	r := cvRouter("u1", &fakeCVSvc{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/cv/cv-1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CV deleted successfully")
}

func TestCVDeleteHandlerForbidden(t *testing.T) {
	svc := &fakeCVSvc{deleteErr: utils.E(utils.CodeForbidden, "CVService.Delete", "forbidden", nil)}
	r := cvRouter("u1", svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/cv/cv-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

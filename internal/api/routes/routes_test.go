package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-editor/internal/config"
	"resume-editor/internal/parser"
	"resume-editor/internal/session"
	"resume-editor/pkg/models"
)

type fakeParser struct{}

func (f *fakeParser) Upload(ctx context.Context, filename string, file io.Reader) (*parser.UploadResult, error) {
	return &parser.UploadResult{
		Filename: filename,
		Parsed: &models.ResumeDocument{
			FullName:   "Jane Doe",
			Experience: []models.ExperienceEntry{{Company: "Acme", Description: []string{"built things"}}},
		},
		PDFURL: "https://cdn.example.com/resume.pdf",
	}, nil
}

func (f *fakeParser) Update(ctx context.Context, doc *models.ResumeDocument) (string, error) {
	return "https://cdn.example.com/resume.pdf", nil
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.ReadTimeout = 5 * time.Second
	cfg.Server.MaxUploadSize = 10 << 20
	cfg.Parser.Timeout = 5 * time.Second
	cfg.Sessions.TTL = time.Hour
	cfg.Sessions.CleanupInterval = time.Minute
	cfg.RateLimit.Enabled = false

	manager := session.NewManager(cfg, session.NewMemoryStore(), &fakeParser{})

	e := echo.New()
	e.HideBanner = true
	SetupRoutes(e, cfg, manager)
	return e
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestFullEditingFlow(t *testing.T) {
	e := newTestServer(t)

	// create a session
	rec := do(e, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	base := "/api/v1/sessions/" + created.ID

	// upload a resume
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "resume.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, base+"/upload", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec = do(e, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var loaded models.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	assert.Equal(t, "loaded", loaded.State)
	require.NotNil(t, loaded.Document)
	assert.Equal(t, "Jane Doe", loaded.Document.FullName)

	// edit a field
	req = httptest.NewRequest(http.MethodPut, base+"/document/fields/full_name", strings.NewReader(`{"value": "John Smith"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = do(e, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// append, update and remove a list entry
	rec = do(e, httptest.NewRequest(http.MethodPost, base+"/document/experience/entries", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPatch, base+"/document/experience/entries/1", strings.NewReader(`{"subfield": "company", "value": "Globex"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = do(e, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, httptest.NewRequest(http.MethodDelete, base+"/document/experience/entries/0", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// save and check the cache-busted preview
	rec = do(e, httptest.NewRequest(http.MethodPost, base+"/save", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var saved models.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "John Smith", saved.Document.FullName)
	require.Len(t, saved.Document.Experience, 1)
	assert.Equal(t, "Globex", saved.Document.Experience[0].Company)
	assert.Regexp(t, `\?t=\d+$`, saved.PreviewURL)
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestOversizedRequestRejected(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader("x"))
	req.ContentLength = 100 << 20
	rec := do(e, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	e := newTestServer(t)

	for _, path := range []string{"/health", "/health/ready", "/health/live", "/status"} {
		rec := do(e, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

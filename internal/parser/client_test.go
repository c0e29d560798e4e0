package parser

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-editor/internal/config"
	"resume-editor/pkg/models"
)

func testClient(baseURL string) *Client {
	cfg := &config.Config{}
	cfg.Parser.BaseURL = baseURL
	cfg.Parser.UploadPath = "/upload/"
	cfg.Parser.UpdatePath = "/update/"
	cfg.Parser.Timeout = 5 * time.Second
	return NewClient(cfg)
}

func TestUploadSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload/", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "resume.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4 fake", string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"filename": "resume.pdf",
			"parsed": {"full_name": "Jane Doe", "email": "jane@example.com", "summary": "Seasoned engineer"},
			"pdf_url": "https://cdn.example.com/resume.pdf"
		}`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	result, err := client.Upload(context.Background(), "resume.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)

	assert.Equal(t, "resume.pdf", result.Filename)
	assert.Equal(t, "https://cdn.example.com/resume.pdf", result.PDFURL)
	require.NotNil(t, result.Parsed)
	assert.Equal(t, "Jane Doe", result.Parsed.FullName)
	assert.JSONEq(t, `"Seasoned engineer"`, string(result.Parsed.Extra["summary"]))
}

func TestUploadServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal failure", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.Upload(context.Background(), "resume.pdf", strings.NewReader("data"))
	require.Error(t, err)

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusInternalServerError, serverErr.StatusCode)
	assert.Contains(t, serverErr.Body, "internal failure")
}

func TestUploadBackendReportedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error": "could not extract text from PDF"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.Upload(context.Background(), "resume.pdf", strings.NewReader("data"))

	var parseErr *ParseFailure
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "could not extract text from PDF", parseErr.Reason)
}

func TestUploadMissingParsedField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"filename": "resume.pdf", "pdf_url": "https://cdn.example.com/resume.pdf"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.Upload(context.Background(), "resume.pdf", strings.NewReader("data"))

	var parseErr *ParseFailure
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "no parsed field")
}

func TestUploadMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.Upload(context.Background(), "resume.pdf", strings.NewReader("data"))

	var parseErr *ParseFailure
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "invalid JSON")
}

func TestUploadTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := testClient(server.URL)

	_, err := client.Upload(context.Background(), "resume.pdf", strings.NewReader("data"))

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Error(t, errors.Unwrap(transportErr))
}

func TestUpdateSuccess(t *testing.T) {
	doc := &models.ResumeDocument{FullName: "Jane Doe"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/update/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"parsed"`)
		assert.Contains(t, string(body), `"Jane Doe"`)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pdf_url": "https://cdn.example.com/resume.pdf"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	pdfURL, err := client.Update(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/resume.pdf", pdfURL)
}

func TestUpdateMissingPDFURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.Update(context.Background(), &models.ResumeDocument{})

	var parseErr *ParseFailure
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "no pdf_url")
}

func TestUpdateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.Update(context.Background(), &models.ResumeDocument{})

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusBadGateway, serverErr.StatusCode)
}

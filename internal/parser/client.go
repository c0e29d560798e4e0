// Package parser is the HTTP client for the external resume parsing backend.
// The backend owns the hard work (PDF text extraction and field mapping);
// this client only speaks its two endpoints and classifies their failures.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"resume-editor/internal/config"
	"resume-editor/internal/logging"
	"resume-editor/pkg/models"
	"resume-editor/pkg/utils"
)

// UploadResult is the backend's answer to a successful parse request
type UploadResult struct {
	Filename string
	Parsed   *models.ResumeDocument
	PDFURL   string
}

// Client talks to the parser backend over HTTP. No retries are performed;
// callers surface failures to the user instead.
type Client struct {
	baseURL    string
	uploadPath string
	updatePath string
	httpClient *http.Client
	logger     logging.Logger
}

// NewClient creates a parser backend client from configuration
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.Parser.BaseURL, "/"),
		uploadPath: cfg.Parser.UploadPath,
		updatePath: cfg.Parser.UpdatePath,
		httpClient: &http.Client{
			Timeout: cfg.Parser.Timeout,
		},
		logger: logging.GetGlobalLogger(),
	}
}

// Upload sends one resume file to the backend's parse endpoint as a
// multipart form with a single part named "file". It returns the parsed
// document and the preview PDF URL, or a TransportError, ServerError or
// ParseFailure describing what went wrong.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.uploadPath, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &ServerError{
			StatusCode: resp.StatusCode,
			Body:       readBodySnippet(resp.Body),
		}
	}

	var payload struct {
		Filename string                 `json:"filename"`
		Parsed   *models.ResumeDocument `json:"parsed"`
		PDFURL   string                 `json:"pdf_url"`
		Error    string                 `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &ParseFailure{Reason: "invalid JSON response: " + err.Error()}
	}
	if payload.Error != "" {
		return nil, &ParseFailure{Reason: payload.Error}
	}
	if payload.Parsed == nil {
		return nil, &ParseFailure{Reason: "response has no parsed field"}
	}

	c.logger.Info("Resume parsed by backend", map[string]interface{}{
		"filename": payload.Filename,
		"duration": utils.FormatDuration(time.Since(start)),
	})

	return &UploadResult{
		Filename: payload.Filename,
		Parsed:   payload.Parsed,
		PDFURL:   payload.PDFURL,
	}, nil
}

// Update sends the full current document to the backend's regenerate
// endpoint and returns the fresh preview PDF URL.
func (c *Client) Update(ctx context.Context, doc *models.ResumeDocument) (string, error) {
	body, err := json.Marshal(map[string]*models.ResumeDocument{"parsed": doc})
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.updatePath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &ServerError{
			StatusCode: resp.StatusCode,
			Body:       readBodySnippet(resp.Body),
		}
	}

	var payload struct {
		PDFURL string `json:"pdf_url"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &ParseFailure{Reason: "invalid JSON response: " + err.Error()}
	}
	if payload.Error != "" {
		return "", &ParseFailure{Reason: payload.Error}
	}
	if payload.PDFURL == "" {
		return "", &ParseFailure{Reason: "response has no pdf_url field"}
	}

	return payload.PDFURL, nil
}

// readBodySnippet captures the start of an error body for diagnostics
func readBodySnippet(r io.Reader) string {
	snippet, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return string(snippet)
}

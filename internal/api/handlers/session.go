package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resume-editor/internal/logging"
	"resume-editor/internal/parser"
	"resume-editor/internal/session"
	"resume-editor/pkg/models"
	"resume-editor/pkg/utils"
)

// CreateSessionHandler handles POST /api/v1/sessions
func CreateSessionHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := manager.Create(c.Request().Context())
		if err != nil {
			return writeSessionError(c, err)
		}
		return c.JSON(http.StatusCreated, sess.Response())
	}
}

// GetSessionHandler handles GET /api/v1/sessions/:id
func GetSessionHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := manager.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return writeSessionError(c, err)
		}
		return c.JSON(http.StatusOK, sess.Response())
	}
}

// DeleteSessionHandler handles DELETE /api/v1/sessions/:id
func DeleteSessionHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := manager.Delete(c.Request().Context(), c.Param("id")); err != nil {
			return writeSessionError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// ResetSessionHandler handles POST /api/v1/sessions/:id/reset
func ResetSessionHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := manager.Reset(c.Request().Context(), c.Param("id"))
		if err != nil {
			return writeSessionError(c, err)
		}
		return c.JSON(http.StatusOK, sess.Response())
	}
}

// UploadResumeHandler handles POST /api/v1/sessions/:id/upload. The file is
// forwarded to the parser backend; on success the parsed document becomes
// the session's document.
func UploadResumeHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()
		sessionID := c.Param("id")

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse(c, "missing_file",
				"Request must include a multipart part named \"file\""))
		}

		file, err := fileHeader.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse(c, "unreadable_file",
				"Could not read the uploaded file: "+err.Error()))
		}
		defer file.Close()

		logger.Info("Processing resume upload", map[string]interface{}{
			"session_id": sessionID,
			"filename":   fileHeader.Filename,
			"size_bytes": fileHeader.Size,
		})

		sess, err := manager.Upload(c.Request().Context(), sessionID, fileHeader.Filename, file)
		if err != nil {
			return writeSessionError(c, err)
		}
		return c.JSON(http.StatusOK, sess.Response())
	}
}

// SaveResumeHandler handles POST /api/v1/sessions/:id/save
func SaveResumeHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := manager.Save(c.Request().Context(), c.Param("id"))
		if err != nil {
			return writeSessionError(c, err)
		}
		return c.JSON(http.StatusOK, sess.Response())
	}
}

// writeSessionError maps session and backend errors onto HTTP responses
func writeSessionError(c echo.Context, err error) error {
	var serverErr *parser.ServerError
	var transportErr *parser.TransportError
	var parseFailure *parser.ParseFailure

	switch {
	case errors.Is(err, session.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse(c, "session_not_found",
			"No editing session with that ID"))
	case errors.Is(err, session.ErrOperationInFlight):
		return c.JSON(http.StatusConflict, errorResponse(c, "operation_in_flight",
			"An upload or save is already in progress for this session"))
	case errors.Is(err, session.ErrNoDocument):
		return c.JSON(http.StatusConflict, errorResponse(c, "no_document",
			"Upload a resume before editing or saving"))
	case errors.As(err, &transportErr), errors.As(err, &serverErr):
		return c.JSON(http.StatusBadGateway, errorResponse(c, "parser_backend_failed", err.Error()))
	case errors.As(err, &parseFailure):
		return c.JSON(http.StatusUnprocessableEntity, errorResponse(c, "parse_failed", err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse(c, "internal_error", err.Error()))
	}
}

// errorResponse builds the standard error envelope
func errorResponse(c echo.Context, code, message string) models.ErrorResponse {
	requestID, _ := c.Get("request_id").(string)
	if requestID == "" {
		requestID = utils.GenerateRequestID()
	}
	return models.ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now(),
	}
}

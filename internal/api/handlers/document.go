package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"resume-editor/internal/document"
	"resume-editor/internal/session"
	"resume-editor/pkg/models"
)

var editValidator = validator.New()

// SetFieldHandler handles PUT /api/v1/sessions/:id/document/fields/:field
func SetFieldHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		field := c.Param("field")
		if document.IsListField(field) || document.IsBulkField(field) {
			return c.JSON(http.StatusBadRequest, errorResponse(c, "not_a_text_field",
				"Field "+field+" is list-valued; use the entries or bulk endpoints"))
		}

		var req models.SetFieldRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse(c, "invalid_request",
				"Invalid request body: "+err.Error()))
		}

		sess, err := manager.SetField(c.Request().Context(), c.Param("id"), field, req.Value)
		if err != nil {
			return writeSessionError(c, err)
		}
		return c.JSON(http.StatusOK, sess.Response())
	}
}

// SetBulkFieldHandler handles PUT /api/v1/sessions/:id/document/bulk/:field.
// The submitted text is split on every comma, without trimming, mirroring
// the ", " join used for display.
func SetBulkFieldHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		field := c.Param("field")
		if !document.IsBulkField(field) {
			return c.JSON(http.StatusBadRequest, errorResponse(c, "not_a_bulk_field",
				"Field "+field+" is not a bulk text field"))
		}

		var req models.SetBulkFieldRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse(c, "invalid_request",
				"Invalid request body: "+err.Error()))
		}

		sess, err := manager.SetBulkFieldText(c.Request().Context(), c.Param("id"), field, req.Text)
		if err != nil {
			return writeSessionError(c, err)
		}
		return c.JSON(http.StatusOK, sess.Response())
	}
}

// AppendEntryHandler handles POST /api/v1/sessions/:id/document/:list/entries
func AppendEntryHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, ok := listField(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, errorResponse(c, "not_a_list_field",
				"Field "+c.Param("list")+" does not hold list entries"))
		}

		sess, err := manager.AppendEntry(c.Request().Context(), c.Param("id"), list)
		if err != nil {
			return writeSessionError(c, err)
		}
		return c.JSON(http.StatusOK, sess.Response())
	}
}

// RemoveEntryHandler handles DELETE /api/v1/sessions/:id/document/:list/entries/:index
func RemoveEntryHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, ok := listField(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, errorResponse(c, "not_a_list_field",
				"Field "+c.Param("list")+" does not hold list entries"))
		}

		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse(c, "invalid_index",
				"Entry index must be an integer"))
		}

		sess, err := manager.RemoveEntryAt(c.Request().Context(), c.Param("id"), list, index)
		if err != nil {
			return writeSessionError(c, err)
		}
		return c.JSON(http.StatusOK, sess.Response())
	}
}

// UpdateEntryHandler handles PATCH /api/v1/sessions/:id/document/:list/entries/:index
func UpdateEntryHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, ok := listField(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, errorResponse(c, "not_a_list_field",
				"Field "+c.Param("list")+" does not hold list entries"))
		}

		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse(c, "invalid_index",
				"Entry index must be an integer"))
		}

		var req models.UpdateEntryFieldRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse(c, "invalid_request",
				"Invalid request body: "+err.Error()))
		}
		if err := editValidator.Struct(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse(c, "validation_failed",
				"Request validation failed: "+err.Error()))
		}

		sess, err := manager.UpdateEntryField(c.Request().Context(), c.Param("id"), list, index, req.Subfield, req.Value)
		if err != nil {
			return writeSessionError(c, err)
		}
		return c.JSON(http.StatusOK, sess.Response())
	}
}

// listField resolves the :list path parameter to a known list field
func listField(c echo.Context) (string, bool) {
	list := c.Param("list")
	return list, document.IsListField(list)
}

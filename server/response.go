package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/esteticaio/api/errors"
	"github.com/esteticaio/api/server/middleware"
)

// DataResponse is the success envelope for list endpoints.
type DataResponse struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta carries response metadata.
type Meta struct {
	Total int `json:"total"`
}

// RespondWithError renders err as an AppError. Authentication errors map
// to 401/403, AppErrors keep their status and anything else becomes a
// generic 500.
func RespondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}

// RespondOK sends a 200 response with data as the body.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// RespondList sends a 200 response wrapping items with their count.
func RespondList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, DataResponse{Data: items, Meta: &Meta{Total: len(items)}})
}

// RespondCreated sends a 201 response with data as the body.
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// RespondNoContent sends a 204 with no body.
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func notFound(path string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeNotFound, fmt.Sprintf("No route for %s.", path), http.StatusNotFound)
}

func methodNotAllowed(method string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeInvalidInput, fmt.Sprintf("Method %s not allowed.", method), http.StatusMethodNotAllowed)
}

// Shared handler utilities: JSON helpers and error mapping.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tably/internal/modules/menu"
	"tably/internal/modules/order"
	"tably/internal/modules/table"
	"tably/internal/modules/tenant"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

func writeOrderError(c *gin.Context, err error) {
	var te *order.TransitionError
	switch {
	case errors.As(err, &te):
		writeError(c, http.StatusConflict, te.Error())
	case errors.Is(err, order.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, order.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrInvalidTenant), errors.Is(err, order.ErrInvalidTable):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrTooManyItems), errors.Is(err, order.ErrInvalidItem):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, menu.ErrNotFound),
		errors.Is(err, table.ErrNotFound),
		errors.Is(err, tenant.ErrNotFound),
		errors.Is(err, tenant.ErrMemberMissing):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, menu.ErrBadRequest),
		errors.Is(err, table.ErrBadRequest),
		errors.Is(err, tenant.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, tenant.ErrSlugTaken),
		errors.Is(err, tenant.ErrMemberExists):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

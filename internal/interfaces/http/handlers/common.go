// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wattwise/HomeAudit-Intelligence/internal/interfaces/http/middleware"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

// respond writes a successful envelope.
func respond(c *gin.Context, status int, data interface{}) {
	resp := common.OK(data)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(status, resp)
}

// respondPage writes a successful envelope with pagination metadata.
func respondPage(c *gin.Context, data interface{}, p common.Pagination) {
	resp := common.OK(data)
	resp.Pagination = &p
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(http.StatusOK, resp)
}

// respondError maps an error onto the envelope, using AppError codes for the
// status when available and masking non-application errors.
func respondError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := apperrors.HTTPStatusForCode(code)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = apperrors.DefaultMessageForCode(code)
	}

	resp := common.Fail[struct{}](string(code), message)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(status, resp)
}

// parsePagination reads page/page_size query parameters with sane bounds.
func parsePagination(c *gin.Context) common.Pagination {
	p := common.Pagination{Page: 1, PageSize: common.DefaultPageSize}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Page = n
		}
	}
	if v := c.Query("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= common.MaxPageSize {
			p.PageSize = n
		}
	}
	return p
}

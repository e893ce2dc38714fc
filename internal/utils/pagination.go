package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-tracker/internal/constants"
)

var ErrInvalidPagination = errors.New("limit must be between 1 and 100 and offset must not be negative")

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// DefaultPagination is used when no query parameters are given
func DefaultPagination() PaginationParams {
	return PaginationParams{Limit: constants.DefaultPageLimit}
}

// GetPaginationParams extracts and validates limit/offset query parameters
func GetPaginationParams(c *gin.Context) (PaginationParams, error) {
	params := DefaultPagination()

	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > constants.MaxPageLimit {
			return params, ErrInvalidPagination
		}
		params.Limit = limit
	}
	if raw, ok := c.GetQuery("offset"); ok {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return params, ErrInvalidPagination
		}
		params.Offset = offset
	}

	return params, nil
}

// Response builds the pagination metadata for a page of total rows
func (p PaginationParams) Response(total int64) PaginationResponse {
	return PaginationResponse{Limit: p.Limit, Offset: p.Offset, Total: total}
}

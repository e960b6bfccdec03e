package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginationParams builds parameters for a page of fixed size.
// Pages below the first are clamped to the first.
func NewPaginationParams(page, limit int) PaginationParams {
	if page < constants.MinPage {
		page = constants.MinPage
	}
	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// GetPaginationParams extracts the page number from the request. The page
// size is fixed for task listings.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPage)))
	return NewPaginationParams(page, constants.TaskPageSize)
}

// NewPaginationResponse computes the page count for total items.
func NewPaginationResponse(params PaginationParams, total int64) PaginationResponse {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = int(total) / params.Limit
		if int(total)%params.Limit > 0 {
			totalPages++
		}
	}
	return PaginationResponse{
		Page:       params.Page,
		PerPage:    params.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

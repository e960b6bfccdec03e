package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		query  string
		page   int
		offset int
	}{
		{"default", "", 1, 0},
		{"third page", "page=3", 3, 20},
		{"negative page", "page=-2", 1, 0},
		{"garbage", "page=abc", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)

			params := GetPaginationParams(c)

			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, 10, params.Limit)
			assert.Equal(t, tt.offset, params.Offset)
		})
	}
}

func TestNewPaginationResponse(t *testing.T) {
	params := NewPaginationParams(1, 10)

	assert.Equal(t, 0, NewPaginationResponse(params, 0).TotalPages)
	assert.Equal(t, 1, NewPaginationResponse(params, 10).TotalPages)
	assert.Equal(t, 3, NewPaginationResponse(params, 21).TotalPages)
}

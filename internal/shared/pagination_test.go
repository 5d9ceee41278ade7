package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 35, p.Total)
	assert.Equal(t, 4, p.Pages)
}

func TestNewPaginationExactBoundary(t *testing.T) {
	p := NewPagination(1, 10, 30)
	assert.Equal(t, 3, p.Pages)
}

func TestNewPaginationEmpty(t *testing.T) {
	p := NewPagination(1, 10, 0)
	assert.Equal(t, 0, p.Pages)
}

func TestNewPaginationSanitizesInput(t *testing.T) {
	p := NewPagination(0, -5, 10)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
}

func TestPageParamsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/list", nil)
	page, limit, offset := PageParams(r, 50)
	assert.Equal(t, 1, page)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)
}

func TestPageParamsExplicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/list?page=3&limit=25", nil)
	page, limit, offset := PageParams(r, 50)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, limit)
	assert.Equal(t, 50, offset)
}

func TestPageParamsIgnoresGarbage(t *testing.T) {
	r := httptest.NewRequest("GET", "/list?page=-1&limit=zero", nil)
	page, limit, offset := PageParams(r, 50)
	assert.Equal(t, 1, page)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)
}

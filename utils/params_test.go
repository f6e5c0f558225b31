package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueryOptionsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/orders", nil)
	opts := ParseQueryOptions(r)

	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, "createdAt", opts.SortBy)
	assert.Equal(t, "desc", opts.Order)
	assert.Equal(t, int64(0), opts.Skip())
}

func TestParseQueryOptionsValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/orders?page=3&limit=25&search=ord-1&sortBy=status&order=asc", nil)
	opts := ParseQueryOptions(r)

	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, 25, opts.Limit)
	assert.Equal(t, "ord-1", opts.Search)
	assert.Equal(t, "status", opts.SortBy)
	assert.Equal(t, "asc", opts.Order)
	assert.Equal(t, int64(50), opts.Skip())
}

func TestParseQueryOptionsClamps(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/orders?page=-2&limit=9999&order=sideways", nil)
	opts := ParseQueryOptions(r)

	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 100, opts.Limit)
	assert.Equal(t, "desc", opts.Order)
}

func TestSortDoc(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/orders?sortBy=updatedAt&order=asc", nil)
	opts := ParseQueryOptions(r)

	doc := opts.SortDoc()
	assert.Equal(t, "updatedAt", doc[0].Key)
	assert.Equal(t, 1, doc[0].Value)
}

package utils

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QueryOptions covers the search/sort/page/limit boilerplate every
// list endpoint shares.
type QueryOptions struct {
	Page   int
	Limit  int
	Search string
	SortBy string
	Order  string // "asc" or "desc"
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	order := q.Get("order")
	if order != "asc" {
		order = "desc"
	}

	sortBy := q.Get("sortBy")
	if sortBy == "" {
		sortBy = "createdAt"
	}

	return QueryOptions{
		Page:   page,
		Limit:  limit,
		Search: q.Get("search"),
		SortBy: sortBy,
		Order:  order,
	}
}

// Skip returns the number of documents to jump past for the page.
func (o QueryOptions) Skip() int64 {
	return int64((o.Page - 1) * o.Limit)
}

// SortDoc returns the mongo sort document for the options.
func (o QueryOptions) SortDoc() bson.D {
	dir := -1
	if o.Order == "asc" {
		dir = 1
	}
	return bson.D{{Key: o.SortBy, Value: dir}}
}

// FindOptions maps the options onto a mongo Find call.
func (o QueryOptions) FindOptions() *options.FindOptions {
	return options.Find().
		SetSkip(o.Skip()).
		SetLimit(int64(o.Limit)).
		SetSort(o.SortDoc())
}

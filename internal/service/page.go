package service

import "adaptagent/internal/repository"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListResult is a page of items with the total count before pagination.
type ListResult[T any] struct {
	Items  []T `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// pageQuery clamps limit into [1, MaxLimit] (DefaultLimit when unset) and offset to >= 0.
func pageQuery(limit, offset int) repository.PageQuery {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return repository.PageQuery{Limit: limit, Offset: offset}
}

func listResult[T any](res *repository.PageResult[T], pq repository.PageQuery) *ListResult[T] {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	return &ListResult[T]{Items: items, Total: res.Total, Limit: pq.Limit, Offset: pq.Offset}
}

package services

import (
	"strconv"
)

// PostsPerPage is the page size of every feed.
const PostsPerPage = 10

// Page is one slice of an ordered collection plus what the paginator
// template needs to link neighbouring pages.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Number  int   `json:"number"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

// ParsePage reads a page query parameter. Missing, non-numeric and
// non-positive values mean the first page.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func newPage[T any](number, perPage int, total int64) Page[T] {
	if number < 1 {
		number = 1
	}
	return Page[T]{Number: number, PerPage: perPage, Total: total, Items: []T{}}
}

// Paginate slices items into the requested page. A page past the end is
// empty rather than an error.
func Paginate[T any](items []T, perPage, number int) Page[T] {
	if perPage <= 0 {
		perPage = PostsPerPage
	}
	page := newPage[T](number, perPage, int64(len(items)))
	start := page.offset()
	if start >= len(items) {
		return page
	}
	end := min(start+perPage, len(items))
	page.Items = items[start:end]
	return page
}

func (p Page[T]) offset() int {
	return (p.Number - 1) * p.PerPage
}

// Len is the number of items on this page.
func (p Page[T]) Len() int {
	return len(p.Items)
}

// NumPages is at least 1 so an empty feed still has a first page.
func (p Page[T]) NumPages() int {
	if p.Total == 0 || p.PerPage <= 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

func (p Page[T]) HasNext() bool {
	return p.Number < p.NumPages()
}

func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p Page[T]) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p Page[T]) NextPageNumber() int {
	return p.Number + 1
}

// PreviousPageNumber points back into range when Number is past the end.
func (p Page[T]) PreviousPageNumber() int {
	return min(p.Number-1, p.NumPages())
}

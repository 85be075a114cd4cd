package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginateSizes(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 13, 20, 25} {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}

		first := Paginate(items, PostsPerPage, 1)
		assert.Equal(t, min(n, PostsPerPage), first.Len(), "first page of %d", n)

		last := Paginate(items, PostsPerPage, first.NumPages())
		want := n % PostsPerPage
		if n > 0 && want == 0 {
			want = PostsPerPage
		}
		assert.Equal(t, want, last.Len(), "last page of %d", n)
	}
}

func TestPaginatePastEnd(t *testing.T) {
	page := Paginate([]string{"a", "b"}, PostsPerPage, 5)

	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.False(t, page.HasNext())
	assert.True(t, page.HasPrevious())
	assert.Equal(t, 1, page.PreviousPageNumber())
}

func TestPageNavigation(t *testing.T) {
	items := make([]int, 13)

	first := Paginate(items, PostsPerPage, 1)
	assert.Equal(t, 2, first.NumPages())
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())
	assert.Equal(t, 2, first.NextPageNumber())
	assert.True(t, first.HasOtherPages())

	second := Paginate(items, PostsPerPage, 2)
	assert.Equal(t, 3, second.Len())
	assert.False(t, second.HasNext())
	assert.Equal(t, 1, second.PreviousPageNumber())

	empty := Paginate([]int{}, PostsPerPage, 1)
	assert.Equal(t, 1, empty.NumPages())
	assert.False(t, empty.HasOtherPages())
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"2", 2},
		{"abc", 1},
		{"0", 1},
		{"-3", 1},
		{"17", 17},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePage(tt.raw))
		})
	}
}

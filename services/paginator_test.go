package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginatorPageCount(t *testing.T) {
	cases := []struct {
		total int64
		pages int
	}{
		{0, 1},
		{1, 1},
		{5, 1},
		{6, 2},
		{10, 2},
		{11, 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.pages, NewPaginator(c.total, PostsPerPage).NumPages, "total=%d", c.total)
	}
}

func TestPaginatorNumberClamps(t *testing.T) {
	p := NewPaginator(12, PostsPerPage)

	assert.Equal(t, 1, p.Number(""))
	assert.Equal(t, 1, p.Number("abc"))
	assert.Equal(t, 1, p.Number("0"))
	assert.Equal(t, 1, p.Number("-4"))
	assert.Equal(t, 2, p.Number(" 2 "))
	assert.Equal(t, 3, p.Number("3"))
	assert.Equal(t, 3, p.Number("99"))
}

func TestPaginatorInfo(t *testing.T) {
	p := NewPaginator(12, PostsPerPage)

	assert.Equal(t, 5, p.Offset(2))
	first := p.Info(1)
	assert.False(t, first.HasPrevious)
	assert.True(t, first.HasNext)
	last := p.Info(3)
	assert.True(t, last.HasPrevious)
	assert.False(t, last.HasNext)
	assert.Equal(t, int64(12), last.Total)
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"1.5", 1},
		{"2", 2},
		{"-3", -3},
		{"99999999999999999999", -1},
		{"-99999999999999999999", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePage(tt.raw), "ParsePage(%q)", tt.raw)
	}
}

func TestParsePage_OverflowResolvesToLastPage(t *testing.T) {
	page, offset := Paginate(13, ParsePage("99999999999999999999"), 10)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 10, offset)
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		number     int
		perPage    int
		wantNumber int
		wantPages  int
		wantOffset int
	}{
		{"first of thirteen", 13, 1, 10, 1, 2, 0},
		{"second of thirteen", 13, 2, 10, 2, 2, 10},
		{"past the end goes to last", 13, 9, 10, 2, 2, 10},
		{"zero goes to last", 13, 0, 10, 2, 2, 10},
		{"negative goes to last", 13, -1, 10, 2, 2, 10},
		{"exact multiple", 20, 2, 10, 2, 2, 10},
		{"empty listing has one page", 0, 1, 10, 1, 1, 0},
		{"empty listing any page", 0, 5, 10, 1, 1, 0},
		{"default page size", 25, 3, 0, 3, 3, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, offset := Paginate(tt.total, tt.number, tt.perPage)
			assert.Equal(t, tt.wantNumber, page.Number)
			assert.Equal(t, tt.wantPages, page.NumPages)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.total, page.Total)
		})
	}
}

func TestPageNavigation(t *testing.T) {
	first, _ := Paginate(13, 1, 10)
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())
	assert.True(t, first.HasOtherPages())
	assert.Equal(t, 2, first.NextNumber())
	assert.Equal(t, []int{1, 2}, first.PageRange())

	last, _ := Paginate(13, 2, 10)
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrevious())
	assert.Equal(t, 1, last.PreviousNumber())

	only, _ := Paginate(3, 1, 10)
	assert.False(t, only.HasOtherPages())
}

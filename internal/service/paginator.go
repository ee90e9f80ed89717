package service

import (
	"errors"
	"strconv"

	"yatube/internal/models"
)

// DefaultPageSize is the number of posts per feed page.
const DefaultPageSize = 10

// Page is one page of a post listing.
type Page struct {
	Posts    []models.Post
	Number   int
	NumPages int
	Total    int64
	PerPage  int
}

func (p *Page) HasNext() bool     { return p.Number < p.NumPages }
func (p *Page) HasPrevious() bool { return p.Number > 1 }
func (p *Page) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}
func (p *Page) NextNumber() int     { return p.Number + 1 }
func (p *Page) PreviousNumber() int { return p.Number - 1 }

// PageRange returns 1..NumPages for rendering page links.
func (p *Page) PageRange() []int {
	r := make([]int, p.NumPages)
	for i := range r {
		r[i] = i + 1
	}
	return r
}

// ParsePage reads a ?page= value. Missing or non-integer values mean page 1;
// out-of-range integers are passed through and clamped by Paginate. Integers
// too large for int become -1, which Paginate also resolves to the last page.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		return -1
	}
	if err != nil {
		return 1
	}
	return n
}

// Paginate clamps number into [1, numPages] and returns the page window.
// Numbers below 1 or past the end resolve to the last page. An empty
// listing still has one (empty) page.
func Paginate(total int64, number, perPage int) (page *Page, offset int) {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}
	if number < 1 || number > numPages {
		number = numPages
	}
	return &Page{
		Number:   number,
		NumPages: numPages,
		Total:    total,
		PerPage:  perPage,
	}, (number - 1) * perPage
}

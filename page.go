// Package pagebook provides validated offset pagination: slicing in-memory
// record sets or SQL query results into Pages whose navigation metadata is
// checked for internal consistency on construction and on decode.
package pagebook

import (
	"encoding/json"
	"fmt"
	"iter"
)

// Page represents one page of a larger record set, together with the
// metadata needed to navigate it.
//
// Field semantics:
//   - items: the records belonging to this page.
//   - page: zero-based index of this page, from 0 to pages - 1.
//   - size: requested maximum records per page. The items length equals size
//     on every page except the last one, where it may be smaller.
//   - total: total number of records across the whole set.
//   - pages: total number of pages required to hold total records.
//   - previousPage / nextPage: neighbor page indexes, absent at the edges.
//
// A Page is immutable after creation. Every constructed or decoded Page
// satisfies the consistency rules checked by verify.
type Page[E any] struct {
	items        []E
	page         uint
	size         uint
	total        uint
	pages        uint
	previousPage *uint
	nextPage     *uint
}

// NewPage builds a Page from known items, page index, page size and total
// record count. The pages, previousPage and nextPage fields are derived, and
// the assembled candidate is checked against the full rule set before it is
// returned.
func NewPage[E any](items []E, page uint, size uint, total uint) (*Page[E], error) {
	p := &Page[E]{
		items: items,
		page:  page,
		size:  size,
		total: total,
		pages: expectedPages(size, total),
	}
	if page > 0 {
		p.previousPage = ptr(page - 1)
	}
	if page != p.pages-1 {
		p.nextPage = ptr(page + 1)
	}
	if err := p.verify(); err != nil {
		return nil, err
	}
	return p, nil
}

// DefaultPage returns the canonical empty Page: no items, page 0, size 0,
// total 0, a single page and no neighbors.
func DefaultPage[E any]() *Page[E] {
	return &Page[E]{pages: 1}
}

// Items returns the records on this page. The returned slice is owned by the
// Page and must not be modified.
func (p *Page[E]) Items() []E {
	return p.items
}

// Index returns the zero-based page index.
func (p *Page[E]) Index() uint {
	return p.page
}

// Size returns the requested maximum number of records per page.
func (p *Page[E]) Size() uint {
	return p.size
}

// Total returns the total number of records across the whole set.
func (p *Page[E]) Total() uint {
	return p.total
}

// Pages returns the total number of pages.
func (p *Page[E]) Pages() uint {
	return p.pages
}

// PreviousPage returns the prior page index. ok is false on the first page.
func (p *Page[E]) PreviousPage() (index uint, ok bool) {
	if p.previousPage == nil {
		return 0, false
	}
	return *p.previousPage, true
}

// NextPage returns the following page index. ok is false on the last page.
func (p *Page[E]) NextPage() (index uint, ok bool) {
	if p.nextPage == nil {
		return 0, false
	}
	return *p.nextPage, true
}

// All yields the page items in order.
func (p *Page[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, item := range p.items {
			if !yield(item) {
				return
			}
		}
	}
}

// verify checks the consistency of all Page fields. It is the single
// validation routine shared by NewPage and UnmarshalJSON, and checks the
// rules in a fixed order:
//  1. pages equals total divided by size rounded up, at least 1. When size
//     is 0, pages is 1.
//  2. page is at most pages - 1.
//  3. on every page but the last, the items length equals size.
//  4. on the last page, total equals (pages - 1) * size plus the items length.
//  5. previousPage is page - 1 when page is greater than 0, otherwise absent.
//  6. nextPage is page + 1 when page is less than pages - 1, otherwise absent.
func (p *Page[E]) verify() error {
	itemsLength := uint(len(p.items))

	if expected := expectedPages(p.size, p.total); expected != p.pages {
		return NewInvalidValueError(
			"total pages error: expected '%d', found '%d'", expected, p.pages)
	}

	if p.page > p.pages-1 {
		return NewInvalidValueError(
			"page index '%d' exceeds total pages '%d'", p.page, p.pages)
	}

	if p.page < p.pages-1 && itemsLength != p.size {
		return NewInvalidValueError(
			"items length '%d' is not equal to page size '%d' for an intermediate page '%d'",
			itemsLength, p.size, p.page)
	}

	if p.page == p.pages-1 {
		if expected := (p.pages-1)*p.size + itemsLength; expected != p.total {
			return NewInvalidValueError(
				"total elements error: expected '%d', found '%d'", expected, p.total)
		}
	}

	var expectedPrevious *uint
	if p.page > 0 {
		expectedPrevious = ptr(p.page - 1)
	}
	if !equalIndex(expectedPrevious, p.previousPage) {
		return NewInvalidValueError(
			"previous page index error: expected '%s', found '%s'",
			formatIndex(expectedPrevious), formatIndex(p.previousPage))
	}

	var expectedNext *uint
	if p.page != p.pages-1 {
		expectedNext = ptr(p.page + 1)
	}
	if !equalIndex(expectedNext, p.nextPage) {
		return NewInvalidValueError(
			"next page index error: expected '%s', found '%s'",
			formatIndex(expectedNext), formatIndex(p.nextPage))
	}

	return nil
}

// pageModel is the wire representation of a Page.
type pageModel[E any] struct {
	Items        []E   `json:"items"`
	Page         uint  `json:"page"`
	Size         uint  `json:"size"`
	Total        uint  `json:"total"`
	Pages        uint  `json:"pages"`
	PreviousPage *uint `json:"previous_page"`
	NextPage     *uint `json:"next_page"`
}

// MarshalJSON implements json.Marshaler. Absent neighbor pages are encoded
// as explicit nulls.
func (p *Page[E]) MarshalJSON() ([]byte, error) {
	items := p.items
	if items == nil {
		items = []E{}
	}
	return json.Marshal(pageModel[E]{
		Items:        items,
		Page:         p.page,
		Size:         p.size,
		Total:        p.total,
		Pages:        p.pages,
		PreviousPage: p.previousPage,
		NextPage:     p.nextPage,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The supplied pages,
// previous_page and next_page values are verified against the rest of the
// payload rather than recomputed, so a tampered or inconsistent payload is
// rejected with a KindInvalidValue error.
func (p *Page[E]) UnmarshalJSON(data []byte) error {
	var model pageModel[E]
	if err := json.Unmarshal(data, &model); err != nil {
		return err
	}

	decoded := Page[E]{
		items:        model.Items,
		page:         model.Page,
		size:         model.Size,
		total:        model.Total,
		pages:        model.Pages,
		previousPage: model.PreviousPage,
		nextPage:     model.NextPage,
	}
	if err := decoded.verify(); err != nil {
		return err
	}

	*p = decoded
	return nil
}

func (p *Page[E]) String() string {
	return fmt.Sprintf(
		"Page { items: %v, page: %d, size: %d, total: %d, pages: %d, previous_page: %s, next_page: %s }",
		p.items, p.page, p.size, p.total, p.pages,
		formatIndex(p.previousPage), formatIndex(p.nextPage))
}

// expectedPages is the rule 1 arithmetic: ceil(total/size) floored to 1,
// with the size 0 degenerate case pinned to a single page.
func expectedPages(size uint, total uint) uint {
	if size == 0 {
		return 1
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

func equalIndex(a *uint, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func formatIndex(index *uint) string {
	if index == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *index)
}

func ptr(v uint) *uint {
	return &v
}

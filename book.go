package pagebook

import (
	"encoding/json"
	"fmt"
	"iter"
)

// Book represents an entire record set pre-split into all of its pages.
// Sheet i holds page index i; a Book with zero sheets is the valid empty
// state. A Book is immutable after creation.
type Book[E any] struct {
	sheets []Page[E]
}

// NewBook wraps an already-validated sequence of Pages. No additional
// checking is performed; the sheets are expected to come from NewPage or
// BindRecords.
func NewBook[E any](sheets []Page[E]) *Book[E] {
	return &Book[E]{sheets: sheets}
}

// DefaultBook returns an empty Book.
func DefaultBook[E any]() *Book[E] {
	return &Book[E]{}
}

// Sheets returns the pages of the Book in ascending page order. The returned
// slice is owned by the Book and must not be modified.
func (b *Book[E]) Sheets() []Page[E] {
	return b.sheets
}

// All yields the sheets in page order.
func (b *Book[E]) All() iter.Seq[Page[E]] {
	return func(yield func(Page[E]) bool) {
		for _, sheet := range b.sheets {
			if !yield(sheet) {
				return
			}
		}
	}
}

// bookModel is the wire representation of a Book.
type bookModel[E any] struct {
	Sheets []Page[E] `json:"sheets"`
}

// MarshalJSON implements json.Marshaler.
func (b *Book[E]) MarshalJSON() ([]byte, error) {
	sheets := b.sheets
	if sheets == nil {
		sheets = []Page[E]{}
	}
	return json.Marshal(bookModel[E]{Sheets: sheets})
}

// UnmarshalJSON implements json.Unmarshaler. Each sheet is decoded through
// the Page decoder, so every sheet in the payload is re-verified.
func (b *Book[E]) UnmarshalJSON(data []byte) error {
	var model bookModel[E]
	if err := json.Unmarshal(data, &model); err != nil {
		return err
	}
	b.sheets = model.Sheets
	return nil
}

func (b *Book[E]) String() string {
	return fmt.Sprintf("Book { sheets: %v }", b.sheets)
}

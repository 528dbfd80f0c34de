package pagebook

// PaginateRecords slices an in-memory record set into a single validated
// Page. The window [page*size, page*size+size) is clamped to the available
// records and the result is assembled through NewPage, so a page index
// beyond the valid range fails with a KindInvalidValue error instead of
// returning a truncated Page.
func PaginateRecords[E any](records []E, page uint, size uint) (*Page[E], error) {
	return NewPage(selectWindow(records, page, size), page, size, uint(len(records)))
}

// BindRecords splits an entire record set into a Book holding every page.
// A size of 0 cannot produce a sequence of equally sized pages, so it yields
// an empty Book rather than one catch-all page. Any sheet failing validation
// aborts the binding with that sheet's error.
func BindRecords[E any](records []E, size uint) (*Book[E], error) {
	if size == 0 {
		return DefaultBook[E](), nil
	}

	total := uint(len(records))
	pages := expectedPages(size, total)

	sheets := make([]Page[E], 0, pages)
	for page := uint(0); page < pages; page++ {
		sheet, err := NewPage(selectWindow(records, page, size), page, size, total)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, *sheet)
	}
	return NewBook(sheets), nil
}

// selectWindow copies the records belonging to the given page, clamped to
// the bounds of the record set.
func selectWindow[E any](records []E, page uint, size uint) []E {
	length := uint(len(records))

	start := min(page*size, length)
	end := min(start+size, length)

	window := make([]E, end-start)
	copy(window, records[start:end])
	return window
}

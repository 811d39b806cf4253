package model

// SearchSession holds the result set of one query cycle and a cursor
// into it. The cursor starts at 0 and only moves forward.
type SearchSession struct {
	Items  []ListingItem
	cursor int
}

// NewSearchSession creates a session over a non-empty result set.
func NewSearchSession(items []ListingItem) *SearchSession {
	return &SearchSession{Items: items}
}

// Cursor returns the zero-based index of the current listing.
func (s *SearchSession) Cursor() int {
	return s.cursor
}

// Total returns the number of fetched listings.
func (s *SearchSession) Total() int {
	return len(s.Items)
}

// Current returns the listing at the cursor, or false when the cursor
// has moved past the end.
func (s *SearchSession) Current() (ListingItem, bool) {
	if s.cursor >= len(s.Items) {
		return ListingItem{}, false
	}
	return s.Items[s.cursor], true
}

// Advance moves the cursor one listing forward.
func (s *SearchSession) Advance() {
	s.cursor++
}

// Exhausted reports whether the cursor has passed the last listing.
func (s *SearchSession) Exhausted() bool {
	return s.cursor >= len(s.Items)
}

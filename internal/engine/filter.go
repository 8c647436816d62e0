package engine

import "github.com/aburusaki/repeat/internal/store"

// Filter constrains which sentences are eligible for selection. The zero
// value matches every sentence; a category filter matches only sentences
// tagged with that category. Untagged sentences are matched by the zero
// filter alone.
type Filter struct {
	categoryID string
}

// All returns the filter that matches every sentence.
func All() Filter {
	return Filter{}
}

// Category returns a filter matching sentences tagged with the given
// category id. An empty id degrades to All.
func Category(id string) Filter {
	return Filter{categoryID: id}
}

func (f Filter) IsAll() bool {
	return f.categoryID == ""
}

func (f Filter) CategoryID() string {
	return f.categoryID
}

func (f Filter) Matches(s store.Sentence) bool {
	if f.categoryID == "" {
		return true
	}
	for _, id := range s.CategoryIDs {
		if id == f.categoryID {
			return true
		}
	}
	return false
}

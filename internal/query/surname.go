package query

import (
	"sort"
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// SurnameKey returns the last whitespace-delimited token of an author name.
// Single-token names return that token; empty names return "".
func SurnameKey(author string) string {
	tokens := strings.Fields(author)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

type keyedBook struct {
	key  string
	book entities.Book
}

// SortBySurname stably reorders books by author surname in place.
func SortBySurname(books []entities.Book, dir Direction) {
	keyed := make([]keyedBook, len(books))
	for i, b := range books {
		keyed[i] = keyedBook{key: SurnameKey(b.Author), book: b}
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		if dir == Descending {
			return keyed[i].key > keyed[j].key
		}
		return keyed[i].key < keyed[j].key
	})

	for i := range keyed {
		books[i] = keyed[i].book
	}
}

package entities

import "time"

// Genres is the suggested genre list offered by the browser client.
// The server accepts any genre string.
var Genres = []string{
	"Fiction",
	"Non-fiction",
	"Mystery",
	"Science",
	"Fantasy",
	"Biography",
	"History",
	"Poetry",
}

type Book struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"index;size:512;not null" json:"title"`
	Author    string    `gorm:"index;size:256" json:"author,omitempty"`
	Genre     string    `gorm:"index;size:64" json:"genre,omitempty"`
	Read      *bool     `json:"read,omitempty"` // nil means the reader never said
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// IsRead reports whether the book is marked as read. Absent counts as unread.
func (b Book) IsRead() bool {
	return b.Read != nil && *b.Read
}

// BookStats summarises the collection.
type BookStats struct {
	Total   int64            `json:"total"`
	Read    int64            `json:"read"`
	Unread  int64            `json:"unread"`
	ByGenre map[string]int64 `json:"by_genre"`
}

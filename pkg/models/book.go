package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID         int             `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Title      string          `bun:",nullzero" json:"title"`
	Summary    string          `json:"summary"`
	ISBN       string          `bun:"isbn" json:"isbn"`
	AuthorID   int             `bun:",nullzero" json:"author_id"`
	Author     *Author         `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	LanguageID int             `bun:",nullzero" json:"language_id"`
	Language   *Language       `bun:"rel:belongs-to,join:language_id=id" json:"language,omitempty"`
	BookGenres []*BookGenre    `bun:"rel:has-many,join:id=book_id" json:"book_genres,omitempty"`
	Instances  []*BookInstance `bun:"rel:has-many,join:id=book_id" json:"instances,omitempty"`
}

func (b *Book) String() string {
	return b.Title
}

func (b *Book) URL() string {
	return fmt.Sprintf("/catalog/book/%d", b.ID)
}

// Genres flattens the loaded book_genres relation.
func (b *Book) Genres() []*Genre {
	genres := make([]*Genre, 0, len(b.BookGenres))
	for _, bg := range b.BookGenres {
		if bg.Genre != nil {
			genres = append(genres, bg.Genre)
		}
	}
	return genres
}

// GenreIDs returns the ids of the loaded genres, for pre-selecting form values.
func (b *Book) GenreIDs() []int {
	ids := make([]int, 0, len(b.BookGenres))
	for _, bg := range b.BookGenres {
		ids = append(ids, bg.GenreID)
	}
	return ids
}

// DisplayGenre lists the first three genre names, for list views.
func (b *Book) DisplayGenre() string {
	genres := b.Genres()
	if len(genres) > 3 {
		genres = genres[:3]
	}
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

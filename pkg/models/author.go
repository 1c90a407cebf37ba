package models

import (
	"fmt"
	"time"

	"github.com/lorenamitrea/LocalLibrary/pkg/dates"
	"github.com/uptrace/bun"
)

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID          int        `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	FirstName   string     `bun:",nullzero" json:"first_name"`
	LastName    string     `bun:",nullzero" json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	DateOfDeath *time.Time `json:"date_of_death"`
	Books       []*Book    `bun:"rel:has-many,join:id=author_id" json:"books,omitempty"`
}

// String renders the author the way the catalog lists them: "Last, First".
func (a *Author) String() string {
	return a.LastName + ", " + a.FirstName
}

func (a *Author) URL() string {
	return fmt.Sprintf("/catalog/author/%d", a.ID)
}

// Lifespan renders the known dates, e.g. "1920-01-02 - 1992-04-06" or
// "1948-09-20 - " for a living author. It's empty when neither is known.
func (a *Author) Lifespan() string {
	if a.DateOfBirth == nil && a.DateOfDeath == nil {
		return ""
	}
	return dates.FormatPtr(a.DateOfBirth) + " - " + dates.FormatPtr(a.DateOfDeath)
}

// Package pagination splits list views into numbered pages.
package pagination

import (
	"strconv"

	"github.com/lorenamitrea/LocalLibrary/pkg/errcodes"
)

// DefaultSize is the number of items per page unless configured otherwise.
const DefaultSize = 10

// Last can be passed as the page parameter to get the final page.
const Last = "last"

// Page describes one page of a list. Numbers start at 1.
type Page struct {
	Number   int
	Size     int
	Total    int
	NumPages int
}

// Parse resolves the raw page parameter against a list of total items. An
// empty value means the first page. Anything that isn't a page number or
// "last", or that falls outside the list, is a not found error. The first page
// of an empty list always exists.
func Parse(raw string, size, total int) (Page, error) {
	if size <= 0 {
		size = DefaultSize
	}
	p := Page{Size: size, Total: total, NumPages: numPages(size, total)}

	switch raw {
	case "":
		p.Number = 1
	case Last:
		p.Number = p.NumPages
	default:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Page{}, errcodes.NotFound("Page")
		}
		p.Number = n
	}

	if p.Number < 1 || p.Number > p.NumPages {
		return Page{}, errcodes.NotFound("Page")
	}
	return p, nil
}

func numPages(size, total int) int {
	if total == 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Offset is the number of items before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) Limit() int {
	return p.Size
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) Next() int {
	return p.Number + 1
}

func (p Page) Previous() int {
	return p.Number - 1
}

// IsPaginated reports whether the list needs more than one page.
func (p Page) IsPaginated() bool {
	return p.NumPages > 1
}

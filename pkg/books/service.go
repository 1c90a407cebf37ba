package books

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/lorenamitrea/LocalLibrary/pkg/errcodes"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// ErrHasInstances is returned when deleting a book that still has copies.
var ErrHasInstances = errors.New("book still has copies")

type RetrieveBookOptions struct {
	ID *int

	includeInstances bool
}

type ListBooksOptions struct {
	Limit  *int
	Offset *int
}

type UpdateBookOptions struct {
	Columns []string
	// GenreIDs replaces the book's genres when set.
	GenreIDs *[]int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateBook inserts book and tags it with genreIDs.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book, genreIDs []int) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return insertGenres(ctx, tx, book.ID, genreIDs)
	})
}

func insertGenres(ctx context.Context, tx bun.Tx, bookID int, genreIDs []int) error {
	if len(genreIDs) == 0 {
		return nil
	}
	bookGenres := make([]*models.BookGenre, 0, len(genreIDs))
	seen := make(map[int]struct{}, len(genreIDs))
	for _, id := range genreIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		bookGenres = append(bookGenres, &models.BookGenre{BookID: bookID, GenreID: id})
	}
	_, err := tx.NewInsert().Model(&bookGenres).Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		Relation("Author").
		Relation("Language").
		Relation("BookGenres", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("bg.id ASC")
		}).
		Relation("BookGenres.Genre")

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.includeInstances {
		q = q.Relation("Instances", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("bi.due_back ASC", "bi.imprint ASC")
		})
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// RetrieveBookWithInstances also loads the book's copies.
func (svc *Service) RetrieveBookWithInstances(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	opts.includeInstances = true
	return svc.RetrieveBook(ctx, opts)
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	var books []*models.Book
	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Author").
		Relation("BookGenres.Genre").
		Order("b.title ASC", "b.id ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

func (svc *Service) CountBooks(ctx context.Context) (int, error) {
	count, err := svc.db.NewSelect().Model((*models.Book)(nil)).Count(ctx)
	return count, errors.WithStack(err)
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 && opts.GenreIDs == nil {
		return nil
	}

	book.UpdatedAt = time.Now()
	columns := append(slices.Clone(opts.Columns), "updated_at")

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.
			NewUpdate().
			Model(book).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Book")
		}

		if opts.GenreIDs == nil {
			return nil
		}
		_, err = tx.NewDelete().
			Model((*models.BookGenre)(nil)).
			Where("book_id = ?", book.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return insertGenres(ctx, tx, book.ID, *opts.GenreIDs)
	})
}

// DeleteBook removes a book and its genre tags. Books with copies are never
// deleted; ErrHasInstances is returned instead.
func (svc *Service) DeleteBook(ctx context.Context, bookID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().
			Model((*models.BookInstance)(nil)).
			Where("bi.book_id = ?", bookID).
			Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if count > 0 {
			return ErrHasInstances
		}

		res, err := tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Book")
		}
		return nil
	})
}

// Choices are the options a book form offers.
type Choices struct {
	Authors   []*models.Author
	Languages []*models.Language
	Genres    []*models.Genre
}

func (svc *Service) ListChoices(ctx context.Context) (*Choices, error) {
	choices := &Choices{}
	err := svc.db.NewSelect().
		Model(&choices.Authors).
		Order("a.last_name ASC", "a.first_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	err = svc.db.NewSelect().Model(&choices.Languages).Order("l.name ASC").Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	err = svc.db.NewSelect().Model(&choices.Genres).Order("g.name ASC").Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return choices, nil
}

// HasAuthor reports whether Choices offers the author.
func (ch *Choices) HasAuthor(id int) bool {
	for _, a := range ch.Authors {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (ch *Choices) HasLanguage(id int) bool {
	for _, l := range ch.Languages {
		if l.ID == id {
			return true
		}
	}
	return false
}

func (ch *Choices) HasGenre(id int) bool {
	for _, g := range ch.Genres {
		if g.ID == id {
			return true
		}
	}
	return false
}

package genres

import (
	"context"
	"time"

	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/text/cases"
)

// ErrExists is returned when a genre with the same name, ignoring case,
// already exists.
var ErrExists = errors.New("genre already exists")

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateGenre inserts genre unless its name is already taken.
func (svc *Service) CreateGenre(ctx context.Context, genre *models.Genre) error {
	existing, err := svc.ListGenres(ctx)
	if err != nil {
		return err
	}
	fold := cases.Fold()
	name := fold.String(genre.Name)
	for _, g := range existing {
		if fold.String(g.Name) == name {
			return ErrExists
		}
	}

	now := time.Now()
	if genre.CreatedAt.IsZero() {
		genre.CreatedAt = now
	}
	genre.UpdatedAt = genre.CreatedAt

	_, err = svc.db.
		NewInsert().
		Model(genre).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

// ListGenres lists every genre by name.
func (svc *Service) ListGenres(ctx context.Context) ([]*models.Genre, error) {
	var genres []*models.Genre
	err := svc.db.
		NewSelect().
		Model(&genres).
		Order("g.name ASC").
		Scan(ctx)
	return genres, errors.WithStack(err)
}

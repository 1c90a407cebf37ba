package languages

import (
	"context"
	"time"

	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/text/cases"
)

// ErrExists is returned when a language with the same name, ignoring case,
// already exists.
var ErrExists = errors.New("language already exists")

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateLanguage inserts language unless its name is already taken.
func (svc *Service) CreateLanguage(ctx context.Context, language *models.Language) error {
	existing, err := svc.ListLanguages(ctx)
	if err != nil {
		return err
	}
	fold := cases.Fold()
	name := fold.String(language.Name)
	for _, l := range existing {
		if fold.String(l.Name) == name {
			return ErrExists
		}
	}

	now := time.Now()
	if language.CreatedAt.IsZero() {
		language.CreatedAt = now
	}
	language.UpdatedAt = language.CreatedAt

	_, err = svc.db.
		NewInsert().
		Model(language).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

// ListLanguages lists every language by name.
func (svc *Service) ListLanguages(ctx context.Context) ([]*models.Language, error) {
	var languages []*models.Language
	err := svc.db.
		NewSelect().
		Model(&languages).
		Order("l.name ASC").
		Scan(ctx)
	return languages, errors.WithStack(err)
}

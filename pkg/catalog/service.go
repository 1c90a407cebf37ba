package catalog

import (
	"context"

	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Counts are the figures on the home page.
type Counts struct {
	Books              int
	Instances          int
	InstancesAvailable int
	InstancesOnLoan    int
	Authors            int
	// GenresMatching and BooksMatching count names containing a sample word,
	// ignoring case.
	GenresMatching int
	BooksMatching  int
}

const (
	genreSample = "com"
	bookSample  = "ye"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) Counts(ctx context.Context) (*Counts, error) {
	counts := &Counts{}

	queries := []struct {
		dest *int
		q    *bun.SelectQuery
	}{
		{&counts.Books, svc.db.NewSelect().Model((*models.Book)(nil))},
		{&counts.Instances, svc.db.NewSelect().Model((*models.BookInstance)(nil))},
		{&counts.InstancesAvailable, svc.db.NewSelect().Model((*models.BookInstance)(nil)).Where("bi.status = ?", models.StatusAvailable)},
		{&counts.InstancesOnLoan, svc.db.NewSelect().Model((*models.BookInstance)(nil)).Where("bi.status = ?", models.StatusOnLoan)},
		{&counts.Authors, svc.db.NewSelect().Model((*models.Author)(nil))},
		{&counts.GenresMatching, svc.db.NewSelect().Model((*models.Genre)(nil)).Where("g.name LIKE ?", "%"+genreSample+"%")},
		{&counts.BooksMatching, svc.db.NewSelect().Model((*models.Book)(nil)).Where("b.title LIKE ?", "%"+bookSample+"%")},
	}
	for _, query := range queries {
		n, err := query.q.Count(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		*query.dest = n
	}

	return counts, nil
}

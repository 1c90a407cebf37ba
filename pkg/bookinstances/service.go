package bookinstances

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lorenamitrea/LocalLibrary/pkg/errcodes"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListOnLoanOptions struct {
	Limit  *int
	Offset *int
	// BorrowerID limits the list to one user's loans.
	BorrowerID *int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateBookInstance(ctx context.Context, instance *models.BookInstance) error {
	now := time.Now()
	if instance.CreatedAt.IsZero() {
		instance.CreatedAt = now
	}
	instance.UpdatedAt = instance.CreatedAt

	if instance.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return errors.WithStack(err)
		}
		instance.ID = id
	}
	if instance.Status == "" {
		instance.Status = models.StatusMaintenance
	}

	_, err := svc.db.
		NewInsert().
		Model(instance).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

// RetrieveBookInstance loads a copy with its book and borrower.
func (svc *Service) RetrieveBookInstance(ctx context.Context, id uuid.UUID) (*models.BookInstance, error) {
	instance := &models.BookInstance{}

	err := svc.db.
		NewSelect().
		Model(instance).
		Relation("Book").
		Relation("Borrower").
		Where("bi.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book instance")
		}
		return nil, errors.WithStack(err)
	}

	return instance, nil
}

// UpdateDueBack sets a new due date and leaves the loan status alone.
func (svc *Service) UpdateDueBack(ctx context.Context, instance *models.BookInstance, dueBack time.Time) error {
	instance.DueBack = &dueBack
	return svc.update(ctx, instance, "due_back")
}

// Lend puts the copy on loan to borrower until dueBack.
func (svc *Service) Lend(ctx context.Context, instance *models.BookInstance, borrower *models.User, dueBack time.Time) error {
	instance.Status = models.StatusOnLoan
	instance.BorrowerID = &borrower.ID
	instance.Borrower = borrower
	instance.DueBack = &dueBack
	return svc.update(ctx, instance, "status", "borrower_id", "due_back")
}

// Return makes the copy available again and forgets the loan.
func (svc *Service) Return(ctx context.Context, instance *models.BookInstance) error {
	instance.Status = models.StatusAvailable
	instance.BorrowerID = nil
	instance.Borrower = nil
	instance.DueBack = nil
	return svc.update(ctx, instance, "status", "borrower_id", "due_back")
}

func (svc *Service) update(ctx context.Context, instance *models.BookInstance, columns ...string) error {
	instance.UpdatedAt = time.Now()
	columns = append(columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(instance).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Book instance")
	}
	return nil
}

// ListOnLoan lists copies with status on loan, soonest due first.
func (svc *Service) ListOnLoan(ctx context.Context, opts ListOnLoanOptions) ([]*models.BookInstance, error) {
	var instances []*models.BookInstance
	q := svc.onLoanQuery(opts.BorrowerID).
		Model(&instances).
		Relation("Book").
		Relation("Borrower").
		Order("bi.due_back ASC", "bi.id ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return instances, nil
}

// CountOnLoan counts the copies ListOnLoan would list without paging.
func (svc *Service) CountOnLoan(ctx context.Context, borrowerID *int) (int, error) {
	count, err := svc.onLoanQuery(borrowerID).
		Model((*models.BookInstance)(nil)).
		Count(ctx)
	return count, errors.WithStack(err)
}

func (svc *Service) onLoanQuery(borrowerID *int) *bun.SelectQuery {
	q := svc.db.
		NewSelect().
		Where("bi.status = ?", models.StatusOnLoan)
	if borrowerID != nil {
		q = q.Where("bi.borrower_id = ?", *borrowerID)
	}
	return q
}

// RetrieveBorrower finds the active user a copy is lent to, by username.
func (svc *Service) RetrieveBorrower(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := svc.db.
		NewSelect().
		Model(user).
		Where("u.username = ? COLLATE NOCASE", username).
		Where("u.is_active = ?", true).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

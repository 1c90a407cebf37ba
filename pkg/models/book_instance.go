package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Loan statuses of a book instance.
const (
	StatusMaintenance = "m"
	StatusOnLoan      = "o"
	StatusAvailable   = "a"
	StatusReserved    = "r"
)

// StatusLabels maps each loan status to its display label.
var StatusLabels = map[string]string{
	StatusMaintenance: "Maintenance",
	StatusOnLoan:      "On loan",
	StatusAvailable:   "Available",
	StatusReserved:    "Reserved",
}

// Statuses lists the loan statuses in display order.
var Statuses = []string{StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved}

func IsValidStatus(status string) bool {
	_, ok := StatusLabels[status]
	return ok
}

// BookInstance is a single lendable copy of a book.
type BookInstance struct {
	bun.BaseModel `bun:"table:book_instances,alias:bi"`

	ID         uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	BookID     int        `bun:",nullzero" json:"book_id"`
	Book       *Book      `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	Imprint    string     `json:"imprint"`
	DueBack    *time.Time `json:"due_back"`
	Status     string     `bun:",nullzero" json:"status"`
	BorrowerID *int       `json:"borrower_id"`
	Borrower   *User      `bun:"rel:belongs-to,join:borrower_id=id" json:"borrower,omitempty"`
}

func (bi *BookInstance) StatusLabel() string {
	return StatusLabels[bi.Status]
}

func (bi *BookInstance) IsOnLoan() bool {
	return bi.Status == StatusOnLoan
}

// IsOverdue reports whether the copy is on loan and was due before today.
func (bi *BookInstance) IsOverdue(today time.Time) bool {
	return bi.IsOnLoan() && bi.DueBack != nil && bi.DueBack.Before(today)
}

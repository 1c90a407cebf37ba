package renewal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lorenamitrea/LocalLibrary/pkg/dates"
	"github.com/lorenamitrea/LocalLibrary/pkg/errcodes"
	"github.com/lorenamitrea/LocalLibrary/pkg/forms"
	"github.com/lorenamitrea/LocalLibrary/pkg/models"
	"github.com/pkg/errors"
)

// FieldRenewalDate is the form field holding the proposed date.
const FieldRenewalDate = "renewal_date"

// HelpText is shown next to the renewal date input.
const HelpText = "Enter a date between now and 4 weeks (default 3)."

const (
	msgRequired    = "This field is required."
	msgInvalidDate = "Enter a valid date."
	msgNotOnLoan   = "This copy is not on loan."
)

// Caller is who is asking to renew, resolved by the identity layer before the
// workflow runs.
type Caller struct {
	Authenticated bool
	Capabilities  []string
}

// CallerFor builds the caller for a logged in user. A nil user is anonymous.
func CallerFor(user *models.User) Caller {
	if user == nil {
		return Caller{}
	}
	return Caller{Authenticated: true, Capabilities: user.Capabilities()}
}

func (c Caller) Can(capability string) bool {
	for _, have := range c.Capabilities {
		if have == capability {
			return true
		}
	}
	return false
}

// Store is the persistence the workflow needs.
type Store interface {
	// RetrieveBookInstance returns an errcodes.NotFound error for unknown ids.
	RetrieveBookInstance(ctx context.Context, id uuid.UUID) (*models.BookInstance, error)
	UpdateDueBack(ctx context.Context, instance *models.BookInstance, dueBack time.Time) error
}

// Form is what the renewal page renders.
type Form struct {
	Instance    *models.BookInstance
	RenewalDate string
	HelpText    string
	Errors      forms.Errors
}

// Result is the outcome of a submission. When Renewed is false, Form holds
// the submitted value and the messages to show.
type Result struct {
	Renewed bool
	DueBack time.Time
	Form    *Form
}

type Workflow struct {
	store Store
	clock func() time.Time
}

// NewWorkflow returns a workflow backed by store. clock supplies "now"; nil
// means time.Now.
func NewWorkflow(store Store, clock func() time.Time) *Workflow {
	if clock == nil {
		clock = time.Now
	}
	return &Workflow{store, clock}
}

// Begin prepares the renewal form for the given book instance, pre-filled
// with the default proposed date.
func (w *Workflow) Begin(ctx context.Context, caller Caller, id string) (*Form, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	instance, err := w.instance(ctx, id)
	if err != nil {
		return nil, err
	}
	today := dates.Today(w.clock)
	return &Form{
		Instance:    instance,
		RenewalDate: dates.Format(ProposedDate(today)),
		HelpText:    HelpText,
	}, nil
}

// Submit validates rawDate and, when it is acceptable, stores it as the new
// due date of the book instance. The loan status is left alone. Copies that
// aren't on loan have no due date to renew.
func (w *Workflow) Submit(ctx context.Context, caller Caller, id, rawDate string) (*Result, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	instance, err := w.instance(ctx, id)
	if err != nil {
		return nil, err
	}

	form := &Form{
		Instance:    instance,
		RenewalDate: rawDate,
		HelpText:    HelpText,
		Errors:      forms.Errors{},
	}

	if !instance.IsOnLoan() {
		form.Errors.Add(forms.NonFieldErrors, msgNotOnLoan)
		return &Result{Form: form}, nil
	}
	if rawDate == "" {
		form.Errors.Add(FieldRenewalDate, msgRequired)
		return &Result{Form: form}, nil
	}
	date, err := dates.Parse(rawDate)
	if err != nil {
		form.Errors.Add(FieldRenewalDate, msgInvalidDate)
		return &Result{Form: form}, nil
	}
	if err := Validate(date, dates.Today(w.clock)); err != nil {
		form.Errors.Add(FieldRenewalDate, err.Error())
		return &Result{Form: form}, nil
	}

	if err := w.store.UpdateDueBack(ctx, instance, date); err != nil {
		return nil, errors.WithStack(err)
	}
	return &Result{Renewed: true, DueBack: date}, nil
}

func authorize(caller Caller) error {
	if !caller.Authenticated {
		return errcodes.Unauthorized("Log in to renew books.")
	}
	if !caller.Can(models.PermissionMarkReturned) {
		return errcodes.Forbidden("Renewing books")
	}
	return nil
}

func (w *Workflow) instance(ctx context.Context, id string) (*models.BookInstance, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errcodes.NotFound("Book instance")
	}
	instance, err := w.store.RetrieveBookInstance(ctx, uid)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return instance, nil
}

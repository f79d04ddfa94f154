package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/juju/clock"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/policy"
	"github.com/aussiebroadwan/loandesk/internal/loans/store"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
)

const (
	maxLoanTerm     = 360 // months
	maxInterestBps  = 10000
	numberAttempts  = 3
	signedComment   = "Agreement signed by customer"
	resourceAppType = "application"
)

// ApplicationInput carries the customer editable fields. Nil leaves a field
// untouched.
type ApplicationInput struct {
	CurrentStep *int
	DateOfBirth *string
	LoanAmount  *int64 // cents
	DownPayment *int64 // cents
	LoanTerm    *int   // months
}

func (in ApplicationInput) apply(a *domain.Application) error {
	var v domain.ValidationError
	if in.CurrentStep != nil {
		if *in.CurrentStep < domain.MinStep || *in.CurrentStep > domain.MaxStep {
			v.Add("current_step", fmt.Sprintf("must be between %d and %d", domain.MinStep, domain.MaxStep))
		} else {
			a.CurrentStep = *in.CurrentStep
		}
	}
	if in.DateOfBirth != nil {
		dob := strings.TrimSpace(*in.DateOfBirth)
		if _, err := time.Parse(time.DateOnly, dob); dob != "" && err != nil {
			v.Add("dob", "must be a date formatted YYYY-MM-DD")
		} else {
			a.DateOfBirth = dob
		}
	}
	if in.LoanAmount != nil {
		if *in.LoanAmount <= 0 {
			v.Add("loan_amount", "must be greater than 0")
		} else {
			a.LoanAmount = in.LoanAmount
		}
	}
	if in.DownPayment != nil {
		if *in.DownPayment < 0 {
			v.Add("down_payment", "must be greater than or equal to 0")
		} else {
			a.DownPayment = in.DownPayment
		}
	}
	if in.LoanTerm != nil {
		if *in.LoanTerm <= 0 || *in.LoanTerm > maxLoanTerm {
			v.Add("loan_term", fmt.Sprintf("must be between 1 and %d months", maxLoanTerm))
		} else {
			a.LoanTerm = in.LoanTerm
		}
	}
	if a.LoanAmount != nil && a.DownPayment != nil && *a.DownPayment > *a.LoanAmount {
		v.Add("down_payment", "must not exceed the loan amount")
	}
	return v.Err()
}

type ListApplicationsInput struct {
	Status string
	PageRequest
}

// ApproveInput sets the loan terms on approval. Nil keeps what the
// application already has.
type ApproveInput struct {
	InterestRateBps *int
	LoanTerm        *int
	Comment         string
}

type SignInput struct {
	AgreementAccepted bool
	SignatureData     string
}

type ApplicationService struct {
	Store   store.Store
	Audit   *AuditService
	Clock   clock.Clock
	Metrics *Metrics
}

// Create starts a draft owned by actor.
func (s *ApplicationService) Create(ctx context.Context, actor domain.Principal, in ApplicationInput) (domain.Application, error) {
	if err := s.authorize(ctx, actor, domain.ActionCreate, nil); err != nil {
		return domain.Application{}, err
	}

	now := nowFrom(s.Clock)
	for attempt := 1; ; attempt++ {
		number, err := domain.ApplicationNumber(now)
		if err != nil {
			return domain.Application{}, fmt.Errorf("application number: %w", err)
		}
		a := domain.NewApplication(idx.NewAt(now), actor.UserID, number, now)
		if err := in.apply(a); err != nil {
			return domain.Application{}, err
		}

		err = s.Store.Applications().CreateApplication(ctx, *a)
		if err == nil {
			return *a, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) || attempt == numberAttempts {
			return domain.Application{}, fmt.Errorf("create application: %w", err)
		}
	}
}

func (s *ApplicationService) Get(ctx context.Context, actor domain.Principal, id idx.ID) (domain.Application, error) {
	a, err := load(ctx, s.Store, id)
	if err != nil {
		return domain.Application{}, err
	}
	if err := s.authorize(ctx, actor, domain.ActionShow, &a); err != nil {
		return domain.Application{}, err
	}
	return a, nil
}

// List returns the actor's own applications, or every application for
// staff. Both may narrow by status.
func (s *ApplicationService) List(ctx context.Context, actor domain.Principal, in ListApplicationsInput) (Page[domain.Application], error) {
	if !actor.Role.Valid() || actor.IsZero() {
		return Page[domain.Application]{}, s.deny(ctx, actor, domain.ActionShow, nil,
			policy.Decision{Rule: policy.RuleRole, Reason: "principal has no valid role"})
	}

	var f store.ApplicationFilter
	if !actor.Role.IsStaff() {
		f.OwnerID = actor.UserID
	}
	if in.Status != "" {
		st, err := domain.ParseStatus(in.Status)
		if err != nil {
			return Page[domain.Application]{}, domain.NewValidationError("status", "is not a known status")
		}
		f.Status = st
	}

	page := in.PageRequest.normalize()
	apps, total, err := s.Store.Applications().ListApplications(ctx, f, page.storePage())
	if err != nil {
		return Page[domain.Application]{}, fmt.Errorf("list applications: %w", err)
	}
	return Page[domain.Application]{Items: apps, Page: page.Page, PerPage: page.PerPage, Total: total}, nil
}

// Update writes the editable fields. Status never changes here.
func (s *ApplicationService) Update(ctx context.Context, actor domain.Principal, id idx.ID, in ApplicationInput) (domain.Application, error) {
	var out domain.Application
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		a, err := load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := decide(actor, domain.ActionUpdate, &a, nowFrom(s.Clock)); err != nil {
			return err
		}

		next := a.Clone()
		if err := in.apply(next); err != nil {
			return err
		}
		next.UpdatedAt = nowFrom(s.Clock)
		if err := tx.Applications().UpdateApplicationFields(ctx, *next); err != nil {
			if errors.Is(err, store.ErrStaleState) {
				return &domain.TransitionError{From: a.Status, Action: domain.ActionUpdate}
			}
			return fmt.Errorf("update application: %w", err)
		}
		out = *next
		return nil
	})
	s.auditDenied(ctx, actor, id, err)
	return out, err
}

// Delete removes a draft.
func (s *ApplicationService) Delete(ctx context.Context, actor domain.Principal, id idx.ID) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		a, err := load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := decide(actor, domain.ActionDestroy, &a, nowFrom(s.Clock)); err != nil {
			return err
		}
		if err := tx.Applications().DeleteApplication(ctx, id, a.Status); err != nil {
			if errors.Is(err, store.ErrStaleState) {
				return &domain.TransitionError{From: a.Status, Action: domain.ActionDestroy}
			}
			return fmt.Errorf("delete application: %w", err)
		}
		return nil
	})
	s.auditDenied(ctx, actor, id, err)
	return err
}

// History lists the transitions of an application, oldest first.
func (s *ApplicationService) History(ctx context.Context, actor domain.Principal, id idx.ID) ([]domain.StatusHistory, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	h, err := s.Store.StatusHistory().ListHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return h, nil
}

// Notes lists the notes visible to actor. Customers never see internal
// notes.
func (s *ApplicationService) Notes(ctx context.Context, actor domain.Principal, id idx.ID) ([]domain.Note, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	notes, err := s.Store.Notes().ListNotes(ctx, id, actor.Role.IsStaff())
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// AddNote attaches a staff note.
func (s *ApplicationService) AddNote(ctx context.Context, actor domain.Principal, id idx.ID, body string, internal bool) (domain.Note, error) {
	a, err := load(ctx, s.Store, id)
	if err != nil {
		return domain.Note{}, err
	}
	if err := s.authorize(ctx, actor, domain.ActionAddNote, &a); err != nil {
		return domain.Note{}, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.Note{}, domain.NewValidationError("note", "is required")
	}

	now := nowFrom(s.Clock)
	n := domain.Note{
		ID:            idx.NewAt(now),
		ApplicationID: a.ID,
		AuthorID:      actor.UserID,
		Body:          body,
		Internal:      internal,
		CreatedAt:     now,
	}
	if err := s.Store.Notes().CreateNote(ctx, n); err != nil {
		return domain.Note{}, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

func (s *ApplicationService) Submit(ctx context.Context, actor domain.Principal, id idx.ID) (domain.Application, error) {
	return s.transition(ctx, actor, id, domain.ActionSubmit, func(_ store.Tx, a *domain.Application, now time.Time) (string, error) {
		a.SubmittedAt = &now
		return "", nil
	})
}

func (s *ApplicationService) StartReview(ctx context.Context, actor domain.Principal, id idx.ID) (domain.Application, error) {
	return s.transition(ctx, actor, id, domain.ActionReview, nil)
}

// RequestDocuments sends the application back to the customer. A non-empty
// note is recorded on the history entry and as a customer visible note.
func (s *ApplicationService) RequestDocuments(ctx context.Context, actor domain.Principal, id idx.ID, note string) (domain.Application, error) {
	note = strings.TrimSpace(note)
	return s.transition(ctx, actor, id, domain.ActionRequestDocuments, func(tx store.Tx, a *domain.Application, now time.Time) (string, error) {
		if note == "" {
			return "", nil
		}
		err := tx.Notes().CreateNote(ctx, domain.Note{
			ID:            idx.NewAt(now),
			ApplicationID: a.ID,
			AuthorID:      actor.UserID,
			Body:          note,
			CreatedAt:     now,
		})
		if err != nil {
			return "", fmt.Errorf("create note: %w", err)
		}
		return note, nil
	})
}

func (s *ApplicationService) Resubmit(ctx context.Context, actor domain.Principal, id idx.ID, comment string) (domain.Application, error) {
	return s.transition(ctx, actor, id, domain.ActionResubmit, func(store.Tx, *domain.Application, time.Time) (string, error) {
		return strings.TrimSpace(comment), nil
	})
}

// Approve records the decision and the loan terms. The monthly payment is
// recomputed whenever amount, term and rate are all known.
func (s *ApplicationService) Approve(ctx context.Context, actor domain.Principal, id idx.ID, in ApproveInput) (domain.Application, error) {
	return s.transition(ctx, actor, id, domain.ActionApprove, func(_ store.Tx, a *domain.Application, now time.Time) (string, error) {
		var v domain.ValidationError
		if in.InterestRateBps != nil {
			if *in.InterestRateBps < 0 || *in.InterestRateBps > maxInterestBps {
				v.Add("interest_rate", "must be between 0 and 100 percent")
			}
			a.InterestRateBps = in.InterestRateBps
		}
		if in.LoanTerm != nil {
			if *in.LoanTerm <= 0 || *in.LoanTerm > maxLoanTerm {
				v.Add("loan_term", fmt.Sprintf("must be between 1 and %d months", maxLoanTerm))
			}
			a.LoanTerm = in.LoanTerm
		}
		if err := v.Err(); err != nil {
			return "", err
		}

		if a.LoanAmount != nil && a.LoanTerm != nil && a.InterestRateBps != nil {
			mp := domain.MonthlyPayment(a.Financed(), *a.InterestRateBps, *a.LoanTerm)
			a.MonthlyPayment = &mp
		}
		a.DecidedAt = &now
		return strings.TrimSpace(in.Comment), nil
	})
}

// Reject closes the application. reason is required.
func (s *ApplicationService) Reject(ctx context.Context, actor domain.Principal, id idx.ID, reason string) (domain.Application, error) {
	reason = strings.TrimSpace(reason)
	return s.transition(ctx, actor, id, domain.ActionReject, func(_ store.Tx, a *domain.Application, now time.Time) (string, error) {
		if reason == "" {
			return "", domain.NewValidationError("rejection_reason", "is required")
		}
		a.RejectionReason = reason
		a.DecidedAt = &now
		return reason, nil
	})
}

// Sign accepts the approved agreement on the customer's behalf.
func (s *ApplicationService) Sign(ctx context.Context, actor domain.Principal, id idx.ID, in SignInput) (domain.Application, error) {
	return s.transition(ctx, actor, id, domain.ActionSign, func(_ store.Tx, a *domain.Application, now time.Time) (string, error) {
		if !in.AgreementAccepted {
			return "", domain.NewValidationError("agreement_accepted", "must be accepted")
		}
		a.AgreementAccepted = true
		a.SignatureData = in.SignatureData
		a.SignedAt = &now
		return signedComment, nil
	})
}

// effect mutates the application on its way to the next status and returns
// the history comment. It runs inside the transition's transaction.
type effect func(tx store.Tx, a *domain.Application, now time.Time) (string, error)

// transition runs one lifecycle action atomically: the status update is
// conditional on the status read and the history row is written in the
// same transaction.
func (s *ApplicationService) transition(ctx context.Context, actor domain.Principal, id idx.ID, action domain.Action, fx effect) (domain.Application, error) {
	var out domain.Application
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		a, err := load(ctx, tx, id)
		if err != nil {
			return err
		}
		now := nowFrom(s.Clock)
		if err := decide(actor, action, &a, now); err != nil {
			return err
		}
		to, err := domain.Next(a.Status, action)
		if err != nil {
			return err
		}

		next := a.Clone()
		var comment string
		if fx != nil {
			if comment, err = fx(tx, next, now); err != nil {
				return err
			}
		}
		next.Status = to
		next.UpdatedAt = now

		if err := tx.Applications().TransitionApplication(ctx, *next, a.Status); err != nil {
			if errors.Is(err, store.ErrStaleState) {
				return &domain.TransitionError{From: a.Status, Action: action}
			}
			return fmt.Errorf("transition application: %w", err)
		}
		err = tx.StatusHistory().AppendHistory(ctx, domain.StatusHistory{
			ID:            idx.NewAt(now),
			ApplicationID: a.ID,
			ActorID:       actor.UserID,
			FromStatus:    a.Status,
			ToStatus:      to,
			Comment:       comment,
			CreatedAt:     now,
		})
		if err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		out = *next
		return nil
	})

	s.auditDenied(ctx, actor, id, err)
	s.Metrics.observeTransition(action, outcome(err))
	return out, err
}

func outcome(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return "error"
}

func load(ctx context.Context, st store.Store, id idx.ID) (domain.Application, error) {
	a, err := st.Applications().GetApplicationByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Application{}, ErrNotFound
	}
	if err != nil {
		return domain.Application{}, fmt.Errorf("load application: %w", err)
	}
	return a, nil
}

// decide maps a policy deny to an error. A deny on state is an invalid
// transition rather than a permission problem.
func decide(actor domain.Principal, action domain.Action, a *domain.Application, now time.Time) error {
	d := policy.Authorize(actor, action, a)
	switch {
	case d.Allowed:
		return nil
	case d.Rule == policy.RuleState:
		return &domain.TransitionError{From: a.Status, Action: action}
	}
	return &ForbiddenError{Action: action, Rule: d.Rule, Reason: d.Reason, At: now}
}

// authorize is decide plus the permission_denied audit, for callers outside
// a transaction.
func (s *ApplicationService) authorize(ctx context.Context, actor domain.Principal, action domain.Action, a *domain.Application) error {
	err := decide(actor, action, a, nowFrom(s.Clock))
	var id idx.ID
	if a != nil {
		id = a.ID
	}
	s.auditDenied(ctx, actor, id, err)
	return err
}

func (s *ApplicationService) deny(ctx context.Context, actor domain.Principal, action domain.Action, a *domain.Application, d policy.Decision) error {
	err := &ForbiddenError{Action: action, Rule: d.Rule, Reason: d.Reason, At: nowFrom(s.Clock)}
	var id idx.ID
	if a != nil {
		id = a.ID
	}
	s.auditDenied(ctx, actor, id, err)
	return err
}

// auditDenied records permission_denied when err is a policy deny. It must
// run after any transaction has finished.
func (s *ApplicationService) auditDenied(ctx context.Context, actor domain.Principal, id idx.ID, err error) {
	var fe *ForbiddenError
	if !errors.As(err, &fe) {
		return
	}
	e := Event{
		Type:         domain.EventPermissionDenied,
		ActorID:      actor.UserID,
		ResourceType: resourceAppType,
		Metadata: map[string]any{
			"action": string(fe.Action),
			"rule":   string(fe.Rule),
			"reason": fe.Reason,
		},
	}
	if !id.IsZero() {
		e.ResourceID = id.String()
	}
	s.Audit.Record(ctx, e)
}

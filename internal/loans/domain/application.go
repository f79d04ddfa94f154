package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/aussiebroadwan/loandesk/pkg/cryptox"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
)

// Status is the lifecycle state of an application.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusSubmitted        Status = "submitted"
	StatusUnderReview      Status = "under_review"
	StatusPendingDocuments Status = "pending_documents"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusPending          Status = "pending" // signed, awaiting funding
)

var Statuses = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusUnderReview,
	StatusPendingDocuments,
	StatusApproved,
	StatusRejected,
	StatusPending,
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusPendingDocuments,
		StatusApproved, StatusRejected, StatusPending:
		return true
	}
	return false
}

// Terminal reports whether no action can move an application out of s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusPending
}

func (s Status) String() string { return string(s) }

const (
	MinStep = 1
	MaxStep = 5
)

// Application is a loan application. Money is held in cents and the
// interest rate in basis points.
type Application struct {
	ID                idx.ID
	UserID            idx.ID
	Number            string
	Status            Status
	CurrentStep       int
	DateOfBirth       string // YYYY-MM-DD
	LoanAmount        *int64
	DownPayment       *int64
	LoanTerm          *int // months
	InterestRateBps   *int
	MonthlyPayment    *int64
	RejectionReason   string
	SignatureData     string
	AgreementAccepted bool
	SubmittedAt       *time.Time
	DecidedAt         *time.Time
	SignedAt          *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewApplication returns a draft at step 1 owned by owner.
func NewApplication(id, owner idx.ID, number string, now time.Time) *Application {
	now = now.UTC()
	return &Application{
		ID:          id,
		UserID:      owner,
		Number:      number,
		Status:      StatusDraft,
		CurrentStep: MinStep,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (a *Application) OwnedBy(userID idx.ID) bool {
	return !userID.IsZero() && a.UserID == userID
}

// IsSigned holds only for an approved application the customer accepted
// and signed.
func (a *Application) IsSigned() bool {
	return a.SignedAt != nil && a.AgreementAccepted
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (a *Application) Clone() *Application {
	c := *a
	c.LoanAmount = clonePtr(a.LoanAmount)
	c.DownPayment = clonePtr(a.DownPayment)
	c.LoanTerm = clonePtr(a.LoanTerm)
	c.InterestRateBps = clonePtr(a.InterestRateBps)
	c.MonthlyPayment = clonePtr(a.MonthlyPayment)
	c.SubmittedAt = clonePtr(a.SubmittedAt)
	c.DecidedAt = clonePtr(a.DecidedAt)
	c.SignedAt = clonePtr(a.SignedAt)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ApplicationNumber formats AL-YYYYMMDD-XXXXXX with six random hex digits.
func ApplicationNumber(now time.Time) (string, error) {
	suffix, err := cryptox.RandomHex(3)
	if err != nil {
		return "", err
	}
	return "AL-" + now.UTC().Format("20060102") + "-" + suffix, nil
}

// MonthlyPayment amortizes principal cents over termMonths at rateBps per
// year, rounded to the nearest cent. A zero rate divides evenly.
func MonthlyPayment(principal int64, rateBps, termMonths int) int64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}
	p := float64(principal)
	n := float64(termMonths)
	if rateBps <= 0 {
		return int64(math.Round(p / n))
	}
	r := float64(rateBps) / 10000 / 12
	return int64(math.Round(p * r / (1 - math.Pow(1+r, -n))))
}

// Financed returns the loan amount less the down payment.
func (a *Application) Financed() int64 {
	var amt, down int64
	if a.LoanAmount != nil {
		amt = *a.LoanAmount
	}
	if a.DownPayment != nil {
		down = *a.DownPayment
	}
	return amt - down
}

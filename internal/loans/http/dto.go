package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/service"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
	"github.com/aussiebroadwan/loandesk/pkg/loansdk"
)

func toUser(u domain.User) loansdk.User {
	return loansdk.User{
		ID:              u.ID.String(),
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Phone:           u.Phone,
		Role:            string(u.Role),
		MFAEnabled:      u.MFAEnabled(),
		SignInCount:     u.SignInCount,
		CurrentSignInAt: u.CurrentSignInAt,
		LastSignInAt:    u.LastSignInAt,
		CurrentSignInIP: u.CurrentSignInIP,
		LastSignInIP:    u.LastSignInIP,
		CreatedAt:       u.CreatedAt,
	}
}

func toActivity(e domain.AuditEvent) loansdk.ActivityEvent {
	return loansdk.ActivityEvent{
		ID:           e.ID.String(),
		EventType:    string(e.Type),
		IPAddress:    e.IP,
		UserAgent:    e.UserAgent,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Metadata:     e.Metadata,
		Success:      e.Success,
		CreatedAt:    e.CreatedAt,
	}
}

func toApplication(a domain.Application) loansdk.Application {
	return loansdk.Application{
		ID:                a.ID.String(),
		UserID:            a.UserID.String(),
		Number:            a.Number,
		Status:            string(a.Status),
		CurrentStep:       a.CurrentStep,
		DateOfBirth:       a.DateOfBirth,
		LoanAmount:        a.LoanAmount,
		DownPayment:       a.DownPayment,
		LoanTerm:          a.LoanTerm,
		InterestRateBps:   a.InterestRateBps,
		MonthlyPayment:    a.MonthlyPayment,
		RejectionReason:   a.RejectionReason,
		AgreementAccepted: a.AgreementAccepted,
		SubmittedAt:       a.SubmittedAt,
		DecidedAt:         a.DecidedAt,
		SignedAt:          a.SignedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func toHistory(h domain.StatusHistory) loansdk.HistoryEntry {
	return loansdk.HistoryEntry{
		ID:         h.ID.String(),
		ActorID:    h.ActorID.String(),
		FromStatus: string(h.FromStatus),
		ToStatus:   string(h.ToStatus),
		Comment:    h.Comment,
		CreatedAt:  h.CreatedAt,
	}
}

func toNote(n domain.Note) loansdk.Note {
	return loansdk.Note{
		ID:        n.ID.String(),
		AuthorID:  n.AuthorID.String(),
		Body:      n.Body,
		Internal:  n.Internal,
		CreatedAt: n.CreatedAt,
	}
}

func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

func pageMeta[T any](p service.Page[T]) loansdk.PageMeta {
	return loansdk.PageMeta{Total: p.Total, Page: p.Page, Limit: p.PerPage, TotalPages: p.TotalPages()}
}

func status(code int, msg string) loansdk.StatusBody {
	return loansdk.StatusBody{Code: code, Message: msg}
}

// pageRequest reads ?page= and ?limit=. Missing values take the defaults.
func pageRequest(r *http.Request) (service.PageRequest, error) {
	var (
		pr service.PageRequest
		v  domain.ValidationError
	)
	if s := r.URL.Query().Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			v.Add("page", "must be a positive integer")
		}
		pr.Page = n
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			v.Add("limit", "must be a positive integer")
		}
		pr.PerPage = n
	}
	return pr, v.Err()
}

func pathID(r *http.Request) (idx.ID, error) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		return idx.Zero, errAppNotFound
	}
	return id, nil
}

func fmtAny(v any) string { return fmt.Sprint(v) }

func fieldError(field, msg string) error {
	return domain.NewValidationError(field, msg)
}

func isErr(err, target error) bool { return errors.Is(err, target) }

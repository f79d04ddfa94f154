package sqldb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/store"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
)

const applicationColumns = `id, user_id, application_number, status, current_step, dob,
	loan_amount, down_payment, loan_term, interest_rate_bps, monthly_payment,
	rejection_reason, signature_data, agreement_accepted,
	submitted_at, decided_at, signed_at, created_at, updated_at`

type applicationsRepo struct {
	conn
}

func scanApplication(row rowScanner) (domain.Application, error) {
	var (
		a                                 domain.Application
		id, userID, status                string
		dob, reason, signature            sql.NullString
		amount, down, term, rate, payment sql.NullInt64
		submittedAt, decidedAt, signedAt  sql.NullTime
	)
	err := row.Scan(&id, &userID, &a.Number, &status, &a.CurrentStep, &dob,
		&amount, &down, &term, &rate, &payment,
		&reason, &signature, &a.AgreementAccepted,
		&submittedAt, &decidedAt, &signedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Application{}, err
	}
	a.ID = idx.ID(id)
	a.UserID = idx.ID(userID)
	a.Status = domain.Status(status)
	a.DateOfBirth = dob.String
	a.LoanAmount = ptrInt64(amount)
	a.DownPayment = ptrInt64(down)
	a.LoanTerm = ptrInt(term)
	a.InterestRateBps = ptrInt(rate)
	a.MonthlyPayment = ptrInt64(payment)
	a.RejectionReason = reason.String
	a.SignatureData = signature.String
	a.SubmittedAt = ptrTime(submittedAt)
	a.DecidedAt = ptrTime(decidedAt)
	a.SignedAt = ptrTime(signedAt)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func (r *applicationsRepo) CreateApplication(ctx context.Context, a domain.Application) error {
	_, err := r.exec(ctx, `INSERT INTO applications (`+applicationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.UserID.String(), a.Number, string(a.Status), a.CurrentStep,
		nullString(a.DateOfBirth),
		nullInt64(a.LoanAmount), nullInt64(a.DownPayment), nullInt(a.LoanTerm),
		nullInt(a.InterestRateBps), nullInt64(a.MonthlyPayment),
		nullString(a.RejectionReason), nullString(a.SignatureData), a.AgreementAccepted,
		nullTime(a.SubmittedAt), nullTime(a.DecidedAt), nullTime(a.SignedAt),
		utc(a.CreatedAt), utc(a.UpdatedAt))
	return err
}

func (r *applicationsRepo) GetApplicationByID(ctx context.Context, id idx.ID) (domain.Application, error) {
	a, err := scanApplication(r.queryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id.String()))
	return a, mapNotFound(err)
}

func (r *applicationsRepo) ListApplications(
	ctx context.Context,
	f store.ApplicationFilter,
	page store.Page,
) ([]domain.Application, int, error) {
	var (
		conds []string
		args  []any
	)
	if !f.OwnerID.IsZero() {
		conds = append(conds, "user_id = ?")
		args = append(args, f.OwnerID.String())
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.queryRow(ctx, `SELECT COUNT(*) FROM applications`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.query(ctx, `SELECT `+applicationColumns+` FROM applications`+where+
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, append(args, page.Limit, page.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *applicationsRepo) UpdateApplicationFields(ctx context.Context, a domain.Application) error {
	res, err := r.exec(ctx, `UPDATE applications SET
			current_step = ?, dob = ?, loan_amount = ?, down_payment = ?, loan_term = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		a.CurrentStep, nullString(a.DateOfBirth), nullInt64(a.LoanAmount), nullInt64(a.DownPayment),
		nullInt(a.LoanTerm), utc(a.UpdatedAt), a.ID.String(), string(a.Status))
	return expectOne(res, err, store.ErrStaleState)
}

func (r *applicationsRepo) TransitionApplication(ctx context.Context, a domain.Application, from domain.Status) error {
	res, err := r.exec(ctx, `UPDATE applications SET
			status = ?, loan_term = ?, interest_rate_bps = ?, monthly_payment = ?,
			rejection_reason = ?, signature_data = ?, agreement_accepted = ?,
			submitted_at = ?, decided_at = ?, signed_at = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(a.Status), nullInt(a.LoanTerm), nullInt(a.InterestRateBps), nullInt64(a.MonthlyPayment),
		nullString(a.RejectionReason), nullString(a.SignatureData), a.AgreementAccepted,
		nullTime(a.SubmittedAt), nullTime(a.DecidedAt), nullTime(a.SignedAt), utc(a.UpdatedAt),
		a.ID.String(), string(from))
	return expectOne(res, err, store.ErrStaleState)
}

func (r *applicationsRepo) DeleteApplication(ctx context.Context, id idx.ID, status domain.Status) error {
	res, err := r.exec(ctx, `DELETE FROM applications WHERE id = ? AND status = ?`, id.String(), string(status))
	return expectOne(res, err, store.ErrStaleState)
}

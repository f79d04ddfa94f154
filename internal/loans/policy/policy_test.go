package policy_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/policy"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
	"github.com/stretchr/testify/require"
)

var (
	ownerID = idx.MustParse("01HZZZZZZZZZZZZZZZZZZZZZZ7")
	otherID = idx.MustParse("01HZZZZZZZZZZZZZZZZZZZZZZ8")
	staffID = idx.MustParse("01HZZZZZZZZZZZZZZZZZZZZZZ9")
)

func app(st domain.Status) *domain.Application {
	a := domain.NewApplication(idx.New(), ownerID, "AL-20250101-000001", time.Unix(0, 0))
	a.Status = st
	return a
}

func principal(id idx.ID, r domain.Role) domain.Principal {
	return domain.Principal{UserID: id, Role: r}
}

// expected reimplements the rules independently so the exhaustive sweep
// below checks Authorize against a second reading of them.
func expected(p domain.Principal, action domain.Action, st domain.Status) bool {
	owner := p.UserID == ownerID
	staff := p.Role == domain.RoleLoanOfficer || p.Role == domain.RoleUnderwriter
	switch action {
	case domain.ActionShow:
		return owner || staff
	case domain.ActionCreate:
		return p.Role == domain.RoleCustomer
	case domain.ActionUpdate:
		return staff || (owner && (st == domain.StatusDraft || st == domain.StatusPendingDocuments))
	case domain.ActionDestroy, domain.ActionSubmit:
		return owner && st == domain.StatusDraft
	case domain.ActionSign:
		return owner && st == domain.StatusApproved
	case domain.ActionResubmit:
		return owner && st == domain.StatusPendingDocuments
	case domain.ActionReview, domain.ActionRequestDocuments, domain.ActionAddNote:
		return staff
	case domain.ActionApprove, domain.ActionReject:
		return p.Role == domain.RoleUnderwriter
	}
	return false
}

func TestAuthorizeIsTotalAndDeterministic(t *testing.T) {
	principals := []domain.Principal{
		principal(ownerID, domain.RoleCustomer),
		principal(otherID, domain.RoleCustomer),
		principal(staffID, domain.RoleLoanOfficer),
		principal(staffID, domain.RoleUnderwriter),
	}

	for _, p := range principals {
		for _, action := range domain.Actions {
			for _, st := range domain.Statuses {
				a := app(st)
				first := policy.Authorize(p, action, a)
				second := policy.Authorize(p, action, a)
				require.Equal(t, first, second)

				want := expected(p, action, st)
				require.Equal(t, want, first.Allowed,
					"role=%s owner=%t action=%s state=%s rule=%s",
					p.Role, p.UserID == ownerID, action, st, first.Rule)
				if first.Allowed {
					require.Empty(t, first.Rule)
				} else {
					require.NotEmpty(t, first.Rule)
					require.NotEmpty(t, first.Reason)
				}
			}
		}
	}
}

func TestAuthorizeReportsFailingRule(t *testing.T) {
	tests := []struct {
		name   string
		p      domain.Principal
		action domain.Action
		app    *domain.Application
		rule   policy.Rule
	}{
		{"customer approves", principal(ownerID, domain.RoleCustomer), domain.ActionApprove, app(domain.StatusUnderReview), policy.RuleRole},
		{"officer approves", principal(staffID, domain.RoleLoanOfficer), domain.ActionApprove, app(domain.StatusUnderReview), policy.RuleRole},
		{"customer reviews", principal(ownerID, domain.RoleCustomer), domain.ActionReview, app(domain.StatusSubmitted), policy.RuleRole},
		{"staff creates", principal(staffID, domain.RoleUnderwriter), domain.ActionCreate, nil, policy.RuleRole},
		{"stranger views", principal(otherID, domain.RoleCustomer), domain.ActionShow, app(domain.StatusDraft), policy.RuleOwnership},
		{"stranger submits", principal(otherID, domain.RoleCustomer), domain.ActionSubmit, app(domain.StatusDraft), policy.RuleOwnership},
		{"stranger submits wrong state", principal(otherID, domain.RoleCustomer), domain.ActionSubmit, app(domain.StatusApproved), policy.RuleOwnership},
		{"owner resubmits draft", principal(ownerID, domain.RoleCustomer), domain.ActionSubmit, app(domain.StatusSubmitted), policy.RuleState},
		{"owner signs unapproved", principal(ownerID, domain.RoleCustomer), domain.ActionSign, app(domain.StatusUnderReview), policy.RuleState},
		{"owner edits submitted", principal(ownerID, domain.RoleCustomer), domain.ActionUpdate, app(domain.StatusSubmitted), policy.RuleState},
		{"owner deletes submitted", principal(ownerID, domain.RoleCustomer), domain.ActionDestroy, app(domain.StatusSubmitted), policy.RuleState},
		{"underwriter signs", principal(staffID, domain.RoleUnderwriter), domain.ActionSign, app(domain.StatusApproved), policy.RuleRole},
		{"unknown action", principal(staffID, domain.RoleUnderwriter), domain.Action("purge"), app(domain.StatusDraft), policy.RuleUnknownAction},
		{"anonymous", domain.Principal{}, domain.ActionShow, app(domain.StatusDraft), policy.RuleRole},
		{"made up role", principal(ownerID, domain.Role("admin")), domain.ActionShow, app(domain.StatusDraft), policy.RuleRole},
		{"show without resource", principal(staffID, domain.RoleUnderwriter), domain.ActionShow, nil, policy.RuleOwnership},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy.Authorize(tt.p, tt.action, tt.app)
			require.False(t, d.Allowed)
			require.Equal(t, tt.rule, d.Rule)
			require.False(t, policy.Can(tt.p, tt.action, tt.app))
		})
	}
}

func TestCustomerCanCreateWithoutResource(t *testing.T) {
	require.True(t, policy.Can(principal(ownerID, domain.RoleCustomer), domain.ActionCreate, nil))
}

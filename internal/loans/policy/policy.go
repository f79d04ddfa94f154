// Package policy decides whether a principal may perform an action on a loan
// application. It is pure: no I/O, no clock, no globals beyond fixed tables.
package policy

import (
	"fmt"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
)

// Rule names the check that produced a deny.
type Rule string

const (
	RuleRole          Rule = "role"
	RuleOwnership     Rule = "ownership"
	RuleState         Rule = "state"
	RuleUnknownAction Rule = "unknown_action"
)

// Decision is the outcome of Authorize. Rule and Reason are empty when
// Allowed is true.
type Decision struct {
	Allowed bool
	Rule    Rule
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(rule Rule, format string, args ...any) Decision {
	return Decision{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// Authorize evaluates action for p against app. app may be nil only for
// ActionCreate; any other action without a resource is denied on ownership.
// Checks run role first, then ownership, then state, and the first failure
// is reported.
func Authorize(p domain.Principal, action domain.Action, app *domain.Application) Decision {
	if !p.Role.Valid() || p.IsZero() {
		return deny(RuleRole, "principal has no valid role")
	}

	switch action {
	case domain.ActionCreate:
		if p.Role != domain.RoleCustomer {
			return deny(RuleRole, "only customers create applications")
		}
		return allow()

	case domain.ActionShow:
		if app == nil {
			return deny(RuleOwnership, "no application")
		}
		if p.Role.IsStaff() || app.OwnedBy(p.UserID) {
			return allow()
		}
		return deny(RuleOwnership, "not the owner")

	case domain.ActionUpdate:
		if app == nil {
			return deny(RuleOwnership, "no application")
		}
		if p.Role.IsStaff() {
			return allow()
		}
		if !app.OwnedBy(p.UserID) {
			return deny(RuleOwnership, "not the owner")
		}
		if app.Status != domain.StatusDraft && app.Status != domain.StatusPendingDocuments {
			return deny(RuleState, "application is %s", app.Status)
		}
		return allow()

	case domain.ActionDestroy, domain.ActionSubmit:
		return ownerInState(p, app, domain.StatusDraft)
	case domain.ActionSign:
		return ownerInState(p, app, domain.StatusApproved)
	case domain.ActionResubmit:
		return ownerInState(p, app, domain.StatusPendingDocuments)

	case domain.ActionReview, domain.ActionRequestDocuments, domain.ActionAddNote:
		if !p.Role.IsStaff() {
			return deny(RuleRole, "staff only")
		}
		return allow()

	case domain.ActionApprove, domain.ActionReject:
		if p.Role != domain.RoleUnderwriter {
			return deny(RuleRole, "underwriters only")
		}
		return allow()
	}

	return deny(RuleUnknownAction, "unknown action %q", action)
}

func ownerInState(p domain.Principal, app *domain.Application, want domain.Status) Decision {
	if p.Role != domain.RoleCustomer {
		return deny(RuleRole, "only the applicant may do this")
	}
	if app == nil || !app.OwnedBy(p.UserID) {
		return deny(RuleOwnership, "not the owner")
	}
	if app.Status != want {
		return deny(RuleState, "application is %s, must be %s", app.Status, want)
	}
	return allow()
}

// Can is Authorize reduced to a bool.
func Can(p domain.Principal, action domain.Action, app *domain.Application) bool {
	return Authorize(p, action, app).Allowed
}

package domain

import (
	"time"

	"github.com/aussiebroadwan/loandesk/pkg/idx"
)

// StatusHistory is an immutable record of one transition.
type StatusHistory struct {
	ID            idx.ID
	ApplicationID idx.ID
	ActorID       idx.ID
	FromStatus    Status
	ToStatus      Status
	Comment       string
	CreatedAt     time.Time
}

// Note is a free text comment on an application. Internal notes are only
// shown to staff.
type Note struct {
	ID            idx.ID
	ApplicationID idx.ID
	AuthorID      idx.ID
	Body          string
	Internal      bool
	CreatedAt     time.Time
}

// Revocation marks a token id as unusable until ExpiresAt.
type Revocation struct {
	JTI       string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Active reports whether the revocation still blocks the token at now.
func (r Revocation) Active(now time.Time) bool {
	return now.Before(r.ExpiresAt)
}

// Package service implements the loan desk use cases on top of the store:
// accounts and sessions, token revocation, MFA, the application lifecycle
// and the security audit log.
package service

import (
	"context"
	"time"

	"github.com/juju/clock"

	"github.com/aussiebroadwan/loandesk/internal/loans/store"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

func nowFrom(c clock.Clock) time.Time {
	if c == nil {
		c = clock.WallClock
	}
	return c.Now().UTC()
}

type clientInfoKey struct{}

// ClientInfo describes the caller for audit records.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// WithClientInfo attaches the caller's address and user agent to ctx.
func WithClientInfo(ctx context.Context, ci ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, ci)
}

func ClientInfoFrom(ctx context.Context) ClientInfo {
	ci, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return ci
}

// PageRequest is a 1-based page and a page size. Zero values take the
// defaults and PerPage is capped at MaxPerPage.
type PageRequest struct {
	Page    int
	PerPage int
}

func (p PageRequest) normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p PageRequest) storePage() store.Page {
	return store.Page{Limit: p.PerPage, Offset: (p.Page - 1) * p.PerPage}
}

// Page is one page of a listing.
type Page[T any] struct {
	Items   []T
	Page    int
	PerPage int
	Total   int
}

func (p Page[T]) TotalPages() int {
	if p.PerPage == 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

package domain

import (
	"strings"
	"time"

	"github.com/aussiebroadwan/loandesk/pkg/idx"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

// User is an account holder. Users are never hard deleted.
type User struct {
	ID             idx.ID
	Email          string
	PasswordHash   string // argon2id PHC string, or a legacy bcrypt hash
	FirstName      string
	LastName       string
	Phone          string
	Role           Role
	FailedAttempts int
	LockedAt       *time.Time
	MFASecret      *string    // base32 TOTP secret, set by setup
	MFAEnabledAt   *time.Time // non-nil once the secret has been confirmed

	SignInCount     int
	CurrentSignInAt *time.Time
	LastSignInAt    *time.Time
	CurrentSignInIP string
	LastSignInIP    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUserParams are the inputs for NewUser. PasswordHash must already be
// hashed; there is no way to build a User from a plaintext password.
type NewUserParams struct {
	ID           idx.ID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	Now          time.Time
}

// NewUser validates p and returns a user with a normalised email.
func NewUser(p NewUserParams) (*User, error) {
	var v ValidationError
	email := NormalizeEmail(p.Email)
	if p.ID.IsZero() {
		v.Add("id", "is required")
	}
	if email == "" {
		v.Add("email", "is required")
	} else if !looksLikeEmail(email) {
		v.Add("email", "is invalid")
	}
	if p.PasswordHash == "" {
		v.Add("password", "is required")
	}
	if strings.TrimSpace(p.FirstName) == "" {
		v.Add("first_name", "is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		v.Add("last_name", "is required")
	}
	if !p.Role.Valid() {
		v.Add("role", "is invalid")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	now := p.Now.UTC()
	return &User{
		ID:           p.ID,
		Email:        email,
		PasswordHash: p.PasswordHash,
		FirstName:    strings.TrimSpace(p.FirstName),
		LastName:     strings.TrimSpace(p.LastName),
		Phone:        strings.TrimSpace(p.Phone),
		Role:         p.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsLocked() bool { return u.LockedAt != nil }

// LockExpired reports whether a lock placed at LockedAt has run for at
// least d by now.
func (u *User) LockExpired(now time.Time, d time.Duration) bool {
	return u.LockedAt != nil && !now.Before(u.LockedAt.Add(d))
}

func (u *User) MFAEnabled() bool { return u.MFAEnabledAt != nil && u.MFASecret != nil }

// Principal returns the authorization view of u.
func (u User) Principal() Principal {
	return Principal{UserID: u.ID, Role: u.Role, Email: u.Email}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidatePassword checks the plaintext length bounds.
func ValidatePassword(field, pw string) *FieldError {
	switch n := len(pw); {
	case n == 0:
		return &FieldError{Field: field, Message: "is required"}
	case n < MinPasswordLength:
		return &FieldError{Field: field, Message: "is too short (minimum is 6 characters)"}
	case n > MaxPasswordLength:
		return &FieldError{Field: field, Message: "is too long (maximum is 128 characters)"}
	}
	return nil
}

func looksLikeEmail(s string) bool {
	local, domain, ok := strings.Cut(s, "@")
	return ok && local != "" && strings.Contains(domain, ".") &&
		!strings.ContainsAny(s, " \t\r\n") && !strings.HasSuffix(domain, ".")
}

// Principal is the authenticated actor seen by the authorization policy.
type Principal struct {
	UserID idx.ID
	Role   Role
	Email  string
}

// IsZero reports an anonymous principal.
func (p Principal) IsZero() bool { return p.UserID.IsZero() }

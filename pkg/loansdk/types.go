package loansdk

import "time"

// ============================================================================
// Envelopes
// ============================================================================

// StatusBody is the {"code","message"} pair in every simple response.
type StatusBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatusResponse is a response carrying only a status.
type StatusResponse struct {
	Status StatusBody `json:"status"`
}

// FieldError names one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorBody is the structured failure used for authorization and validation
// errors.
type ErrorBody struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    []FieldError   `json:"details,omitempty"`
	InnerError map[string]any `json:"innererror,omitempty"`
}

// ErrorResponse is {"error":{...}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// PageMeta describes one page of a listing.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// ============================================================================
// Accounts
// ============================================================================

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTPCode  string `json:"otp_code,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	Password        string `json:"password"`
}

// ProfileRequest updates the profile. Nil fields are left as they are.
type ProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// User is the public view of an account.
type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Phone           string     `json:"phone,omitempty"`
	Role            string     `json:"role"`
	MFAEnabled      bool       `json:"mfa_enabled"`
	SignInCount     int        `json:"sign_in_count"`
	CurrentSignInAt *time.Time `json:"current_sign_in_at,omitempty"`
	LastSignInAt    *time.Time `json:"last_sign_in_at,omitempty"`
	CurrentSignInIP string     `json:"current_sign_in_ip,omitempty"`
	LastSignInIP    string     `json:"last_sign_in_ip,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type UserResponse struct {
	Status StatusBody `json:"status"`
	Data   User       `json:"data"`
}

// ActivityEvent is one audit record about the signed in user.
type ActivityEvent struct {
	ID           string         `json:"id"`
	EventType    string         `json:"event_type"`
	IPAddress    string         `json:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	ResourceType string         `json:"resource_type,omitempty"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Success      bool           `json:"success"`
	CreatedAt    time.Time      `json:"created_at"`
}

type ActivityResponse struct {
	Status StatusBody      `json:"status"`
	Data   []ActivityEvent `json:"data"`
}

type UserListResponse struct {
	Status StatusBody `json:"status"`
	Data   []User     `json:"data"`
	Meta   PageMeta   `json:"meta"`
}

// ============================================================================
// MFA
// ============================================================================

type MFACodeRequest struct {
	Code string `json:"code"`
}

type MFASetup struct {
	Secret  string `json:"secret"`
	URL     string `json:"otpauth_url"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

type MFASetupResponse struct {
	Status StatusBody `json:"status"`
	Data   MFASetup   `json:"data"`
}

type MFAStatus struct {
	Enabled bool `json:"enabled"`
}

type MFAStatusResponse struct {
	Status StatusBody `json:"status"`
	Data   MFAStatus  `json:"data"`
}

// ============================================================================
// Applications
// ============================================================================

// ApplicationRequest creates or updates an application. Money is in cents.
// Nil fields are left as they are.
type ApplicationRequest struct {
	CurrentStep *int    `json:"current_step,omitempty"`
	DateOfBirth *string `json:"dob,omitempty"`
	LoanAmount  *int64  `json:"loan_amount,omitempty"`
	DownPayment *int64  `json:"down_payment,omitempty"`
	LoanTerm    *int    `json:"loan_term,omitempty"`
}

// Application is the wire form of a loan application. Money is in cents and
// the rate in basis points.
type Application struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Number            string     `json:"application_number"`
	Status            string     `json:"status"`
	CurrentStep       int        `json:"current_step"`
	DateOfBirth       string     `json:"dob,omitempty"`
	LoanAmount        *int64     `json:"loan_amount,omitempty"`
	DownPayment       *int64     `json:"down_payment,omitempty"`
	LoanTerm          *int       `json:"loan_term,omitempty"`
	InterestRateBps   *int       `json:"interest_rate_bps,omitempty"`
	MonthlyPayment    *int64     `json:"monthly_payment,omitempty"`
	RejectionReason   string     `json:"rejection_reason,omitempty"`
	AgreementAccepted bool       `json:"agreement_accepted"`
	SubmittedAt       *time.Time `json:"submitted_at,omitempty"`
	DecidedAt         *time.Time `json:"decided_at,omitempty"`
	SignedAt          *time.Time `json:"signed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type ApplicationResponse struct {
	Status StatusBody  `json:"status"`
	Data   Application `json:"data"`
}

type ApplicationListResponse struct {
	Status StatusBody    `json:"status"`
	Data   []Application `json:"data"`
	Meta   PageMeta      `json:"meta"`
}

// ListApplicationsOptions filters GET /v1/applications. Zero values are
// omitted.
type ListApplicationsOptions struct {
	Status string
	Page   int
	Limit  int
}

type HistoryEntry struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id,omitempty"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Status StatusBody     `json:"status"`
	Data   []HistoryEntry `json:"data"`
}

type NoteRequest struct {
	Note     string `json:"note"`
	Internal bool   `json:"internal,omitempty"`
}

type Note struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"note"`
	Internal  bool      `json:"internal"`
	CreatedAt time.Time `json:"created_at"`
}

type NoteResponse struct {
	Status StatusBody `json:"status"`
	Data   Note       `json:"data"`
}

type NoteListResponse struct {
	Status StatusBody `json:"status"`
	Data   []Note     `json:"data"`
}

// ============================================================================
// Transitions
// ============================================================================

type RequestDocumentsRequest struct {
	Note string `json:"note,omitempty"`
}

type ResubmitRequest struct {
	Comment string `json:"comment,omitempty"`
}

// ApproveRequest optionally sets the loan terms on approval.
type ApproveRequest struct {
	InterestRateBps *int   `json:"interest_rate_bps,omitempty"`
	LoanTerm        *int   `json:"loan_term,omitempty"`
	Comment         string `json:"comment,omitempty"`
}

type RejectRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

type SignRequest struct {
	AgreementAccepted bool   `json:"agreement_accepted"`
	SignatureData     string `json:"signature_data,omitempty"`
}

// ============================================================================
// Health
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

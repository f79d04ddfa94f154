package http

import (
	"errors"
	"io"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/service"
	"github.com/aussiebroadwan/loandesk/pkg/httpx"
	"github.com/aussiebroadwan/loandesk/pkg/loansdk"
	"github.com/aussiebroadwan/loandesk/pkg/slogx"
)

var (
	errAuthRequired  = errors.New("authentication required")
	errMalformedBody = errors.New("malformed JSON body")
	errAppNotFound   = errors.New("application not found")
)

const (
	forbiddenMessage  = "You are not authorized to perform this action."
	unexpectedMessage = "An unexpected error occurred"
)

// errorWriter turns service errors into responses. In production unexpected
// errors only carry a generic message.
type errorWriter struct {
	Production bool
}

func (e errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *domain.ValidationError
		te *domain.TransitionError
		fe *service.ForbiddenError
		le *service.LockedError
	)

	switch {
	case errors.As(err, &ve):
		details := make([]httpx.FieldDetail, 0, len(ve.Fields))
		for _, f := range ve.Fields {
			details = append(details, httpx.FieldDetail{Field: f.Field, Message: f.Message})
		}
		httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrorBody{
			Code:    loansdk.CodeValidationError,
			Message: "Validation failed",
			Details: details,
		})

	case errors.As(err, &te):
		httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrorBody{
			Code:    loansdk.CodeInvalidTransition,
			Message: te.Error(),
			InnerError: map[string]any{
				"code":   loansdk.CodeInvalidTransition,
				"from":   string(te.From),
				"action": string(te.Action),
			},
		})

	case errors.As(err, &fe):
		httpx.WriteError(w, http.StatusForbidden, httpx.ErrorBody{
			Code:    loansdk.CodeForbidden,
			Message: forbiddenMessage,
			InnerError: map[string]any{
				"code":      loansdk.InnerPolicyViolation,
				"action":    string(fe.Action),
				"rule":      string(fe.Rule),
				"timestamp": fe.At.UTC().Format(time.RFC3339),
			},
		})

	case errors.As(err, &le):
		if secs := int(time.Until(le.Until).Seconds()); secs > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(secs))
		}
		httpx.WriteStatus(w, http.StatusLocked, "Account is locked. Please try again later.")

	case errors.Is(err, service.ErrMFARequired):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrorBody{
			Code:       loansdk.CodeUnauthorized,
			Message:    "A TOTP code is required to sign in.",
			InnerError: map[string]any{"code": loansdk.InnerMFARequired},
		})

	case errors.Is(err, errAuthRequired):
		unauthorized(w, "Authentication required")
	case errors.Is(err, service.ErrTokenExpired):
		unauthorized(w, "Token has expired")
	case errors.Is(err, service.ErrTokenRevoked):
		unauthorized(w, "Token has been revoked")
	case errors.Is(err, service.ErrPrincipalNotFound):
		unauthorized(w, "User not found")
	case errors.Is(err, service.ErrInvalidToken):
		unauthorized(w, "Invalid token")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteStatus(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrInvalidTOTPCode):
		httpx.WriteStatus(w, http.StatusUnauthorized, "Invalid TOTP code")

	case errors.Is(err, errMalformedBody):
		httpx.WriteStatus(w, http.StatusBadRequest, "Malformed JSON body")
	case errors.Is(err, errAppNotFound):
		httpx.WriteStatus(w, http.StatusNotFound, "Application not found")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteStatus(w, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrConflict):
		httpx.WriteStatus(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, service.ErrMFAAlreadyEnabled):
		httpx.WriteStatus(w, http.StatusConflict, "MFA is already enabled")
	case errors.Is(err, service.ErrMFANotEnabled):
		httpx.WriteStatus(w, http.StatusConflict, "MFA is not enabled")
	case errors.Is(err, service.ErrMFANotEnrolled):
		httpx.WriteStatus(w, http.StatusConflict, "MFA setup has not been started")

	default:
		e.internal(w, r, err)
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	httpx.WriteStatus(w, http.StatusUnauthorized, msg)
}

func (e errorWriter) internal(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Error("unhandled error", "error", err)

	body := httpx.ErrorBody{Code: loansdk.CodeInternalError, Message: unexpectedMessage}
	if !e.Production {
		body.Message = err.Error()
		body.InnerError = map[string]any{"stack": string(debug.Stack())}
	}
	httpx.WriteError(w, http.StatusInternalServerError, body)
}

// decode reads a JSON body into v. An empty body leaves v untouched when
// optional is set.
func decode(r *http.Request, v any, optional bool) error {
	err := httpx.DecodeJSON(r, v)
	switch {
	case err == nil:
		return nil
	case optional && errors.Is(err, io.EOF):
		return nil
	}
	return errMalformedBody
}

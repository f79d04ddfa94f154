package loansdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes in the "code" field of an ErrorBody. Simple failures (401,
// 404, 409, 423) use the status envelope instead and surface here with the
// HTTP status text as Code.
const (
	CodeUnauthorized      = "Unauthorized"
	CodeForbidden         = "Forbidden"
	CodeValidationError   = "ValidationError"
	CodeInvalidTransition = "InvalidTransition"
	CodeInternalError     = "InternalError"
	CodeRateLimitExceeded = "RateLimitExceeded"
)

// Inner codes carried in innererror.code.
const (
	InnerPolicyViolation   = "PolicyViolation"
	InnerInsufficientScope = "InsufficientScope"
	InnerMFARequired       = "MFARequired"
)

// ErrMissingScope is returned before a request is sent when the session's
// token lacks a scope the endpoint needs.
var ErrMissingScope = errors.New("loansdk: session lacks required scope")

// APIError is any non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	InnerCode  string
	Details    []FieldError
	Inner      map[string]any
}

func (e *APIError) Error() string {
	if e.InnerCode != "" {
		return fmt.Sprintf("%d %s (%s): %s", e.StatusCode, e.Code, e.InnerCode, e.Message)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
}

// HasField reports whether the error lists field among its details.
func (e *APIError) HasField(field string) bool {
	for _, d := range e.Details {
		if d.Field == field {
			return true
		}
	}
	return false
}

// StatusCode returns the HTTP status of err when it is an *APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// parseErrorResponse understands both {"error":{...}} and
// {"status":{...}} bodies.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Code != "" {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Code:       er.Error.Code,
			Message:    er.Error.Message,
			Details:    er.Error.Details,
			Inner:      er.Error.InnerError,
		}
		if c, ok := er.Error.InnerError["code"].(string); ok {
			apiErr.InnerCode = c
		}
		return apiErr
	}

	var sr StatusResponse
	if err := json.Unmarshal(body, &sr); err == nil && sr.Status.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       http.StatusText(resp.StatusCode),
			Message:    sr.Status.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       http.StatusText(resp.StatusCode),
		Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
	}
}

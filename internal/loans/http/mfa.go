package http

import (
	"net/http"

	"github.com/aussiebroadwan/loandesk/internal/loans/service"
	"github.com/aussiebroadwan/loandesk/pkg/httpx"
	"github.com/aussiebroadwan/loandesk/pkg/loansdk"
)

// MFAHandler handles the TOTP enrolment endpoints.
type MFAHandler struct {
	MFA  *service.MFAService
	errs errorWriter
}

// writeCodeError reports a wrong code as a validation failure on "code"
// rather than as a failed sign in.
func (h *MFAHandler) writeCodeError(w http.ResponseWriter, r *http.Request, err error) {
	if isErr(err, service.ErrInvalidTOTPCode) {
		err = fieldError("code", "is invalid")
	}
	h.errs.write(w, r, err)
}

// HandleStatus handles GET /v1/mfa/totp
//
//	@Summary	TOTP status
//	@Tags		MFA
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	loansdk.MFAStatusResponse
//	@Failure	401	{object}	loansdk.StatusResponse	"Invalid or missing token"
//	@Router		/v1/mfa/totp [get].
func (h *MFAHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	enabled, err := h.MFA.Status(r.Context(), sess.User.ID)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loansdk.MFAStatusResponse{
		Status: status(http.StatusOK, "OK"),
		Data:   loansdk.MFAStatus{Enabled: enabled},
	})
}

// HandleSetup handles POST /v1/mfa/totp/setup
//
//	@Summary		Start TOTP enrolment
//	@Description	Generates a new secret. MFA stays disabled until a code is confirmed with /v1/mfa/totp/enable.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	loansdk.MFASetupResponse	"Secret and otpauth URL"
//	@Failure		409	{object}	loansdk.StatusResponse		"MFA already enabled"
//	@Router			/v1/mfa/totp/setup [post].
func (h *MFAHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	setup, err := h.MFA.Setup(r.Context(), sess.User.ID)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loansdk.MFASetupResponse{
		Status: status(http.StatusOK, "Scan the secret with an authenticator app, then confirm a code."),
		Data: loansdk.MFASetup{
			Secret:  setup.Secret,
			URL:     setup.URL,
			Issuer:  setup.Issuer,
			Account: setup.Account,
		},
	})
}

// HandleEnable handles POST /v1/mfa/totp/enable
//
//	@Summary	Confirm TOTP enrolment
//	@Tags		MFA
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		loansdk.MFACodeRequest	true	"Current TOTP code"
//	@Success	200		{object}	loansdk.StatusResponse	"MFA enabled"
//	@Failure	409		{object}	loansdk.StatusResponse	"Not enrolled or already enabled"
//	@Failure	422		{object}	loansdk.ErrorResponse	"Invalid code"
//	@Router		/v1/mfa/totp/enable [post].
func (h *MFAHandler) HandleEnable(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req loansdk.MFACodeRequest
	if err := decode(r, &req, false); err != nil {
		h.errs.write(w, r, err)
		return
	}
	if err := h.MFA.Enable(r.Context(), sess.User.ID, req.Code); err != nil {
		h.writeCodeError(w, r, err)
		return
	}
	httpx.WriteStatus(w, http.StatusOK, "MFA enabled")
}

// HandleDisable handles DELETE /v1/mfa/totp
//
//	@Summary	Disable TOTP
//	@Tags		MFA
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		loansdk.MFACodeRequest	true	"Current TOTP code"
//	@Success	200		{object}	loansdk.StatusResponse	"MFA disabled"
//	@Failure	409		{object}	loansdk.StatusResponse	"MFA not enabled"
//	@Failure	422		{object}	loansdk.ErrorResponse	"Invalid code"
//	@Router		/v1/mfa/totp [delete].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req loansdk.MFACodeRequest
	if err := decode(r, &req, false); err != nil {
		h.errs.write(w, r, err)
		return
	}
	if err := h.MFA.Disable(r.Context(), sess.User.ID, req.Code); err != nil {
		h.writeCodeError(w, r, err)
		return
	}
	httpx.WriteStatus(w, http.StatusOK, "MFA disabled")
}

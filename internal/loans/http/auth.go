package http

import (
	"net/http"

	"github.com/aussiebroadwan/loandesk/internal/loans/service"
	"github.com/aussiebroadwan/loandesk/pkg/httpx"
	"github.com/aussiebroadwan/loandesk/pkg/loansdk"
	"github.com/aussiebroadwan/loandesk/pkg/slogx"
)

// AuthHandler serves signup, login and the token lifecycle endpoints.
type AuthHandler struct {
	Sessions *service.SessionService
	Users    *service.UserService
	errs     errorWriter
}

func (h *AuthHandler) respond(w http.ResponseWriter, code int, msg string, a service.Authenticated) {
	httpx.NoCache(w)
	httpx.SetBearerToken(w, a.Token.Token)
	httpx.WriteJSON(w, code, loansdk.UserResponse{Status: status(code, msg), Data: toUser(a.User)})
}

// HandleSignup handles POST /v1/auth/signup
//
//	@Summary		Create a customer account
//	@Description	Registers a customer and signs them in. The session token is returned in the Authorization response header.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loansdk.SignupRequest	true	"Account details"
//	@Success		201		{object}	loansdk.UserResponse	"Signed up"
//	@Failure		400		{object}	loansdk.StatusResponse	"Malformed body"
//	@Failure		409		{object}	loansdk.StatusResponse	"Email already registered"
//	@Failure		422		{object}	loansdk.ErrorResponse	"Validation failed"
//	@Failure		429		{object}	loansdk.ErrorResponse	"Rate limited"
//	@Router			/v1/auth/signup [post].
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req loansdk.SignupRequest
	if err := decode(r, &req, false); err != nil {
		h.errs.write(w, r, err)
		return
	}

	a, err := h.Sessions.Signup(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, "Signed up successfully.", a)
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Sign in
//	@Description	Exchanges email and password, plus a TOTP code once MFA is enabled, for a session token.
//	@Description	Repeated failures lock the account.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loansdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	loansdk.UserResponse	"Logged in"
//	@Failure		401		{object}	loansdk.ErrorResponse	"Invalid credentials or TOTP code required"
//	@Failure		423		{object}	loansdk.StatusResponse	"Account locked"
//	@Failure		429		{object}	loansdk.ErrorResponse	"Rate limited"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loansdk.LoginRequest
	if err := decode(r, &req, false); err != nil {
		h.errs.write(w, r, err)
		return
	}

	a, err := h.Sessions.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		OTPCode:  req.OTPCode,
	})
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, "Logged in successfully.", a)
}

// HandleLogout handles DELETE /v1/auth/logout
//
//	@Summary		Sign out
//	@Description	Revokes the presented token. It is rejected from then on, even before it expires.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	loansdk.StatusResponse	"Logged out"
//	@Failure		401	{object}	loansdk.StatusResponse	"Invalid or missing token"
//	@Router			/v1/auth/logout [delete].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	if err := h.Sessions.Logout(r.Context(), sess); err != nil {
		h.errs.write(w, r, err)
		return
	}
	httpx.WriteStatus(w, http.StatusOK, "Logged out successfully.")
}

// HandleRefresh handles POST /v1/auth/refresh
//
//	@Summary		Refresh the session token
//	@Description	Issues a new token and revokes the one presented.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	loansdk.UserResponse	"New token in the Authorization header"
//	@Failure		401	{object}	loansdk.StatusResponse	"Invalid or missing token"
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	a, err := h.Sessions.Refresh(r.Context(), sess)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, "Token refreshed.", a)
}

// HandleChangePassword handles PUT /v1/auth/password
//
//	@Summary		Change password
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loansdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	loansdk.StatusResponse			"Password changed"
//	@Failure		401		{object}	loansdk.StatusResponse			"Current password incorrect"
//	@Failure		422		{object}	loansdk.ErrorResponse			"Missing fields or new password invalid"
//	@Router			/v1/auth/password [put].
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req loansdk.ChangePasswordRequest
	if err := decode(r, &req, false); err != nil {
		h.errs.write(w, r, err)
		return
	}

	err := h.Users.ChangePassword(r.Context(), sess.User.ID, req.CurrentPassword, req.Password)
	switch {
	case err == nil:
		httpx.WriteStatus(w, http.StatusOK, "Password changed successfully")
	case isErr(err, service.ErrInvalidCredentials):
		slogx.FromContext(r.Context()).Info("password change rejected")
		httpx.WriteStatus(w, http.StatusUnauthorized, "Current password is incorrect")
	default:
		h.errs.write(w, r, err)
	}
}

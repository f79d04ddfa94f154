package http

import (
	"net/http"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/service"
	"github.com/aussiebroadwan/loandesk/pkg/httpx"
	"github.com/aussiebroadwan/loandesk/pkg/loansdk"
)

type ProfileHandler struct {
	Users *service.UserService
	Audit *service.AuditService
	errs  errorWriter
}

// HandleGet handles GET /v1/profile
//
//	@Summary	Current user's profile
//	@Tags		Profile
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	loansdk.UserResponse
//	@Failure	401	{object}	loansdk.StatusResponse	"Invalid or missing token"
//	@Failure	403	{object}	loansdk.ErrorResponse	"Missing profile:read scope"
//	@Router		/v1/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	u, err := h.Users.Profile(r.Context(), sess.User.ID)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loansdk.UserResponse{Status: status(http.StatusOK, "OK"), Data: toUser(u)})
}

// HandleUpdate handles PATCH /v1/profile
//
//	@Summary	Update the current user's profile
//	@Tags		Profile
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		loansdk.ProfileRequest	true	"Fields to change"
//	@Success	200		{object}	loansdk.UserResponse
//	@Failure	422		{object}	loansdk.ErrorResponse	"Validation failed"
//	@Router		/v1/profile [patch].
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req loansdk.ProfileRequest
	if err := decode(r, &req, false); err != nil {
		h.errs.write(w, r, err)
		return
	}

	u, err := h.Users.UpdateProfile(r.Context(), sess.User.ID, service.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loansdk.UserResponse{Status: status(http.StatusOK, "Profile updated"), Data: toUser(u)})
}

// HandleActivity handles GET /v1/profile/activity
//
//	@Summary	Current user's recent security activity
//	@Tags		Profile
//	@Security	BearerAuth
//	@Produce	json
//	@Param		page	query		int	false	"Page number"	default(1)
//	@Param		limit	query		int	false	"Page size"		default(20)
//	@Success	200		{object}	loansdk.ActivityResponse
//	@Failure	401		{object}	loansdk.StatusResponse	"Invalid or missing token"
//	@Router		/v1/profile/activity [get].
func (h *ProfileHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	pr, err := pageRequest(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	events, err := h.Audit.Recent(r.Context(), sess.User.ID, pr)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loansdk.ActivityResponse{
		Status: status(http.StatusOK, "OK"),
		Data:   mapSlice(events, toActivity),
	})
}

// HandleListUsers handles GET /v1/users
//
//	@Summary		List users
//	@Description	Staff only. Newest accounts first.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			role	query		string	false	"Filter by role"
//	@Param			page	query		int		false	"Page number"	default(1)
//	@Param			limit	query		int		false	"Page size"		default(20)
//	@Success		200		{object}	loansdk.UserListResponse
//	@Failure		403		{object}	loansdk.ErrorResponse	"Not staff"
//	@Router			/v1/users [get].
func (h *ProfileHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	pr, err := pageRequest(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	var role domain.Role
	if s := r.URL.Query().Get("role"); s != "" {
		if role, err = domain.ParseRole(s); err != nil {
			h.errs.write(w, r, fieldError("role", "is not a known role"))
			return
		}
	}

	page, err := h.Users.List(r.Context(), sess.Principal(), role, pr)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loansdk.UserListResponse{
		Status: status(http.StatusOK, "OK"),
		Data:   mapSlice(page.Items, toUser),
		Meta:   pageMeta(page),
	})
}

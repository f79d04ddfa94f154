package http

import (
	"net/http"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/service"
	"github.com/aussiebroadwan/loandesk/pkg/httpx"
	"github.com/aussiebroadwan/loandesk/pkg/idx"
	"github.com/aussiebroadwan/loandesk/pkg/loansdk"
)

// ApplicationHandler serves the loan application endpoints. Ownership and
// role checks happen in the service; scopes are checked by the router.
type ApplicationHandler struct {
	Applications *service.ApplicationService
	errs         errorWriter
}

func (h *ApplicationHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if isErr(err, service.ErrNotFound) {
		err = errAppNotFound
	}
	h.errs.write(w, r, err)
}

func (h *ApplicationHandler) ok(w http.ResponseWriter, code int, msg string, a domain.Application) {
	httpx.WriteJSON(w, code, loansdk.ApplicationResponse{Status: status(code, msg), Data: toApplication(a)})
}

func applicationInput(req loansdk.ApplicationRequest) service.ApplicationInput {
	return service.ApplicationInput{
		CurrentStep: req.CurrentStep,
		DateOfBirth: req.DateOfBirth,
		LoanAmount:  req.LoanAmount,
		DownPayment: req.DownPayment,
		LoanTerm:    req.LoanTerm,
	}
}

// HandleList handles GET /v1/applications
//
//	@Summary		List applications
//	@Description	Customers see their own applications. Staff see all of them.
//	@Tags			Applications
//	@Security		BearerAuth
//	@Produce		json
//	@Param			status	query		string	false	"Filter by status"
//	@Param			page	query		int		false	"Page number"	default(1)
//	@Param			limit	query		int		false	"Page size"		default(20)
//	@Success		200		{object}	loansdk.ApplicationListResponse
//	@Failure		422		{object}	loansdk.ErrorResponse	"Unknown status or bad paging"
//	@Router			/v1/applications [get].
func (h *ApplicationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	pr, err := pageRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.Applications.List(r.Context(), sess.Principal(), service.ListApplicationsInput{
		Status:      r.URL.Query().Get("status"),
		PageRequest: pr,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loansdk.ApplicationListResponse{
		Status: status(http.StatusOK, "OK"),
		Data:   mapSlice(page.Items, toApplication),
		Meta:   pageMeta(page),
	})
}

// HandleCreate handles POST /v1/applications
//
//	@Summary	Start an application
//	@Tags		Applications
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		loansdk.ApplicationRequest	false	"Initial fields"
//	@Success	201		{object}	loansdk.ApplicationResponse	"Draft created"
//	@Failure	403		{object}	loansdk.ErrorResponse		"Only customers apply"
//	@Failure	422		{object}	loansdk.ErrorResponse		"Validation failed"
//	@Router		/v1/applications [post].
func (h *ApplicationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req loansdk.ApplicationRequest
	if err := decode(r, &req, true); err != nil {
		h.fail(w, r, err)
		return
	}
	a, err := h.Applications.Create(r.Context(), sess.Principal(), applicationInput(req))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, "Application created", a)
}

// HandleGet handles GET /v1/applications/{id}
//
//	@Summary	Get an application
//	@Tags		Applications
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Application id"
//	@Success	200	{object}	loansdk.ApplicationResponse
//	@Failure	403	{object}	loansdk.ErrorResponse	"Not the owner"
//	@Failure	404	{object}	loansdk.StatusResponse	"Application not found"
//	@Router		/v1/applications/{id} [get].
func (h *ApplicationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id idx.ID) {
		sess, _ := sessionFrom(r.Context())
		a, err := h.Applications.Get(r.Context(), sess.Principal(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.ok(w, http.StatusOK, "OK", a)
	})
}

// HandleUpdate handles PATCH /v1/applications/{id}
//
//	@Summary		Update a draft
//	@Description	Only the owner may update, and only while the application is a draft or awaiting documents.
//	@Tags			Applications
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Application id"
//	@Param			request	body		loansdk.ApplicationRequest	true	"Fields to change"
//	@Success		200		{object}	loansdk.ApplicationResponse
//	@Failure		403		{object}	loansdk.ErrorResponse	"Not allowed"
//	@Failure		422		{object}	loansdk.ErrorResponse	"Validation failed or wrong state"
//	@Router			/v1/applications/{id} [patch].
func (h *ApplicationHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id idx.ID) {
		sess, _ := sessionFrom(r.Context())

		var req loansdk.ApplicationRequest
		if err := decode(r, &req, false); err != nil {
			h.fail(w, r, err)
			return
		}
		a, err := h.Applications.Update(r.Context(), sess.Principal(), id, applicationInput(req))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.ok(w, http.StatusOK, "Application updated", a)
	})
}

// HandleDelete handles DELETE /v1/applications/{id}
//
//	@Summary	Delete a draft
//	@Tags		Applications
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Application id"
//	@Success	200	{object}	loansdk.StatusResponse	"Application deleted"
//	@Failure	403	{object}	loansdk.ErrorResponse	"Not allowed"
//	@Failure	404	{object}	loansdk.StatusResponse	"Application not found"
//	@Router		/v1/applications/{id} [delete].
func (h *ApplicationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id idx.ID) {
		sess, _ := sessionFrom(r.Context())
		if err := h.Applications.Delete(r.Context(), sess.Principal(), id); err != nil {
			h.fail(w, r, err)
			return
		}
		httpx.WriteStatus(w, http.StatusOK, "Application deleted")
	})
}

// HandleHistory handles GET /v1/applications/{id}/history
//
//	@Summary	Status history
//	@Tags		Applications
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Application id"
//	@Success	200	{object}	loansdk.HistoryResponse	"Oldest first"
//	@Failure	404	{object}	loansdk.StatusResponse	"Application not found"
//	@Router		/v1/applications/{id}/history [get].
func (h *ApplicationHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id idx.ID) {
		sess, _ := sessionFrom(r.Context())
		hist, err := h.Applications.History(r.Context(), sess.Principal(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, loansdk.HistoryResponse{
			Status: status(http.StatusOK, "OK"),
			Data:   mapSlice(hist, toHistory),
		})
	})
}

// HandleNotes handles GET /v1/applications/{id}/notes
//
//	@Summary		List notes
//	@Description	Internal notes are only returned to staff.
//	@Tags			Applications
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Application id"
//	@Success		200	{object}	loansdk.NoteListResponse
//	@Failure		404	{object}	loansdk.StatusResponse	"Application not found"
//	@Router			/v1/applications/{id}/notes [get].
func (h *ApplicationHandler) HandleNotes(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id idx.ID) {
		sess, _ := sessionFrom(r.Context())
		notes, err := h.Applications.Notes(r.Context(), sess.Principal(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, loansdk.NoteListResponse{
			Status: status(http.StatusOK, "OK"),
			Data:   mapSlice(notes, toNote),
		})
	})
}

// HandleAddNote handles POST /v1/applications/{id}/notes
//
//	@Summary	Add a note
//	@Tags		Applications
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Application id"
//	@Param		request	body		loansdk.NoteRequest	true	"Note"
//	@Success	201		{object}	loansdk.NoteResponse	"Note added"
//	@Failure	403		{object}	loansdk.ErrorResponse	"Staff only"
//	@Failure	422		{object}	loansdk.ErrorResponse	"Empty note"
//	@Router		/v1/applications/{id}/notes [post].
func (h *ApplicationHandler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id idx.ID) {
		sess, _ := sessionFrom(r.Context())

		var req loansdk.NoteRequest
		if err := decode(r, &req, false); err != nil {
			h.fail(w, r, err)
			return
		}
		n, err := h.Applications.AddNote(r.Context(), sess.Principal(), id, req.Note, req.Internal)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, loansdk.NoteResponse{
			Status: status(http.StatusCreated, "Note added"),
			Data:   toNote(n),
		})
	})
}

// HandleSubmit handles POST /v1/applications/{id}/submit
//
//	@Summary	Submit a draft for review
//	@Tags		Transitions
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Application id"
//	@Success	200	{object}	loansdk.ApplicationResponse	"Application submitted"
//	@Failure	403	{object}	loansdk.ErrorResponse		"Not the owner"
//	@Failure	422	{object}	loansdk.ErrorResponse		"Invalid transition"
//	@Router		/v1/applications/{id}/submit [post].
func (h *ApplicationHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Application submitted", nil, func(p domain.Principal, id idx.ID) (domain.Application, error) {
		return h.Applications.Submit(r.Context(), p, id)
	})
}

// HandleReview handles POST /v1/applications/{id}/review
//
//	@Summary	Start reviewing a submitted application
//	@Tags		Transitions
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Application id"
//	@Success	200	{object}	loansdk.ApplicationResponse	"Review started"
//	@Failure	403	{object}	loansdk.ErrorResponse		"Staff only"
//	@Failure	422	{object}	loansdk.ErrorResponse		"Invalid transition"
//	@Router		/v1/applications/{id}/review [post].
func (h *ApplicationHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Review started", nil, func(p domain.Principal, id idx.ID) (domain.Application, error) {
		return h.Applications.StartReview(r.Context(), p, id)
	})
}

// HandleRequestDocuments handles POST /v1/applications/{id}/request-documents
//
//	@Summary	Ask the customer for more documents
//	@Tags		Transitions
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Application id"
//	@Param		request	body		loansdk.RequestDocumentsRequest	false	"Note shown to the customer"
//	@Success	200		{object}	loansdk.ApplicationResponse		"Documents requested"
//	@Failure	422		{object}	loansdk.ErrorResponse			"Invalid transition"
//	@Router		/v1/applications/{id}/request-documents [post].
func (h *ApplicationHandler) HandleRequestDocuments(w http.ResponseWriter, r *http.Request) {
	var req loansdk.RequestDocumentsRequest
	h.transition(w, r, "Documents requested", &req, func(p domain.Principal, id idx.ID) (domain.Application, error) {
		return h.Applications.RequestDocuments(r.Context(), p, id, req.Note)
	})
}

// HandleResubmit handles POST /v1/applications/{id}/resubmit
//
//	@Summary	Resubmit after providing documents
//	@Tags		Transitions
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Application id"
//	@Param		request	body		loansdk.ResubmitRequest	false	"Comment"
//	@Success	200		{object}	loansdk.ApplicationResponse	"Application resubmitted"
//	@Failure	422		{object}	loansdk.ErrorResponse		"Invalid transition"
//	@Router		/v1/applications/{id}/resubmit [post].
func (h *ApplicationHandler) HandleResubmit(w http.ResponseWriter, r *http.Request) {
	var req loansdk.ResubmitRequest
	h.transition(w, r, "Application resubmitted", &req, func(p domain.Principal, id idx.ID) (domain.Application, error) {
		return h.Applications.Resubmit(r.Context(), p, id, req.Comment)
	})
}

// HandleApprove handles POST /v1/applications/{id}/approve
//
//	@Summary		Approve an application
//	@Description	Optionally sets the rate and term. The monthly payment is computed when amount, term and rate are known.
//	@Tags			Transitions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Application id"
//	@Param			request	body		loansdk.ApproveRequest	false	"Loan terms"
//	@Success		200		{object}	loansdk.ApplicationResponse	"Application approved"
//	@Failure		403		{object}	loansdk.ErrorResponse		"Not an approver"
//	@Failure		422		{object}	loansdk.ErrorResponse		"Invalid transition or terms"
//	@Router			/v1/applications/{id}/approve [post].
func (h *ApplicationHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	var req loansdk.ApproveRequest
	h.transition(w, r, "Application approved", &req, func(p domain.Principal, id idx.ID) (domain.Application, error) {
		return h.Applications.Approve(r.Context(), p, id, service.ApproveInput{
			InterestRateBps: req.InterestRateBps,
			LoanTerm:        req.LoanTerm,
			Comment:         req.Comment,
		})
	})
}

// HandleReject handles POST /v1/applications/{id}/reject
//
//	@Summary	Reject an application
//	@Tags		Transitions
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Application id"
//	@Param		request	body		loansdk.RejectRequest	true	"Reason"
//	@Success	200		{object}	loansdk.ApplicationResponse	"Application rejected"
//	@Failure	422		{object}	loansdk.ErrorResponse		"Missing reason or invalid transition"
//	@Router		/v1/applications/{id}/reject [post].
func (h *ApplicationHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	var req loansdk.RejectRequest
	h.transition(w, r, "Application rejected", &req, func(p domain.Principal, id idx.ID) (domain.Application, error) {
		return h.Applications.Reject(r.Context(), p, id, req.RejectionReason)
	})
}

// HandleSign handles POST /v1/applications/{id}/sign
//
//	@Summary	Sign the loan agreement
//	@Tags		Transitions
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Application id"
//	@Param		request	body		loansdk.SignRequest	true	"Acceptance and signature"
//	@Success	200		{object}	loansdk.ApplicationResponse	"Application signed successfully"
//	@Failure	403		{object}	loansdk.ErrorResponse		"Not the owner"
//	@Failure	422		{object}	loansdk.ErrorResponse		"Agreement not accepted or invalid transition"
//	@Router		/v1/applications/{id}/sign [post].
func (h *ApplicationHandler) HandleSign(w http.ResponseWriter, r *http.Request) {
	var req loansdk.SignRequest
	h.transition(w, r, "Application signed successfully", &req, func(p domain.Principal, id idx.ID) (domain.Application, error) {
		return h.Applications.Sign(r.Context(), p, id, service.SignInput{
			AgreementAccepted: req.AgreementAccepted,
			SignatureData:     req.SignatureData,
		})
	})
}

func (h *ApplicationHandler) withID(w http.ResponseWriter, r *http.Request, fn func(idx.ID)) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	fn(id)
}

// transition decodes the optional body into req, runs fn and writes the
// updated application.
func (h *ApplicationHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	msg string,
	req any,
	fn func(domain.Principal, idx.ID) (domain.Application, error),
) {
	h.withID(w, r, func(id idx.ID) {
		if req != nil {
			if err := decode(r, req, true); err != nil {
				h.fail(w, r, err)
				return
			}
		}
		sess, _ := sessionFrom(r.Context())
		a, err := fn(sess.Principal(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.ok(w, http.StatusOK, msg, a)
	})
}

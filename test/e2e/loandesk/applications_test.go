package loandesk_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/loandesk/pkg/loansdk"
)

// TestCustomerApplicationFlow drafts, fills in and submits an application.
func TestCustomerApplicationFlow(t *testing.T) {
	client := loansdk.NewClient(setupContainer(t))
	ctx := t.Context()

	session := signupCustomer(t, client, "borrower@example.com")

	app, err := session.CreateApplication(ctx, loansdk.ApplicationRequest{})
	require.NoError(t, err)
	require.Equal(t, "draft", app.Status)
	require.Regexp(t, `^AL-\d{8}-[0-9A-F]{6}$`, app.Number)

	app, err = session.UpdateApplication(ctx, app.ID, loansdk.ApplicationRequest{
		CurrentStep: loansdk.Int(4),
		DateOfBirth: loansdk.String("1988-11-02"),
		LoanAmount:  loansdk.Int64(3_000_000),
		DownPayment: loansdk.Int64(600_000),
		LoanTerm:    loansdk.Int(48),
	})
	require.NoError(t, err)
	require.Equal(t, 4, app.CurrentStep)
	require.Equal(t, int64(3_000_000), *app.LoanAmount)

	app, err = session.Submit(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, "submitted", app.Status)
	require.NotNil(t, app.SubmittedAt)

	history, err := session.History(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "draft", history[0].FromStatus)
	require.Equal(t, "submitted", history[0].ToStatus)
	require.Equal(t, session.User().ID, history[0].ActorID)

	t.Run("submitted application is read only", func(t *testing.T) {
		_, err := session.UpdateApplication(ctx, app.ID, loansdk.ApplicationRequest{LoanTerm: loansdk.Int(60)})
		requireStatus(t, err, http.StatusUnprocessableEntity, "update after submit")
	})

	t.Run("submitting twice", func(t *testing.T) {
		_, err := session.Submit(ctx, app.ID)
		requireStatus(t, err, http.StatusUnprocessableEntity, "second submit")
		var apiErr *loansdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, loansdk.CodeInvalidTransition, apiErr.Code)
	})

	t.Run("listing", func(t *testing.T) {
		list, err := session.ListApplications(ctx, loansdk.ListApplicationsOptions{Status: "submitted"})
		require.NoError(t, err)
		require.Equal(t, 1, list.Meta.Total)
		require.Equal(t, app.ID, list.Data[0].ID)
	})
}

// TestApplicationIsolation checks that customers only reach their own
// applications and cannot act as staff.
func TestApplicationIsolation(t *testing.T) {
	client := loansdk.NewClient(setupContainer(t))
	ctx := t.Context()

	owner := signupCustomer(t, client, "owner@example.com")
	other := signupCustomer(t, client, "other@example.com")

	app, err := owner.CreateApplication(ctx, loansdk.ApplicationRequest{LoanAmount: loansdk.Int64(1_000_000)})
	require.NoError(t, err)

	_, err = other.GetApplication(ctx, app.ID)
	requireStatus(t, err, http.StatusForbidden, "stranger reads application")
	var apiErr *loansdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, loansdk.InnerPolicyViolation, apiErr.InnerCode)

	list, err := other.ListApplications(ctx, loansdk.ListApplicationsOptions{})
	require.NoError(t, err)
	require.Empty(t, list.Data)

	_, err = owner.Submit(ctx, app.ID)
	require.NoError(t, err)

	_, err = owner.Review(ctx, app.ID)
	requireStatus(t, err, http.StatusForbidden, "customer starts review")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, loansdk.InnerInsufficientScope, apiErr.InnerCode)

	_, err = owner.Approve(ctx, app.ID, loansdk.ApproveRequest{})
	require.True(t, errors.Is(err, loansdk.ErrMissingScope), "checked before the request is sent")

	raw := loansdk.NewClient(client.BaseURL)
	raw.CheckScopes = false
	_, err = raw.NewSession(owner.Token()).Approve(ctx, app.ID, loansdk.ApproveRequest{})
	requireStatus(t, err, http.StatusForbidden, "server side scope check")
}

func TestDeleteDraft(t *testing.T) {
	client := loansdk.NewClient(setupContainer(t))
	ctx := t.Context()

	session := signupCustomer(t, client, "delete@example.com")

	app, err := session.CreateApplication(ctx, loansdk.ApplicationRequest{})
	require.NoError(t, err)
	require.NoError(t, session.DeleteApplication(ctx, app.ID))

	_, err = session.GetApplication(ctx, app.ID)
	requireStatus(t, err, http.StatusNotFound, "deleted application")
}

// Package loansdk is a Go client for the loandesk HTTP API.
//
// The request and response types in this package are also the wire types the
// server writes, so a client built against a given version always agrees with
// that server on field names.
//
// # Getting a session
//
// Sign in with an email and password to get a Session. The token travels in
// the Authorization response header and is kept on the Session:
//
//	c := loansdk.NewClient("http://localhost:8080")
//	sess, err := c.Login(ctx, loansdk.LoginRequest{
//		Email:    "casey@example.com",
//		Password: "correct horse",
//	})
//
// When MFA is enabled the first attempt fails with an *APIError whose
// InnerCode is "MFARequired"; retry with OTPCode set.
//
// # Applications
//
// Customers create and progress their own applications:
//
//	app, err := sess.CreateApplication(ctx, loansdk.ApplicationRequest{LoanAmount: loansdk.Int64(2_500_000)})
//	app, err = sess.Submit(ctx, app.ID)
//
// Staff sessions drive review and decisions with Review, RequestDocuments,
// Approve and Reject. Every transition is a one-shot POST; an action that
// does not apply to the current status fails with HTTP 422.
//
// # Scopes
//
// A Session reads the scopes from its token and, with Client.CheckScopes
// set, refuses calls it knows the server would reject. Turn CheckScopes off
// to exercise the server side checks.
//
// # Errors
//
// Every non-2xx response becomes an *APIError carrying the HTTP status, the
// error code and message, and any field details. Use errors.As to inspect it.
package loansdk

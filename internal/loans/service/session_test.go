package service_test

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/loandesk/internal/loans/domain"
	"github.com/aussiebroadwan/loandesk/internal/loans/service"
	"github.com/aussiebroadwan/loandesk/internal/loans/store/storetest"
)

const password = "correct horse"

func TestSignup(t *testing.T) {
	e := newEnv(t)
	ctx := e.ctx(t)

	res, err := e.sessions.Signup(ctx, service.RegisterInput{
		Email:     "  New.Customer@Example.COM ",
		Password:  password,
		FirstName: "New",
		LastName:  "Customer",
	})
	require.NoError(t, err)
	require.Equal(t, "new.customer@example.com", res.User.Email)
	require.Equal(t, domain.RoleCustomer, res.User.Role)
	require.NotEmpty(t, res.Token.Token)
	require.Equal(t, 1, e.count(t, domain.EventLoginSuccess))

	sess, err := e.authn.Authenticate(ctx, res.Token.Token)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, sess.User.ID)

	_, err = e.sessions.Signup(ctx, service.RegisterInput{
		Email:     "new.customer@example.com",
		Password:  password,
		FirstName: "Again",
		LastName:  "Customer",
	})
	require.ErrorIs(t, err, service.ErrConflict)
}

func TestSignupValidation(t *testing.T) {
	e := newEnv(t)

	_, err := e.users.Register(e.ctx(t), service.RegisterInput{Email: "x@example.com", Password: "short"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	fields := map[string]bool{}
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	require.True(t, fields["password"])
	require.True(t, fields["first_name"])
	require.True(t, fields["last_name"])
	require.False(t, fields["email"])
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	ctx := e.ctx(t)
	u := e.signup(t, "login@example.com")

	res, err := e.sessions.Login(ctx, service.LoginInput{Email: "LOGIN@example.com", Password: password})
	require.NoError(t, err)
	require.Equal(t, u.ID, res.User.ID)

	_, err = e.sessions.Login(ctx, service.LoginInput{Email: "nobody@example.com", Password: password})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = e.sessions.Login(ctx, service.LoginInput{Email: "login@example.com", Password: "wrong password"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = e.sessions.Login(ctx, service.LoginInput{})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	n, err := e.audit.FailedLoginsForIP(ctx, "203.0.113.5", e.clock.Now())
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = e.audit.FailedLoginsForUser(ctx, u.ID, e.clock.Now())
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestLoginResetsFailedAttempts(t *testing.T) {
	e := newEnv(t)
	ctx := e.ctx(t)
	e.signup(t, "reset@example.com")

	for range 4 {
		_, err := e.sessions.Login(ctx, service.LoginInput{Email: "reset@example.com", Password: "nope-nope"})
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	}
	_, err := e.sessions.Login(ctx, service.LoginInput{Email: "reset@example.com", Password: password})
	require.NoError(t, err)

	// The counter starts over, so four more failures still do not lock.
	for range 4 {
		_, err := e.sessions.Login(ctx, service.LoginInput{Email: "reset@example.com", Password: "nope-nope"})
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	}
	require.Zero(t, e.count(t, domain.EventAccountLocked))
}

func TestLockout(t *testing.T) {
	e := newEnv(t)
	ctx := e.ctx(t)
	e.signup(t, "locked@example.com")

	bad := service.LoginInput{Email: "locked@example.com", Password: "wrong password"}
	for i := 1; i < service.DefaultMaxFailedAttempts; i++ {
		_, err := e.sessions.Login(ctx, bad)
		require.ErrorIs(t, err, service.ErrInvalidCredentials, "attempt %d", i)
	}

	_, err := e.sessions.Login(ctx, bad)
	var locked *service.LockedError
	require.ErrorAs(t, err, &locked)
	require.True(t, locked.Until.Equal(e.clock.Now().Add(service.DefaultLockoutDuration)))
	require.Equal(t, 1, e.count(t, domain.EventAccountLocked))

	good := service.LoginInput{Email: "locked@example.com", Password: password}
	_, err = e.sessions.Login(ctx, good)
	require.ErrorIs(t, err, service.ErrAccountLocked)

	e.clock.Advance(service.DefaultLockoutDuration - time.Second)
	_, err = e.sessions.Login(ctx, good)
	require.ErrorIs(t, err, service.ErrAccountLocked)

	e.clock.Advance(time.Second)
	_, err = e.sessions.Login(ctx, good)
	require.NoError(t, err)
	require.Equal(t, 1, e.count(t, domain.EventAccountUnlocked))
}

func TestLockoutOnBadTOTP(t *testing.T) {
	e := newEnv(t)
	ctx := e.ctx(t)
	u := e.signup(t, "totp-lock@example.com")

	setup, err := e.mfa.Setup(ctx, u.ID)
	require.NoError(t, err)
	code, err := totp.GenerateCode(setup.Secret, e.clock.Now())
	require.NoError(t, err)
	require.NoError(t, e.mfa.Enable(ctx, u.ID, code))

	bad := service.LoginInput{Email: "totp-lock@example.com", Password: password, OTPCode: "000000"}
	for i := 1; i < service.DefaultMaxFailedAttempts; i++ {
		_, err := e.sessions.Login(ctx, bad)
		require.ErrorIs(t, err, service.ErrInvalidTOTPCode, "attempt %d", i)

		got, err := e.store.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, i, got.FailedAttempts)
	}

	_, err = e.sessions.Login(ctx, bad)
	var locked *service.LockedError
	require.ErrorAs(t, err, &locked)
	require.Equal(t, 1, e.count(t, domain.EventAccountLocked))

	// A valid code does not get past the lock.
	code, err = totp.GenerateCode(setup.Secret, e.clock.Now())
	require.NoError(t, err)
	_, err = e.sessions.Login(ctx, service.LoginInput{Email: "totp-lock@example.com", Password: password, OTPCode: code})
	require.ErrorIs(t, err, service.ErrAccountLocked)
}

func TestLoginTracksSignIns(t *testing.T) {
	e := newEnv(t)
	ctx := e.ctx(t)
	u := e.signup(t, "tracked@example.com")
	require.Equal(t, 1, u.SignInCount)

	e.clock.Advance(time.Minute)
	first := e.clock.Now()
	res, err := e.sessions.Login(ctx, service.LoginInput{Email: "tracked@example.com", Password: password})
	require.NoError(t, err)
	require.Equal(t, 2, res.User.SignInCount)
	require.Equal(t, "203.0.113.5", res.User.CurrentSignInIP)
	require.True(t, res.User.LastSignInAt.Equal(storetest.Base))

	e.clock.Advance(time.Hour)
	_, err = e.sessions.Login(ctx, service.LoginInput{Email: "tracked@example.com", Password: password})
	require.NoError(t, err)

	got, err := e.store.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.SignInCount)
	require.Equal(t, "203.0.113.5", got.CurrentSignInIP)
	require.Equal(t, "203.0.113.5", got.LastSignInIP)
	require.NotNil(t, got.LastSignInAt)
	require.True(t, got.LastSignInAt.Equal(first))
	require.True(t, got.CurrentSignInAt.Equal(first.Add(time.Hour)))
}

func TestLogoutAndRefresh(t *testing.T) {
	e := newEnv(t)
	ctx := e.ctx(t)
	e.signup(t, "refresh@example.com")

	res, err := e.sessions.Login(ctx, service.LoginInput{Email: "refresh@example.com", Password: password})
	require.NoError(t, err)
	sess, err := e.authn.Authenticate(ctx, res.Token.Token)
	require.NoError(t, err)

	refreshed, err := e.sessions.Refresh(ctx, sess)
	require.NoError(t, err)
	require.NotEqual(t, res.Token.JTI, refreshed.Token.JTI)
	require.Equal(t, 1, e.count(t, domain.EventTokenRefresh))

	_, err = e.authn.Authenticate(ctx, res.Token.Token)
	require.ErrorIs(t, err, service.ErrTokenRevoked)

	sess, err = e.authn.Authenticate(ctx, refreshed.Token.Token)
	require.NoError(t, err)
	require.NoError(t, e.sessions.Logout(ctx, sess))
	require.Equal(t, 1, e.count(t, domain.EventLogout))

	_, err = e.authn.Authenticate(ctx, refreshed.Token.Token)
	require.ErrorIs(t, err, service.ErrTokenRevoked)
}

func TestChangePassword(t *testing.T) {
	e := newEnv(t)
	ctx := e.ctx(t)
	u := e.signup(t, "pw@example.com")

	err := e.users.ChangePassword(ctx, u.ID, "wrong password", "brand new secret")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	require.NoError(t, e.users.ChangePassword(ctx, u.ID, password, "brand new secret"))
	require.Equal(t, 2, e.count(t, domain.EventPasswordChange))

	_, err = e.sessions.Login(ctx, service.LoginInput{Email: "pw@example.com", Password: password})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = e.sessions.Login(ctx, service.LoginInput{Email: "pw@example.com", Password: "brand new secret"})
	require.NoError(t, err)
}

func TestProfileAndList(t *testing.T) {
	e := newEnv(t)
	ctx := e.ctx(t)
	u := e.signup(t, "profile@example.com")

	phone := "555-0100"
	first := "Robin"
	got, err := e.users.UpdateProfile(ctx, u.ID, service.ProfileInput{FirstName: &first, Phone: &phone})
	require.NoError(t, err)
	require.Equal(t, "Robin", got.FirstName)
	require.Equal(t, "Nguyen", got.LastName)

	blank := "  "
	_, err = e.users.UpdateProfile(ctx, u.ID, service.ProfileInput{LastName: &blank})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	got, err = e.users.Profile(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "555-0100", got.Phone)

	_, err = e.users.List(ctx, u.Principal(), "", service.PageRequest{})
	require.ErrorIs(t, err, service.ErrForbidden)

	officer := e.staff(t, "officer@example.com", domain.RoleLoanOfficer)
	page, err := e.users.List(ctx, officer, "", service.PageRequest{PerPage: 1})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
	require.Equal(t, 2, page.TotalPages())
	require.Len(t, page.Items, 1)

	page, err = e.users.List(ctx, officer, domain.RoleCustomer, service.PageRequest{PerPage: 500})
	require.NoError(t, err)
	require.Equal(t, service.MaxPerPage, page.PerPage)
	require.Equal(t, 1, page.Total)
}

func TestMFA(t *testing.T) {
	e := newEnv(t)
	ctx := e.ctx(t)
	u := e.signup(t, "mfa@example.com")

	require.ErrorIs(t, e.mfa.Enable(ctx, u.ID, "123456"), service.ErrMFANotEnrolled)
	require.ErrorIs(t, e.mfa.Disable(ctx, u.ID, "123456"), service.ErrMFANotEnabled)

	setup, err := e.mfa.Setup(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, service.DefaultTOTPIssuer, setup.Issuer)
	require.Contains(t, setup.URL, "otpauth://totp/")
	require.Equal(t, 1, e.count(t, domain.EventMFASetup))

	enabled, err := e.mfa.Status(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, enabled)

	require.ErrorIs(t, e.mfa.Enable(ctx, u.ID, "000000"), service.ErrInvalidTOTPCode)
	require.Equal(t, 1, e.count(t, domain.EventMFAVerifyFailure))

	code, err := totp.GenerateCode(setup.Secret, e.clock.Now())
	require.NoError(t, err)
	require.NoError(t, e.mfa.Enable(ctx, u.ID, code))
	require.Equal(t, 1, e.count(t, domain.EventMFAEnable))

	_, err = e.mfa.Setup(ctx, u.ID)
	require.ErrorIs(t, err, service.ErrMFAAlreadyEnabled)

	// Password alone is no longer enough.
	_, err = e.sessions.Login(ctx, service.LoginInput{Email: "mfa@example.com", Password: password})
	require.ErrorIs(t, err, service.ErrMFARequired)

	_, err = e.sessions.Login(ctx, service.LoginInput{Email: "mfa@example.com", Password: password, OTPCode: "999999"})
	require.ErrorIs(t, err, service.ErrInvalidTOTPCode)

	e.clock.Advance(time.Minute)
	code, err = totp.GenerateCode(setup.Secret, e.clock.Now())
	require.NoError(t, err)
	_, err = e.sessions.Login(ctx, service.LoginInput{Email: "mfa@example.com", Password: password, OTPCode: code})
	require.NoError(t, err)
	require.Equal(t, 1, e.count(t, domain.EventMFAVerifySuccess))

	require.NoError(t, e.mfa.Disable(ctx, u.ID, code))
	require.Equal(t, 1, e.count(t, domain.EventMFADisable))

	_, err = e.sessions.Login(ctx, service.LoginInput{Email: "mfa@example.com", Password: password})
	require.NoError(t, err)
}

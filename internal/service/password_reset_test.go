package service

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/blog-system/internal/utils"
)

type resetFixture struct {
	users  *fakeUsers
	box    *outbox
	clock  *clock
	tokens *TokenService
	svc    *ResetService
}

func newResetFixture(t *testing.T, opts ResetOptions) *resetFixture {
	t.Helper()
	f := &resetFixture{
		users: newFakeUsers(adminUser(t, "old-password")),
		box:   &outbox{},
		clock: newClock(),
	}
	f.tokens = newTokens(f.clock)
	if opts.From == "" {
		opts.From = "noreply@example.com"
		opts.FromName = "Blog System - Password Recovery"
	}
	f.svc = NewResetService(f.users, f.tokens, hasher, f.box, opts, discard)
	return f
}

func linkFor(token string) string {
	return "https://blog.example.com/Home/ResetPassword?token=" + url.QueryEscape(token)
}

// requestToken runs the request step and pulls the token out of the email.
func (f *resetFixture) requestToken(t *testing.T) string {
	t.Helper()
	require.NoError(t, f.svc.RequestReset(context.Background(), "admin@example.com", linkFor))
	require.Len(t, f.box.sent, 1)
	body := f.box.sent[len(f.box.sent)-1].Body
	i := strings.Index(body, "https://")
	require.GreaterOrEqual(t, i, 0)
	link := body[i:]
	link = link[:strings.Index(link, "\n")]
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestRequestReset_SendsLink(t *testing.T) {
	f := newResetFixture(t, ResetOptions{})
	token := f.requestToken(t)

	msg := f.box.sent[0]
	assert.Equal(t, "admin@example.com", msg.To)
	assert.Equal(t, "noreply@example.com", msg.From)
	assert.Equal(t, "Blog System - Password Recovery", msg.FromName)
	assert.Equal(t, "Password reset link.", msg.Subject)
	assert.Contains(t, msg.Body, "valid for 30 minutes")

	vt, err := f.tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "1", f.tokens.Decode(vt))
	assert.True(t, f.clock.t.Add(30*time.Minute).Equal(vt.ExpiresAt()))
}

func TestRequestReset_UnknownEmail(t *testing.T) {
	f := newResetFixture(t, ResetOptions{})
	err := f.svc.RequestReset(context.Background(), "ghost@example.com", linkFor)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.box.sent)
}

func TestRequestReset_UnknownEmailHidden(t *testing.T) {
	f := newResetFixture(t, ResetOptions{HideUnknownEmail: true})
	require.NoError(t, f.svc.RequestReset(context.Background(), "ghost@example.com", linkFor))
	assert.Empty(t, f.box.sent)
}

func TestRequestReset_TransportFailureIsSurfaced(t *testing.T) {
	f := newResetFixture(t, ResetOptions{})
	f.box.err = errDown
	err := f.svc.RequestReset(context.Background(), "admin@example.com", linkFor)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestRequestReset_StoreFailure(t *testing.T) {
	f := newResetFixture(t, ResetOptions{})
	f.users.err = errDown
	err := f.svc.RequestReset(context.Background(), "admin@example.com", linkFor)
	assert.ErrorIs(t, err, ErrStore)
}

func TestRedeem_ChangesPassword(t *testing.T) {
	f := newResetFixture(t, ResetOptions{})
	token := f.requestToken(t)
	before := f.users.password(1)

	err := f.svc.Redeem(context.Background(), RedeemInput{
		Token: token, Password: "new-password", Confirm: "new-password", Email: "admin@example.com",
	})
	require.NoError(t, err)

	after := f.users.password(1)
	assert.NotEqual(t, before, after)
	assert.Equal(t, utils.VerifySuccess, hasher.Verify(after, "new-password"))
	assert.Equal(t, utils.VerifyFail, hasher.Verify(after, "old-password"))
}

func TestRedeem_PasswordMismatchCheckedFirst(t *testing.T) {
	f := newResetFixture(t, ResetOptions{})
	before := f.users.password(1)

	err := f.svc.Redeem(context.Background(), RedeemInput{
		Token: "garbage", Password: "a", Confirm: "b", Email: "wrong@example.com",
	})
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Equal(t, before, f.users.password(1))
	assert.Zero(t, f.users.saves)
}

func TestRedeem_InvalidToken(t *testing.T) {
	f := newResetFixture(t, ResetOptions{})
	err := f.svc.Redeem(context.Background(), RedeemInput{
		Token: "garbage", Password: "p", Confirm: "p", Email: "admin@example.com",
	})
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRedeem_ExpiredToken(t *testing.T) {
	f := newResetFixture(t, ResetOptions{})
	token := f.requestToken(t)
	f.clock.advance(31 * time.Minute)

	err := f.svc.Redeem(context.Background(), RedeemInput{
		Token: token, Password: "p", Confirm: "p", Email: "admin@example.com",
	})
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Zero(t, f.users.saves)
}

func TestRedeem_EmailMismatch(t *testing.T) {
	f := newResetFixture(t, ResetOptions{})
	token := f.requestToken(t)
	before := f.users.password(1)

	for _, email := range []string{"other@example.com", "Admin@example.com"} {
		err := f.svc.Redeem(context.Background(), RedeemInput{
			Token: token, Password: "p", Confirm: "p", Email: email,
		})
		assert.ErrorIs(t, err, ErrNotFound, email)
	}
	assert.Equal(t, before, f.users.password(1))
}

func TestRedeem_UserGone(t *testing.T) {
	f := newResetFixture(t, ResetOptions{})
	token, _, err := f.tokens.Issue(99)
	require.NoError(t, err)

	err = f.svc.Redeem(context.Background(), RedeemInput{
		Token: token, Password: "p", Confirm: "p", Email: "admin@example.com",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedeem_TokenStaysValidAfterUse(t *testing.T) {
	f := newResetFixture(t, ResetOptions{})
	token := f.requestToken(t)
	in := RedeemInput{Token: token, Password: "p1", Confirm: "p1", Email: "admin@example.com"}
	require.NoError(t, f.svc.Redeem(context.Background(), in))

	in.Password, in.Confirm = "p2", "p2"
	require.NoError(t, f.svc.Redeem(context.Background(), in))
	assert.Equal(t, utils.VerifySuccess, hasher.Verify(f.users.password(1), "p2"))
}

func TestRedeem_EmptyPasswordRejected(t *testing.T) {
	f := newResetFixture(t, ResetOptions{})
	token := f.requestToken(t)
	before := f.users.password(1)

	err := f.svc.Redeem(context.Background(), RedeemInput{
		Token: token, Password: "", Confirm: "", Email: "admin@example.com",
	})
	assert.ErrorIs(t, err, ErrPasswordEmpty)
	assert.Equal(t, before, f.users.password(1))
	assert.Zero(t, f.users.saves)
}

func TestRedeem_EmptyPasswordCheckedBeforeToken(t *testing.T) {
	f := newResetFixture(t, ResetOptions{})
	err := f.svc.Redeem(context.Background(), RedeemInput{
		Token: "garbage", Email: "admin@example.com",
	})
	assert.ErrorIs(t, err, ErrPasswordEmpty)
}

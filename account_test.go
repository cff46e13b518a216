package hub

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccounts(t *testing.T) (*Accounts, *Store) {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return NewAccounts(store, zerolog.Nop()), store
}

func TestRegister(t *testing.T) {
	accounts, store := newTestAccounts(t)

	alice, err := accounts.Register("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, 1, alice.ID)

	bob, err := accounts.Register("bob", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, 2, bob.ID)

	// both users and an empty portfolio each must be on disk
	users, err := store.LoadUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)
	portfolios, err := store.LoadPortfolios()
	require.NoError(t, err)
	require.Len(t, portfolios, 2)
	assert.Zero(t, portfolios[0].Len())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	accounts, _ := newTestAccounts(t)
	_, err := accounts.Register("alice", "s3cret")
	require.NoError(t, err)

	_, err = accounts.Register("alice", "other1")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRegisterIDSkipsGaps(t *testing.T) {
	accounts, store := newTestAccounts(t)
	u1, err := NewUser(1, "old", "s3cret", accounts.now())
	require.NoError(t, err)
	u7, err := NewUser(7, "older", "s3cret", accounts.now())
	require.NoError(t, err)
	require.NoError(t, store.SaveUsers([]*User{u1, u7}))

	u, err := accounts.Register("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, 8, u.ID, "ids continue after the highest existing one")
}

func TestLogin(t *testing.T) {
	accounts, _ := newTestAccounts(t)
	_, err := accounts.Register("alice", "s3cret")
	require.NoError(t, err)

	session := &Session{}
	_, err = session.Require()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	user, err := accounts.Login(session, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Same(t, user, session.User())

	session.Clear()
	assert.Nil(t, session.User())
}

func TestLoginErrors(t *testing.T) {
	accounts, _ := newTestAccounts(t)
	_, err := accounts.Register("alice", "s3cret")
	require.NoError(t, err)

	session := &Session{}
	_, err = accounts.Login(session, "nobody", "s3cret")
	var uerr *UserNotFoundError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "nobody", uerr.Username)

	_, err = accounts.Login(session, "alice", "wrong")
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Nil(t, session.User(), "failed login must not bind the session")
}

func TestChangePasswordPersists(t *testing.T) {
	accounts, _ := newTestAccounts(t)
	user, err := accounts.Register("alice", "s3cret")
	require.NoError(t, err)

	require.NoError(t, accounts.ChangePassword(user, "n3wpass"))

	session := &Session{}
	_, err = accounts.Login(session, "alice", "s3cret")
	assert.ErrorIs(t, err, ErrAuthentication)
	_, err = accounts.Login(session, "alice", "n3wpass")
	assert.NoError(t, err)
}

func TestPortfolioOfCreatesLazily(t *testing.T) {
	accounts, store := newTestAccounts(t)

	p, err := accounts.PortfolioOf(42)
	require.NoError(t, err)
	assert.Equal(t, 42, p.UserID)

	// the lazily created portfolio must be persisted
	portfolios, err := store.LoadPortfolios()
	require.NoError(t, err)
	require.Len(t, portfolios, 1)
	assert.Equal(t, 42, portfolios[0].UserID)
}

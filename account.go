package hub

import (
	"time"

	"github.com/rs/zerolog"
)

// Session is the single mutable "who is acting" slot, threaded explicitly
// through command handlers instead of living in a package global. One
// process holds one session; acting as a user requires a prior successful
// login in the same process lifetime.
type Session struct {
	user *User
}

// User returns the active user, or nil when nobody is logged in.
func (s *Session) User() *User { return s.user }

// Clear drops the active user, if any.
func (s *Session) Clear() { s.user = nil }

// Require returns the active user or ErrNotLoggedIn.
func (s *Session) Require() (*User, error) {
	if s.user == nil {
		return nil, ErrNotLoggedIn
	}
	return s.user, nil
}

// Accounts implements registration and login over the user store.
type Accounts struct {
	store *Store
	now   func() time.Time
	log   zerolog.Logger
}

// NewAccounts builds the account service.
func NewAccounts(store *Store, log zerolog.Logger) *Accounts {
	return &Accounts{store: store, now: time.Now, log: log.With().Str("module", "accounts").Logger()}
}

// Register creates a new user with the next free id and an empty portfolio,
// persisting both collections. The username must be unique (case-sensitive
// exact match) and the password at least 4 characters.
func (a *Accounts) Register(username, password string) (*User, error) {
	users, err := a.store.LoadUsers()
	if err != nil {
		return nil, err
	}
	nextID := 1
	for _, u := range users {
		if u.Username == username {
			return nil, Validationf("username %q is already taken", username)
		}
		if u.ID >= nextID {
			nextID = u.ID + 1
		}
	}

	user, err := NewUser(nextID, username, password, a.now())
	if err != nil {
		return nil, err
	}
	users = append(users, user)
	if err := a.store.SaveUsers(users); err != nil {
		return nil, err
	}

	portfolios, err := a.store.LoadPortfolios()
	if err != nil {
		return nil, err
	}
	portfolios = append(portfolios, NewPortfolio(user.ID))
	if err := a.store.SavePortfolios(portfolios); err != nil {
		return nil, err
	}

	a.log.Info().Str("username", username).Int("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login verifies the credentials and binds the user to the session.
// Note: the error surface distinguishes an unknown user from a wrong
// password, matching the historical behavior.
func (a *Accounts) Login(session *Session, username, password string) (*User, error) {
	users, err := a.store.LoadUsers()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username != username {
			continue
		}
		if !u.VerifyPassword(password) {
			a.log.Warn().Str("username", username).Msg("login rejected")
			return nil, ErrAuthentication
		}
		session.user = u
		a.log.Info().Str("username", username).Int("user_id", u.ID).Msg("login")
		return u, nil
	}
	return nil, &UserNotFoundError{Username: username}
}

// ChangePassword rotates the salt and hash for the given user and persists
// the users collection.
func (a *Accounts) ChangePassword(user *User, newPassword string) error {
	if err := user.ChangePassword(newPassword); err != nil {
		return err
	}
	users, err := a.store.LoadUsers()
	if err != nil {
		return err
	}
	for i, u := range users {
		if u.ID == user.ID {
			users[i] = user
		}
	}
	if err := a.store.SaveUsers(users); err != nil {
		return err
	}
	a.log.Info().Int("user_id", user.ID).Msg("password changed")
	return nil
}

// PortfolioOf returns the user's portfolio, creating and persisting an
// empty one on first access if absent.
func (a *Accounts) PortfolioOf(userID int) (*Portfolio, error) {
	portfolios, err := a.store.LoadPortfolios()
	if err != nil {
		return nil, err
	}
	for _, p := range portfolios {
		if p.UserID == userID {
			return p, nil
		}
	}
	p := NewPortfolio(userID)
	portfolios = append(portfolios, p)
	if err := a.store.SavePortfolios(portfolios); err != nil {
		return nil, err
	}
	return p, nil
}

// SavePortfolio rewrites the portfolios collection with the given portfolio
// replacing (or extending) the owner's entry.
func (a *Accounts) SavePortfolio(portfolio *Portfolio) error {
	portfolios, err := a.store.LoadPortfolios()
	if err != nil {
		return err
	}
	replaced := false
	for i, p := range portfolios {
		if p.UserID == portfolio.UserID {
			portfolios[i] = portfolio
			replaced = true
			break
		}
	}
	if !replaced {
		portfolios = append(portfolios, portfolio)
	}
	return a.store.SavePortfolios(portfolios)
}

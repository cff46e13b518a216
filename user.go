package hub

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

const (
	minPasswordLen = 4
	kdfIterations  = 4096
	kdfKeyLen      = 32
)

// User is a registered account. Immutable once created except for the
// password, which regenerates the salt together with the hash.
type User struct {
	ID             int
	Username       string
	HashedPassword string // hex-encoded PBKDF2-SHA256 of password+salt
	Salt           string // hex-encoded per-user random token
	RegisteredAt   time.Time
}

// NewUser creates a user with a freshly derived password hash.
func NewUser(id int, username, password string, registeredAt time.Time) (*User, error) {
	if username == "" {
		return nil, Validationf("username cannot be empty")
	}
	if len(password) < minPasswordLen {
		return nil, Validationf("password must be at least %d characters", minPasswordLen)
	}
	u := &User{ID: id, Username: username, RegisteredAt: registeredAt}
	if err := u.setPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword replaces the password, regenerating salt and hash.
func (u *User) ChangePassword(newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return Validationf("password must be at least %d characters", minPasswordLen)
	}
	return u.setPassword(newPassword)
}

func (u *User) setPassword(password string) error {
	salt := make([]byte, 8)
	if _, err := rand.Read(salt); err != nil {
		return err
	}
	u.Salt = hex.EncodeToString(salt)
	u.HashedPassword = derivePassword(password, u.Salt)
	return nil
}

// VerifyPassword reports whether password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	derived := derivePassword(password, u.Salt)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(u.HashedPassword)) == 1
}

func derivePassword(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), kdfIterations, kdfKeyLen, sha256.New)
	return hex.EncodeToString(key)
}

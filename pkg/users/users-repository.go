package users

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	Register(ctx context.Context, data SignupData) (int64, error)
	FindByCredentials(ctx context.Context, username, password string) (*User, error)
}

type userRepository struct {
	Connection *sql.DB
	pepper     []byte
	cost       int
}

var (
	ErrDuplicate          = errors.New("username, email or password already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

// NewRepository returns an accounts repository. The pepper keys the password fingerprints used to keep passwords
// unique across accounts; changing it breaks uniqueness checks against existing accounts.
func NewRepository(connection *sql.DB, pepper []byte) UserRepository {
	return &userRepository{Connection: connection, pepper: pepper, cost: bcrypt.DefaultCost}
}

// fingerprint derives a deterministic digest of the password, stored under a unique constraint so that no two
// accounts may share a password. Only the bcrypt hash is used to verify credentials.
func (ur *userRepository) fingerprint(password string) string {
	mac := hmac.New(sha256.New, ur.pepper)
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

// digest condenses the password into a fixed length bcrypt input, as bcrypt refuses anything past 72 bytes.
func digest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// Register stores a new account and returns its id. Collisions on username, email or password all yield
// ErrDuplicate, without telling which.
func (ur *userRepository) Register(ctx context.Context, data SignupData) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword(digest(data.Password), ur.cost)
	if err != nil {
		return 0, fmt.Errorf("couldn't hash the password of %q: %w", data.Username, err)
	}

	result, err := ur.Connection.ExecContext(ctx, `
		INSERT INTO users (firstname, lastname, username, email, password, password_fingerprint)
		VALUES (?, ?, ?, ?, ?, ?)`,
		data.Firstname, data.Lastname, data.Username, data.Email, string(hash), ur.fingerprint(data.Password))

	// detect uniqueness violations on any of the three constrained columns
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, fmt.Errorf("couldn't add user %q: %w", data.Username, err)
	}

	return result.LastInsertId()
}

// FindByCredentials returns the account matching both username and password, or ErrInvalidCredentials.
func (ur *userRepository) FindByCredentials(ctx context.Context, username, password string) (*User, error) {
	var user User
	var hash string
	err := ur.Connection.QueryRowContext(ctx,
		"SELECT id, firstname, lastname, username, email, password FROM users WHERE username = ?", username,
	).Scan(&user.Id, &user.Firstname, &user.Lastname, &user.Username, &user.Email, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't fetch user %q: %w", username, err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(hash), digest(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

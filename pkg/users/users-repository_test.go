package users

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/silktrader/gliderwatch/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestRepository(t *testing.T) *userRepository {
	t.Helper()
	repository := NewRepository(testutil.OpenDB(t), []byte("pepper")).(*userRepository)
	repository.cost = bcrypt.MinCost
	return repository
}

func signupData(username, email, password string) SignupData {
	return SignupData{
		Firstname:       "Ada",
		Lastname:        "Lovelace",
		Username:        username,
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	}
}

func TestRegister_ThenFindByCredentials(t *testing.T) {
	repository := newTestRepository(t)
	ctx := context.Background()

	id, err := repository.Register(ctx, signupData("ada", "ada@example.com", "analytical"))
	require.NoError(t, err)
	assert.Positive(t, id)

	user, err := repository.FindByCredentials(ctx, "ada", "analytical")
	require.NoError(t, err)
	assert.Equal(t, &User{
		Id:        id,
		Firstname: "Ada",
		Lastname:  "Lovelace",
		Username:  "ada",
		Email:     "ada@example.com",
	}, user)
}

func TestRegister_LongPasswords(t *testing.T) {
	repository := newTestRepository(t)
	ctx := context.Background()
	long := strings.Repeat("p", 80)

	_, err := repository.Register(ctx, signupData("ada", "ada@example.com", long))
	require.NoError(t, err)

	_, err = repository.FindByCredentials(ctx, "ada", long)
	assert.NoError(t, err)

	// passwords sharing their first 72 bytes are still told apart
	_, err = repository.FindByCredentials(ctx, "ada", strings.Repeat("p", 79)+"q")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_DoesNotStorePlaintext(t *testing.T) {
	repository := newTestRepository(t)
	_, err := repository.Register(context.Background(), signupData("ada", "ada@example.com", "analytical"))
	require.NoError(t, err)

	var password, fingerprint string
	require.NoError(t, repository.Connection.QueryRow(
		`SELECT password, password_fingerprint FROM users WHERE username = 'ada'`).Scan(&password, &fingerprint))
	assert.NotEqual(t, "analytical", password)
	assert.NotContains(t, fingerprint, "analytical")
}

func TestRegister_Collisions(t *testing.T) {
	tests := []struct {
		name string
		data SignupData
	}{
		{"same username", signupData("ada", "other@example.com", "different")},
		{"same email", signupData("grace", "ada@example.com", "different")},
		// passwords are unique across all accounts, even unrelated ones
		{"same password only", signupData("grace", "grace@example.com", "analytical")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository := newTestRepository(t)
			ctx := context.Background()
			_, err := repository.Register(ctx, signupData("ada", "ada@example.com", "analytical"))
			require.NoError(t, err)

			_, err = repository.Register(ctx, tt.data)
			assert.ErrorIs(t, err, ErrDuplicate)

			var count int
			require.NoError(t, repository.Connection.QueryRow(`SELECT count(*) FROM users`).Scan(&count))
			assert.Equal(t, 1, count)
		})
	}
}

func TestFindByCredentials_Mismatches(t *testing.T) {
	repository := newTestRepository(t)
	ctx := context.Background()
	_, err := repository.Register(ctx, signupData("ada", "ada@example.com", "analytical"))
	require.NoError(t, err)
	_, err = repository.Register(ctx, signupData("grace", "grace@example.com", "compiler"))
	require.NoError(t, err)

	for _, credentials := range [][2]string{
		{"ada", "compiler"},
		{"ada", "Analytical"},
		{"ada", ""},
		{"ADA", "analytical"},
		{"ada@example.com", "analytical"},
		{"nobody", "analytical"},
	} {
		user, err := repository.FindByCredentials(ctx, credentials[0], credentials[1])
		assert.ErrorIs(t, err, ErrInvalidCredentials, credentials)
		assert.Nil(t, user)
	}
}

func TestFindByCredentials_StorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, firstname, lastname, username, email, password FROM users WHERE username = ?`)).
		WithArgs("ada").
		WillReturnError(errors.New("disk I/O error"))

	_, err = NewRepository(db, []byte("pepper")).FindByCredentials(context.Background(), "ada", "analytical")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupData_Validate(t *testing.T) {
	data := signupData("ada", "ada@example.com", "analytical")
	assert.NoError(t, data.Validate())

	data.ConfirmPassword = "analytic"
	assert.ErrorIs(t, data.Validate(), ErrPasswordMismatch)

	data = signupData("", "ada@example.com", "analytical")
	err := data.Validate()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}

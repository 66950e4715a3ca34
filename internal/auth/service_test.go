package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	byEmail map[string]UserRow
	byID    map[uuid.UUID]UserRow
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]UserRow{}, byID: map[uuid.UUID]UserRow{}}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, name, email, passwordHash string) (UserRow, error) {
	u := UserRow{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash,
		Roles: []string{"customer"}, CreatedAt: time.Now()}
	f.byEmail[email] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (UserRow, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return UserRow{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (UserRow, error) {
	u, ok := f.byID[id]
	if !ok {
		return UserRow{}, pgx.ErrNoRows
	}
	return u, nil
}

func newTestService(t *testing.T) (*Service, *fakeUserStore) {
	t.Helper()
	store := newFakeUserStore()
	svc, err := NewService(Config{Repo: store, Secret: "test-secret-material", AccessTokenTTL: time.Minute})
	require.NoError(t, err)
	return svc, store
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.NewString()

	token, expiry, err := svc.signAccessToken(userID, []string{"customer", "admin"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiry, 5*time.Second)

	subject, roles, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, subject)
	assert.Equal(t, []string{"customer", "admin"}, roles)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	svc, _ := newTestService(t)
	past := time.Now().Add(-time.Hour)
	svc.WithNow(func() time.Time { return past })
	token, _, err := svc.signAccessToken(uuid.NewString(), nil)
	require.NoError(t, err)

	svc.WithNow(time.Now)
	_, _, err = svc.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	svc, _ := newTestService(t)
	other, err := NewService(Config{Repo: newFakeUserStore(), Secret: "another-secret"})
	require.NoError(t, err)
	token, _, err := other.signAccessToken(uuid.NewString(), nil)
	require.NoError(t, err)

	_, _, err = svc.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "ravi@example.com", "longenough")
	assert.Error(t, err, "name required")

	_, err = svc.Register(ctx, "Ravi", "", "longenough")
	assert.Error(t, err, "email required")

	_, err = svc.Register(ctx, "Ravi", "ravi@example.com", "short")
	assert.Error(t, err, "password too short")
}

func TestLoginSuccessAndFailure(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	hash, err := argon2id.CreateHash("correct-horse", argon2id.DefaultParams)
	require.NoError(t, err)
	u := UserRow{ID: uuid.New(), Name: "Ravi", Email: "ravi@example.com",
		PasswordHash: hash, Roles: []string{"customer"}}
	store.byEmail[u.Email] = u
	store.byID[u.ID] = u

	result, err := svc.Login(ctx, "Ravi@Example.com ", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), result.User.ID)
	assert.NotEmpty(t, result.AccessToken)

	_, err = svc.Login(ctx, "ravi@example.com", "wrong-password")
	assert.Error(t, err)

	_, err = svc.Login(ctx, "missing@example.com", "whatever")
	assert.Error(t, err)
}

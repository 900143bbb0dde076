package auth

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatbot-pro/chatd/internal/model"
	"github.com/chatbot-pro/chatd/internal/store"
	"github.com/chatbot-pro/chatd/pkg/logger"
)

type fakeRepo struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{data: make(map[string][]byte)}
}

func (r *fakeRepo) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (r *fakeRepo) Put(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = append([]byte(nil), value...)
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

func (r *fakeRepo) Ping(ctx context.Context) error { return nil }
func (r *fakeRepo) Close() error                   { return nil }

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, "test-secret", 24*time.Hour, logger.NewNop())
}

func TestRegisterAndValidate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	session, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)
	require.NotNil(t, session.User)
	assert.Equal(t, "ada@example.com", session.User.Email)
	assert.Equal(t, "Ada", session.User.Name)
	assert.NotEmpty(t, session.User.ID)

	user, err := svc.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)
	assert.Equal(t, session.User.Email, user.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ada@example.com", "hunter22", "Ada Again")
	assert.ErrorIs(t, err, ErrUserExists)

	// No second user record was created.
	raw, err := repo.Get(ctx, store.KeyUsers)
	require.NoError(t, err)
	var users []model.User
	require.NoError(t, json.Unmarshal(raw, &users))
	assert.Len(t, users, 1)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Register(context.Background(), "ada@example.com", "short", "Ada")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Login(context.Background(), "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoginShortPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestExpiredTokenTreatedAsAbsent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	session, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)

	// Move the clock past the token expiry.
	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, err = svc.Validate(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	restored, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, restored)

	// The stale token was erased.
	raw, err := repo.Get(ctx, store.KeyToken)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestValidateGarbageToken(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRestoreSession(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	session, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)

	restored, err := svc.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, session.Token, restored.Token)
	assert.Equal(t, session.User.ID, restored.User.ID)
}

func TestLogoutErasesTokenAndChats(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)
	require.NoError(t, repo.Put(ctx, store.KeyChats, []byte("[]")))

	require.NoError(t, svc.Logout(ctx))

	token, _ := repo.Get(ctx, store.KeyToken)
	chats, _ := repo.Get(ctx, store.KeyChats)
	assert.Nil(t, token)
	assert.Nil(t, chats)
}

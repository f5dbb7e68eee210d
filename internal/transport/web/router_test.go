package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/EgorLis/my-auth/internal/auth/denylist"
	"github.com/EgorLis/my-auth/internal/auth/flow"
	"github.com/EgorLis/my-auth/internal/auth/password"
	"github.com/EgorLis/my-auth/internal/auth/roles"
	"github.com/EgorLis/my-auth/internal/auth/token"
	"github.com/EgorLis/my-auth/internal/config"
	"github.com/EgorLis/my-auth/internal/domain"
)

// --- фейки уровня инфраструктуры -----------------------------------------

type fakeUsers struct {
	mu sync.Mutex
	m  map[domain.UserID]domain.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{m: make(map[domain.UserID]domain.User)} }

func (f *fakeUsers) Close()                     {}
func (f *fakeUsers) Ping(context.Context) error { return nil }

func (f *fakeUsers) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.m {
		if ex.Email == u.Email {
			return domain.User{}, domain.ErrConflict
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.m[u.ID] = u
	return u, nil
}

func (f *fakeUsers) UserByID(_ context.Context, id domain.UserID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.m[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) UserByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.m {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) UpdateUser(_ context.Context, id domain.UserID, upd domain.UserUpdate) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.m[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	u.Name, u.Email, u.Role, u.Verified = upd.Name, upd.Email, upd.Role, upd.Verified
	u.UpdatedAt = time.Now().UTC()
	f.m[id] = u
	return u, nil
}

func (f *fakeUsers) DeleteUser(_ context.Context, id domain.UserID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.m[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.m, id)
	return nil
}

func (f *fakeUsers) ListUsers(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.m))
	for _, u := range f.m {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) setRole(t *testing.T, email, role string) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.m {
		if u.Email == email {
			u.Role = role
			f.m[id] = u
			return
		}
	}
	t.Fatalf("no user with email %s", email)
}

// Кеш в памяти с теми же контрактами, что и Redis-обёртка
type fakeCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{m: make(map[string][]byte)} }

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, val []byte, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = val
	return nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }
func (c *fakeCache) Close()                     {}

// --- сборка сервера для тестов -------------------------------------------

func newTestHandler(t *testing.T) (http.Handler, *fakeUsers) {
	t.Helper()

	users := newFakeUsers()
	cache := newFakeCache()

	tokens, err := token.New(token.Config{
		Algorithm:  "HS256",
		Issuer:     "my-auth-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Secret:     []byte("test-secret"),
	}, denylist.NewStore(cache))
	require.NoError(t, err)

	logger := log.New(io.Discard, "", 0)
	svc := flow.New(logger, users, password.New(&argon2id.Params{
		Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	}), tokens)

	cfg := &config.Config{AppPort: ":0", ClientOrigin: "http://localhost:3000"}
	ws := New(logger, cfg, Deps{
		Users: users,
		Cache: cache,
		Flow:  svc,
		Admin: roles.NewChecker(domain.RoleAdmin),
	})
	return ws.server.Handler, users
}

func do(t *testing.T, h http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func registerUser(t *testing.T, h http.Handler, name, email, pw string) domain.User {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name": name, "email": email, "password": pw,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.User](t, rec)
}

func loginUser(t *testing.T, h http.Handler, email, pw string) domain.TokensResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email": email, "password": pw,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[domain.TokensResponse](t, rec)
}

// --- сценарии -------------------------------------------------------------

func TestRegisterLoginVerifyRevoke(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Alice", "email": "Alice@Example.COM", "password": "Passw0rdOK",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	// хэш пароля не должен попадать в ответ
	require.NotContains(t, rec.Body.String(), "hash")
	u := decode[domain.User](t, rec)
	require.Equal(t, "alice@example.com", u.Email)
	require.Equal(t, domain.RoleUser, u.Role)

	tokens := loginUser(t, h, "alice@example.com", "Passw0rdOK")
	require.Equal(t, "success", tokens.Status)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	rec = do(t, h, http.MethodGet, "/api/token/verify", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, u.ID, decode[domain.User](t, rec).ID)

	rec = do(t, h, http.MethodDelete, "/api/revoke/access", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/token/verify", tokens.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "token revoked", decode[domain.APIError](t, rec).Detail)
}

func TestRegister_DuplicateCaseInsensitive(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	registerUser(t, h, "Alice", "a@b.com", "Passw0rdOK")

	rec := do(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Mallory", "email": "A@B.com", "password": "Passw0rdOK",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "account already exists", decode[domain.APIError](t, rec).Detail)
}

// Ответ одинаков для несуществующего email и неверного пароля
func TestLogin_UniformFailure(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	registerUser(t, h, "Alice", "alice@example.com", "Passw0rdOK")

	recUnknown := do(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email": "nobody@example.com", "password": "Passw0rdOK",
	})
	recWrongPw := do(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email": "alice@example.com", "password": "WrongPassw0rd",
	})

	require.Equal(t, http.StatusBadRequest, recUnknown.Code)
	require.Equal(t, recUnknown.Code, recWrongPw.Code)
	require.JSONEq(t, recUnknown.Body.String(), recWrongPw.Body.String())
}

func TestVerify_MissingToken(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/api/token/verify", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "missing token", decode[domain.APIError](t, rec).Detail)
}

func TestRefresh_RotationOverHTTP(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	registerUser(t, h, "Alice", "alice@example.com", "Passw0rdOK")
	tokens := loginUser(t, h, "alice@example.com", "Passw0rdOK")

	rec := do(t, h, http.MethodPost, "/api/token/refresh", tokens.RefreshToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	fresh := decode[domain.TokensResponse](t, rec)
	require.NotEqual(t, tokens.RefreshToken, fresh.RefreshToken)

	// повторное использование погашенного refresh
	rec = do(t, h, http.MethodPost, "/api/token/refresh", tokens.RefreshToken, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "token revoked", decode[domain.APIError](t, rec).Detail)

	// access вместо refresh
	rec = do(t, h, http.MethodPost, "/api/token/refresh", fresh.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "wrong token kind", decode[domain.APIError](t, rec).Detail)
}

func TestAdminUsers(t *testing.T) {
	t.Parallel()

	h, users := newTestHandler(t)

	registerUser(t, h, "Alice", "alice@example.com", "Passw0rdOK")
	registerUser(t, h, "Root", "root@example.com", "Passw0rdOK")
	users.setRole(t, "root@example.com", domain.RoleAdmin)

	aliceTok := loginUser(t, h, "alice@example.com", "Passw0rdOK")
	adminTok := loginUser(t, h, "root@example.com", "Passw0rdOK")

	// без токена
	rec := do(t, h, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// обычный пользователь
	rec = do(t, h, http.MethodGet, "/api/users", aliceTok.AccessToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// админ: список
	rec = do(t, h, http.MethodGet, "/api/users", adminTok.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode[[]domain.User](t, rec)
	require.Len(t, list, 2)

	// админ: карточка
	alice, err := users.UserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	rec = do(t, h, http.MethodGet, "/api/users/"+alice.ID.String(), adminTok.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// админ: обновление
	rec = do(t, h, http.MethodPut, "/api/users/"+alice.ID.String(), adminTok.AccessToken, map[string]any{
		"name": "Alice L", "email": "alice@example.com", "role": "user", "verified": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Alice L", decode[domain.User](t, rec).Name)

	// админ: создание с ролью
	rec = do(t, h, http.MethodPost, "/api/users", adminTok.AccessToken, map[string]string{
		"name": "Bob", "email": "bob@example.com", "password": "Passw0rdOK", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, domain.RoleAdmin, decode[domain.User](t, rec).Role)

	// админ: удаление и 404 после
	rec = do(t, h, http.MethodDelete, "/api/users/"+alice.ID.String(), adminTok.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/users/"+alice.ID.String(), adminTok.AccessToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// кривой id
	rec = do(t, h, http.MethodGet, "/api/users/not-a-uuid", adminTok.AccessToken, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)

	for _, path := range []string{"/api/healthchecker", "/api/healthz", "/api/readyz"} {
		rec := do(t, h, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/token/verify", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

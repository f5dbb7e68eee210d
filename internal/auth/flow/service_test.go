package flow

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"

	"github.com/EgorLis/my-auth/internal/auth/password"
	"github.com/EgorLis/my-auth/internal/auth/token"
	"github.com/EgorLis/my-auth/internal/domain"
)

// Репозиторий в памяти с тем же контрактом ошибок, что и Postgres
type fakeUsers struct {
	mu sync.Mutex
	m  map[domain.UserID]domain.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{m: make(map[domain.UserID]domain.User)} }

func (f *fakeUsers) Close()                        {}
func (f *fakeUsers) Ping(context.Context) error    { return nil }
func (f *fakeUsers) ListUsers(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.m))
	for _, u := range f.m {
		out = append(out, u)
	}
	return out, nil
}

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

func (f *fakeUsers) markUnverified(t *testing.T, email string) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.m {
		if u.Email == email {
			u.Verified = false
			f.m[id] = u
			return
		}
	}
	t.Fatalf("no user with email %s", email)
}

type fakeDenylist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (f *fakeDenylist) Revoke(_ context.Context, jti string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[jti] = true
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[jti], nil
}

// лёгкие параметры argon2, чтобы тесты не грели CPU
var testHashParams = &argon2id.Params{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func newTestService(t *testing.T) (*Service, *fakeUsers) {
	t.Helper()

	users := newFakeUsers()
	tokens, err := token.New(token.Config{
		Algorithm:  "HS256",
		Issuer:     "my-auth-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Secret:     []byte("test-secret"),
	}, &fakeDenylist{revoked: make(map[string]bool)})
	if err != nil {
		t.Fatalf("token.New error: %v", err)
	}

	logger := log.New(io.Discard, "", 0)
	return New(logger, users, password.New(testHashParams), tokens), users
}

func register(t *testing.T, s *Service, email string) domain.User {
	t.Helper()
	u, err := s.Register(context.Background(), RegisterParams{
		Name:     "Alice",
		Email:    email,
		Password: "Passw0rdOK",
	})
	if err != nil {
		t.Fatalf("Register(%s) error: %v", email, err)
	}
	return u
}

func TestRegister(t *testing.T) {
	t.Parallel()

	s, _ := newTestService(t)
	u := register(t, s, "Alice@Example.COM")

	if u.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %s", u.Email)
	}
	if u.Role != domain.RoleUser {
		t.Fatalf("default role: got %s want %s", u.Role, domain.RoleUser)
	}
	if !u.Verified {
		t.Fatalf("new user must be verified")
	}
	if len(u.PassHash) == 0 {
		t.Fatalf("password hash not stored")
	}
	if string(u.PassHash) == "Passw0rdOK" {
		t.Fatalf("password stored in plain text")
	}
}

// Дубликат ловится без учёта регистра email
func TestRegister_ConflictCaseInsensitive(t *testing.T) {
	t.Parallel()

	s, _ := newTestService(t)
	register(t, s, "A@b.com")

	_, err := s.Register(context.Background(), RegisterParams{
		Name: "Bob", Email: "a@B.COM", Password: "Passw0rdOK",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRegister_BadParams(t *testing.T) {
	t.Parallel()

	s, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		p    RegisterParams
	}{
		{"empty name", RegisterParams{Email: "a@b.com", Password: "Passw0rdOK"}},
		{"bad email", RegisterParams{Name: "A", Email: "not-an-email", Password: "Passw0rdOK"}},
		{"short password", RegisterParams{Name: "A", Email: "a@b.com", Password: "Pw1"}},
		{"no digit", RegisterParams{Name: "A", Email: "a@b.com", Password: "Password"}},
		{"no upper", RegisterParams{Name: "A", Email: "a@b.com", Password: "passw0rdok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Register(ctx, tt.p); !errors.Is(err, domain.ErrBadParams) {
				t.Fatalf("expected ErrBadParams, got %v", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	s, _ := newTestService(t)
	u := register(t, s, "alice@example.com")
	ctx := context.Background()

	pair, err := s.Login(ctx, "ALICE@example.com", "Passw0rdOK")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("empty token pair")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatalf("access and refresh must differ")
	}

	got, err := s.Whoami(ctx, domain.Token(pair.AccessToken))
	if err != nil {
		t.Fatalf("Whoami error: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("whoami id: got %s want %s", got.ID, u.ID)
	}
}

// «Нет такого пользователя» и «не тот пароль» снаружи неотличимы
func TestLogin_IndistinguishableFailures(t *testing.T) {
	t.Parallel()

	s, _ := newTestService(t)
	register(t, s, "alice@example.com")
	ctx := context.Background()

	_, errUnknown := s.Login(ctx, "nobody@example.com", "Passw0rdOK")
	_, errWrongPw := s.Login(ctx, "alice@example.com", "WrongPassw0rd")

	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatalf("errors must be identical: %q vs %q", errUnknown, errWrongPw)
	}
}

func TestLogin_Unverified(t *testing.T) {
	t.Parallel()

	s, users := newTestService(t)
	register(t, s, "alice@example.com")
	users.markUnverified(t, "alice@example.com")

	_, err := s.Login(context.Background(), "alice@example.com", "Passw0rdOK")
	if !errors.Is(err, domain.ErrUnverified) {
		t.Fatalf("expected ErrUnverified, got %v", err)
	}
}

// Refresh одноразовый: использованный токен гасится, повтор — ErrRevoked
func TestRefresh_Rotation(t *testing.T) {
	t.Parallel()

	s, _ := newTestService(t)
	register(t, s, "alice@example.com")
	ctx := context.Background()

	pair, err := s.Login(ctx, "alice@example.com", "Passw0rdOK")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	r1 := domain.Token(pair.RefreshToken)
	pair2, err := s.Refresh(ctx, r1)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if pair2.RefreshToken == string(r1) {
		t.Fatalf("rotation must issue a new refresh token")
	}

	if _, err := s.Refresh(ctx, r1); !errors.Is(err, domain.ErrRevoked) {
		t.Fatalf("reused refresh: expected ErrRevoked, got %v", err)
	}

	// свежий refresh продолжает работать
	if _, err := s.Refresh(ctx, domain.Token(pair2.RefreshToken)); err != nil {
		t.Fatalf("fresh refresh error: %v", err)
	}
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	t.Parallel()

	s, _ := newTestService(t)
	register(t, s, "alice@example.com")
	ctx := context.Background()

	pair, err := s.Login(ctx, "alice@example.com", "Passw0rdOK")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	_, err = s.Refresh(ctx, domain.Token(pair.AccessToken))
	if !errors.Is(err, domain.ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
}

// Валидный токен удалённого пользователя — unauthorized, не 500
func TestWhoami_DeletedUser(t *testing.T) {
	t.Parallel()

	s, users := newTestService(t)
	u := register(t, s, "alice@example.com")
	ctx := context.Background()

	pair, err := s.Login(ctx, "alice@example.com", "Passw0rdOK")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if err := users.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser error: %v", err)
	}

	_, err = s.Whoami(ctx, domain.Token(pair.AccessToken))
	if !errors.Is(err, domain.ErrUnauth) {
		t.Fatalf("expected ErrUnauth, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	t.Parallel()

	s, _ := newTestService(t)
	register(t, s, "alice@example.com")
	ctx := context.Background()

	pair, err := s.Login(ctx, "alice@example.com", "Passw0rdOK")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	access := domain.Token(pair.AccessToken)

	if err := s.Revoke(ctx, access, domain.KindAccess); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}

	if _, err := s.Whoami(ctx, access); !errors.Is(err, domain.ErrRevoked) {
		t.Fatalf("expected ErrRevoked after revoke, got %v", err)
	}

	// повторная ревокация уже отозванного токена — тоже ErrRevoked
	if err := s.Revoke(ctx, access, domain.KindAccess); !errors.Is(err, domain.ErrRevoked) {
		t.Fatalf("expected ErrRevoked on second revoke, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookline/booking-system/internal/core/domain"
)

type stubAuthRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	nextID  int
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{byEmail: make(map[string]*domain.User)}
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	u := *user
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byEmail[u.Email] = &u
	return &u, nil
}

func TestRegister(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	user, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.ID == "" {
		t.Error("Register returned empty user id")
	}
	if user.Role != domain.RoleUser {
		t.Errorf("new user role = %q, want %q", user.Role, domain.RoleUser)
	}
	if user.PasswordHash == "hunter2hunter2" {
		t.Error("password stored in plaintext")
	}
}

func TestRegisterRejections(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "ada@example.com", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("empty name error = %v, want ErrInvalidCredentials", err)
	}

	if _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2hunter2"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, "Ada II", "ada@example.com", "hunter2hunter2"); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("duplicate email error = %v, want ErrUserExists", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}

	token, user, err := svc.Login(ctx, "ada@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("logged-in user id = %q, want %q", user.ID, registered.ID)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token did not verify: %v", err)
	}
	if claims["sub"] != registered.ID {
		t.Errorf("token sub = %v, want %q", claims["sub"], registered.ID)
	}
	if claims["role"] != domain.RoleUser {
		t.Errorf("token role = %v, want %q", claims["role"], domain.RoleUser)
	}
	if claims["email"] != "ada@example.com" {
		t.Errorf("token email = %v, want ada@example.com", claims["email"])
	}
}

func TestLoginRejections(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "ghost@example.com", "pw"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("unknown email error = %v, want ErrUserNotFound", err)
	}

	if _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2hunter2"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Login(ctx, "ada@example.com", "wrong-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("bad password error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("empty credentials error = %v, want ErrInvalidCredentials", err)
	}
}

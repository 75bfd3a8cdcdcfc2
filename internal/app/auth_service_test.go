package app

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pdfchat/internal/model"
	"pdfchat/internal/pkg/jwtutil"
)

const authTestSecret = "auth-test-secret"

type memoryUserStore struct {
	users  []*model.User
	nextID uint
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{nextID: 1}
}

func (s *memoryUserStore) CreateWithRolePolicy(user *model.User, assignRole func(existing int64) model.Role) error {
	user.Role = assignRole(int64(len(s.users)))
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	s.nextID++
	copied := *user
	s.users = append(s.users, &copied)
	return nil
}

func (s *memoryUserStore) GetByUsername(username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memoryUserStore) GetByEmail(email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memoryUserStore) GetByID(id uint) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func newTestAuthService(store UserStore) *AuthService {
	return NewAuthService(store, authTestSecret, 30*time.Minute, bcrypt.MinCost)
}

func TestSignupThenLogin(t *testing.T) {
	svc := newTestAuthService(newMemoryUserStore())

	signedUp, err := svc.Signup(SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	claims, err := jwtutil.ParseToken(authTestSecret, signedUp.Token)
	if err != nil {
		t.Fatalf("parse signup token: %v", err)
	}
	if claims.UserID != signedUp.User.ID {
		t.Errorf("signup token subject %d does not match user id %d", claims.UserID, signedUp.User.ID)
	}
	if claims.Subject != strconv.FormatUint(uint64(signedUp.User.ID), 10) {
		t.Errorf("signup token subject claim %q does not match user id %d", claims.Subject, signedUp.User.ID)
	}

	loggedIn, err := svc.Login(LoginInput{
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err = jwtutil.ParseToken(authTestSecret, loggedIn.Token)
	if err != nil {
		t.Fatalf("parse login token: %v", err)
	}
	if claims.UserID != signedUp.User.ID {
		t.Errorf("login token subject %d does not match signed-up user id %d", claims.UserID, signedUp.User.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(newMemoryUserStore())

	if _, err := svc.Signup(SignupInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "right password",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, err := svc.Login(LoginInput{Email: "bob@example.com", Password: "wrong password"})
	if !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("expected ErrInvalidCredential for wrong password, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(newMemoryUserStore())

	_, err := svc.Login(LoginInput{Email: "nobody@example.com", Password: "whatever1"})
	if !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("expected ErrInvalidCredential for unknown email, got %v", err)
	}
}

func TestSignupRolePromotion(t *testing.T) {
	svc := newTestAuthService(newMemoryUserStore())

	first, err := svc.Signup(SignupInput{Username: "first", Email: "first@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if first.User.Role != model.RoleAdmin {
		t.Errorf("first user role = %q, want admin", first.User.Role)
	}

	second, err := svc.Signup(SignupInput{Username: "second", Email: "second@example.com", Password: "password2"})
	if err != nil {
		t.Fatalf("second signup: %v", err)
	}
	if second.User.Role != model.RoleUser {
		t.Errorf("second user role = %q, want user", second.User.Role)
	}
}

func TestSignupDuplicateIdentity(t *testing.T) {
	svc := newTestAuthService(newMemoryUserStore())

	if _, err := svc.Signup(SignupInput{Username: "carol", Email: "carol@example.com", Password: "password1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, err := svc.Signup(SignupInput{Username: "carol", Email: "other@example.com", Password: "password1"})
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("expected ErrUsernameExists, got %v", err)
	}

	_, err = svc.Signup(SignupInput{Username: "other", Email: "carol@example.com", Password: "password1"})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

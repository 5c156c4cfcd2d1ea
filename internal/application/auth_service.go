package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-publisher/internal/domain/entity"
	repo "github.com/oksasatya/go-blog-publisher/internal/domain/repository"
	"github.com/oksasatya/go-blog-publisher/pkg/helpers"
)

// Identity is what the authentication gate attaches to a request.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func identityOf(u *entity.User) Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email}
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      Identity
}

type AuthService struct {
	Repo      repo.UserRepository
	JWT       *helpers.JWTManager
	Logger    *logrus.Logger
	Observers []UserObserver
}

func NewAuthService(r repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, observers ...UserObserver) *AuthService {
	return &AuthService{Repo: r, JWT: jwt, Logger: logger, Observers: observers}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Name:     strings.TrimSpace(name),
		Email:    normalizeEmail(email),
		Password: hash,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	for _, o := range s.Observers {
		if o != nil {
			o.UserRegistered(ctx, u)
		}
	}
	return s.issue(u)
}

// Login checks the credentials. Unknown email and wrong password both yield
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			helpers.BurnPasswordCheck(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !helpers.CheckPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	tok, exp, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{Token: tok, ExpiresAt: exp, User: identityOf(u)}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate resolves a raw Authorization header to the caller.
// Missing or malformed header → ErrUnauthenticated; bad, expired or orphaned
// token → ErrInvalidToken; any other error is a store failure.
func (s *AuthService) Authenticate(ctx context.Context, header string) (Identity, error) {
	token, ok := BearerToken(header)
	if !ok {
		return Identity{}, ErrUnauthenticated
	}
	claims, err := s.JWT.ParseToken(token)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Identity{}, ErrInvalidToken
		}
		return Identity{}, fmt.Errorf("load user: %w", err)
	}
	return identityOf(u), nil
}

// Me returns the current profile of an authenticated user.
func (s *AuthService) Me(ctx context.Context, userID string) (Identity, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Identity{}, ErrInvalidToken
		}
		return Identity{}, fmt.Errorf("load user: %w", err)
	}
	return identityOf(u), nil
}

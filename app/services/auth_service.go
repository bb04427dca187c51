package services

import (
	"errors"
	"fmt"
	"time"

	"myblog/app/forms"
	"myblog/app/metrics"
	"myblog/app/models"
	"myblog/app/repositories"

	"github.com/google/uuid"
)

// DefaultSessionTTL is used when no session lifetime is configured.
const DefaultSessionTTL = 14 * 24 * time.Hour

// AuthService registers users and manages login sessions
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	now         func() time.Time
	ttl         time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, now func() time.Time, ttl time.Duration) *AuthService {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		now:         now,
		ttl:         ttl,
	}
}

// Register creates a user from a signup form. A taken username or email
// comes back as a field error.
func (s *AuthService) Register(form forms.SignupForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  form.Username,
		Email:     form.Email,
		CreatedAt: s.now(),
	}
	if err := user.SetPassword(form.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fieldError(err)
	}
	return user, nil
}

// Authenticate checks the submitted credentials
func (s *AuthService) Authenticate(form forms.LoginForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(form.Username)
	if errors.Is(err, repositories.ErrNotFound) {
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginFailure).Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(form.Password) {
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginFailure).Inc()
		return nil, ErrInvalidCredentials
	}
	metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginSuccess).Inc()
	return user, nil
}

// Login authenticates form and opens a new session for the user.
func (s *AuthService) Login(form forms.LoginForm) (*models.Session, *models.User, error) {
	user, err := s.Authenticate(form)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, user, nil
}

// Logout ends the session for token
func (s *AuthService) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.sessionRepo.Delete(token)
}

// UserForSession resolves a session token to its user. Unknown, expired
// or orphaned sessions yield ErrNotFound.
func (s *AuthService) UserForSession(token string) (*models.User, error) {
	session, err := s.sessionRepo.Get(token)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		return nil, repositories.ErrNotFound
	}
	return s.userRepo.GetByID(session.UserID)
}

// TTL is the lifetime given to new sessions
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

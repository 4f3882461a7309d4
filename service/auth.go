package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"restaurant-storefront/models"
	"restaurant-storefront/repository"
	"restaurant-storefront/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthService struct {
	users       repository.UserRepository
	sessions    *session.Manager
	adminEmails []string
	cost        int
	log         *zap.Logger
}

// NewAuthService builds the auth service. Accounts registered with one of
// adminEmails get the admin role.
func NewAuthService(users repository.UserRepository, sessions *session.Manager, adminEmails []string, log *zap.Logger) *AuthService {
	admins := make([]string, 0, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins = append(admins, e)
		}
	}
	return &AuthService{
		users:       users,
		sessions:    sessions,
		adminEmails: admins,
		cost:        bcrypt.DefaultCost,
		log:         log,
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Register creates the account together with its profile row and signs
// the user in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, *session.Session, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, nil, fmt.Errorf("name and email are required: %w", ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, nil, fmt.Errorf("password must be at least 6 characters: %w", ErrValidation)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, nil, fmt.Errorf("email already registered: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	role := models.RoleCustomer
	if slices.Contains(s.adminEmails, email) {
		role = models.RoleAdmin
	}
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.CreateWithProfile(ctx, user, &models.Profile{FullName: name}); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	sess, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, sess, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*models.User, *session.Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	sess, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

// Logout revokes the session; subscribers see a sign-out event.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) error {
	return s.sessions.Revoke(ctx, sess)
}

func (s *AuthService) User(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return user, err
}

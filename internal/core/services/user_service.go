package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/dto"
	"github.com/SscSPs/hr_admin_app/internal/utils"
	"github.com/google/uuid"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{BaseService: BaseService{component: "users"}, userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewValidationError("password", strings.TrimPrefix(err.Error(), utils.ErrWeakPassword.Error()+": "))
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflictError("a user with this email already exists")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.NewString()
	if creatorUserID == "" {
		creatorUserID = userID
	}
	user := domain.User{
		UserID:       userID,
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		AuthProvider: domain.ProviderLocal,
		AuditFields:  domain.NewAuditFields(creatorUserID, time.Now().UTC()),
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user")
		return nil, fmt.Errorf("failed to create user in service: %w", err)
	}
	s.LogInfo(ctx, "User created", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == user.Name {
		return user, nil
	}
	updated := *user
	updated.Name = strings.TrimSpace(*req.Name)
	updated.Touch(requestingUserID, time.Now().UTC())
	if err := s.userRepo.UpdateUser(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &updated, nil
}

// AuthenticateUser returns ErrUnauthorized for unknown emails, wrong
// passwords and accounts that only sign in through an external provider.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// FindOrCreateGoogleUser resolves a Google profile by provider id, then by
// verified email (linking the account), and otherwise creates a new user.
func (s *userService) FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	if info.ID == "" || info.Email == "" {
		return nil, apperrors.NewValidationFailedError("google profile is missing id or email")
	}
	user, err := s.userRepo.FindUserByProviderDetails(ctx, domain.ProviderGoogle, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if !info.VerifiedEmail {
		return nil, apperrors.ErrUnauthorized
	}

	now := time.Now().UTC()
	providerID := info.ID
	user, err = s.GetUserByEmail(ctx, info.Email)
	switch {
	case err == nil:
		linked := *user
		linked.ProviderUserID = &providerID
		if linked.PasswordHash == "" {
			linked.AuthProvider = domain.ProviderGoogle
		}
		linked.Touch(linked.UserID, now)
		if err := s.userRepo.UpdateUser(ctx, linked); err != nil {
			return nil, fmt.Errorf("failed to link google account: %w", err)
		}
		s.LogInfo(ctx, "Linked google account to existing user", slog.String("user_id", linked.UserID))
		return &linked, nil
	case errors.Is(err, apperrors.ErrNotFound):
		userID := uuid.NewString()
		created := domain.User{
			UserID:         userID,
			Email:          strings.ToLower(info.Email),
			Name:           info.Name,
			AuthProvider:   domain.ProviderGoogle,
			ProviderUserID: &providerID,
			AuditFields:    domain.NewAuditFields(userID, now),
		}
		if err := s.userRepo.SaveUser(ctx, created); err != nil {
			return nil, fmt.Errorf("failed to create google user: %w", err)
		}
		s.LogInfo(ctx, "Created user from google login", slog.String("user_id", userID))
		return &created, nil
	default:
		return nil, err
	}
}

package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
)

func (s *Store) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (s *Store) FindUserByProviderDetails(_ context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.AuthProvider == provider && u.ProviderUserID != nil && *u.ProviderUserID == providerUserID {
			return &u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (s *Store) FindUsers(_ context.Context, limit int, offset int) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []domain.User{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (s *Store) SaveUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.UserID == user.UserID || strings.EqualFold(u.Email, user.Email) {
			return apperrors.NewConflictError("user " + user.Email + " already exists")
		}
	}
	s.users[user.UserID] = user
	return nil
}

func (s *Store) UpdateUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users[user.UserID]
	if !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	current.Name = user.Name
	current.AuthProvider = user.AuthProvider
	current.ProviderUserID = user.ProviderUserID
	current.LastUpdatedAt = user.LastUpdatedAt
	current.LastUpdatedBy = user.LastUpdatedBy
	s.users[user.UserID] = current
	return nil
}

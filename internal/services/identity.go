package services

import (
	"context"
	"errors"
	"fmt"

	"campusbooking/internal/domain"
)

type identityService struct {
	userRepo domain.UserRepository
}

// NewIdentityProvider answers actor questions from the user repository.
func NewIdentityProvider(userRepo domain.UserRepository) domain.IdentityProvider {
	return &identityService{userRepo: userRepo}
}

func (s *identityService) UserExists(ctx context.Context, userID int64) (bool, error) {
	_, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get user: %w", err)
	}
	return true, nil
}

func (s *identityService) UserRole(ctx context.Context, userID int64) (domain.Role, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get user: %w", err)
	}
	return u.Role, nil
}

// actorRole returns the role of the acting user. An unknown actor is forbidden.
func actorRole(ctx context.Context, identity domain.IdentityProvider, actorID int64) (domain.Role, error) {
	role, err := identity.UserRole(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrForbidden
		}
		return "", err
	}
	return role, nil
}

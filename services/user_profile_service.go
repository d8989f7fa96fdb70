package services

import (
	"context"
	"fmt"

	"amoria_server/models"
)

// UserProfileService exposes the profile reads the core consumes plus the
// profile-level callable toggle. Profile browsing and editing live elsewhere.
type UserProfileService struct {
	Store DataStore
}

// GetProfile fetches one profile. Returns nil when it does not exist.
func (s *UserProfileService) GetProfile(ctx context.Context, profileID string) (*models.UserProfile, error) {
	return s.Store.GetProfile(ctx, profileID)
}

// SetCallable flips the profile-level callable flag.
func (s *UserProfileService) SetCallable(ctx context.Context, profileID string, isCallable bool) error {
	if err := s.Store.UpdateProfileCallable(ctx, profileID, isCallable); err != nil {
		return fmt.Errorf("failed to update profile callable flag: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant-storefront/models"
	"restaurant-storefront/repository"

	"gorm.io/gorm"
)

type ProfileUpdate struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address"`
}

type ProfileService struct {
	profiles repository.ProfileRepository
	now      func() time.Time
}

func NewProfileService(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles, now: time.Now}
}

// Get returns the user's profile. A user without a row gets an empty one.
func (s *ProfileService) Get(ctx context.Context, userID uint) (*models.Profile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Profile{ID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) Update(ctx context.Context, userID uint, in ProfileUpdate) (*models.Profile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	if in.FullName == "" || in.Phone == "" {
		return nil, fmt.Errorf("full name and phone are required: %w", ErrValidation)
	}

	p := &models.Profile{
		ID:        userID,
		FullName:  in.FullName,
		Phone:     in.Phone,
		Address:   in.Address,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return s.Get(ctx, userID)
}

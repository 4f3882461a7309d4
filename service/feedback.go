package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"restaurant-storefront/models"
	"restaurant-storefront/repository"
)

type FeedbackRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
	Rating  int    `json:"rating" binding:"omitempty,min=1,max=5"`
}

type FeedbackService struct {
	repo repository.FeedbackRepository
}

func NewFeedbackService(repo repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{repo: repo}
}

// Submit stores a feedback entry. An unset rating counts as 5.
func (s *FeedbackService) Submit(ctx context.Context, req FeedbackRequest) (*models.Feedback, error) {
	if req.Rating == 0 {
		req.Rating = 5
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", ErrValidation)
	}
	f := &models.Feedback{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
		Rating:  req.Rating,
	}
	if f.Name == "" || f.Message == "" {
		return nil, fmt.Errorf("name and message are required: %w", ErrValidation)
	}
	if _, err := mail.ParseAddress(f.Email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", ErrValidation)
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}
	return f, nil
}

func (s *FeedbackService) Recent(ctx context.Context, limit int) ([]models.Feedback, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, limit)
}

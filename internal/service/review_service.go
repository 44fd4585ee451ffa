package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookly-project/bookly/internal/errs"
	"github.com/bookly-project/bookly/internal/models"
	"github.com/bookly-project/bookly/internal/repository"
)

type ReviewService struct {
	repo repository.Repository
}

func NewReviewService(repo repository.Repository) *ReviewService {
	return &ReviewService{repo: repo}
}

// AddReview attaches a review to a book on behalf of the user identified by
// email. Both the book and the user must resolve.
func (s *ReviewService) AddReview(ctx context.Context, userEmail, bookUID string, req *models.ReviewCreateRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5, got %d", errs.ErrValidation, req.Rating)
	}

	book, err := s.repo.GetBook(ctx, bookUID)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	uid, _ := uuid.NewV7()
	now := time.Now()
	review := &models.Review{
		UID:        uid.String(),
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
		BookUID:    book.UID,
		UserUID:    user.UID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, bookUID string) ([]*models.Review, error) {
	if _, err := s.repo.GetBook(ctx, bookUID); err != nil {
		return nil, err
	}
	return s.repo.ListReviewsByBook(ctx, bookUID)
}

// DeleteReview removes a review. Only its author or an admin may delete it.
func (s *ReviewService) DeleteReview(ctx context.Context, uid string, requester *models.User) error {
	review, err := s.repo.GetReview(ctx, uid)
	if err != nil {
		return err
	}

	if review.UserUID != requester.UID && requester.Role != models.RoleAdmin {
		return errs.ErrInsufficientPermission
	}

	return s.repo.DeleteReview(ctx, uid)
}

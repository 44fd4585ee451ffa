package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookly-project/bookly/internal/errs"
	"github.com/bookly-project/bookly/internal/models"
	"github.com/bookly-project/bookly/internal/repository"
)

type reviewFixture struct {
	svc  *ReviewService
	repo *repository.InMemoryRepository
	book *models.Book
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	repo := repository.NewInMemoryRepository()
	ctx := context.Background()

	for _, u := range []struct{ uid, email, role string }{
		{"uid-reader", "reader@example.com", models.RoleUser},
		{"uid-other", "other@example.com", models.RoleUser},
		{"uid-admin", "admin@example.com", models.RoleAdmin},
	} {
		require.NoError(t, repo.CreateUser(ctx, &models.User{
			UID: u.uid, Email: u.email, Username: u.uid, Role: u.role,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}))
	}

	book := &models.Book{
		UID: "book-1", Title: "A Book", Author: "Someone", Publisher: "Pub",
		PublishedDate: "2020-01-01", PageCount: 200, Language: "en",
		UserUID: "uid-reader", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.CreateBook(ctx, book))

	return &reviewFixture{svc: NewReviewService(repo), repo: repo, book: book}
}

func TestAddReview(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	review, err := f.svc.AddReview(ctx, "reader@example.com", f.book.UID, &models.ReviewCreateRequest{
		Rating:     4,
		ReviewText: "solid read",
	})
	require.NoError(t, err)
	assert.Equal(t, f.book.UID, review.BookUID)
	assert.Equal(t, "uid-reader", review.UserUID)

	reviews, err := f.svc.ListReviews(ctx, f.book.UID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestAddReviewRejections(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		email   string
		bookUID string
		rating  int
		wantErr error
	}{
		{"rating too low", "reader@example.com", f.book.UID, 0, errs.ErrValidation},
		{"rating too high", "reader@example.com", f.book.UID, 6, errs.ErrValidation},
		{"missing book", "reader@example.com", "book-missing", 3, errs.ErrBookNotFound},
		{"missing user", "nobody@example.com", f.book.UID, 3, errs.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddReview(ctx, tt.email, tt.bookUID, &models.ReviewCreateRequest{Rating: tt.rating})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestListReviewsMissingBook(t *testing.T) {
	f := newReviewFixture(t)
	_, err := f.svc.ListReviews(context.Background(), "book-missing")
	assert.ErrorIs(t, err, errs.ErrBookNotFound)
}

func TestDeleteReview(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	author := &models.User{UID: "uid-reader", Role: models.RoleUser}
	other := &models.User{UID: "uid-other", Role: models.RoleUser}
	admin := &models.User{UID: "uid-admin", Role: models.RoleAdmin}

	addReview := func() *models.Review {
		review, err := f.svc.AddReview(ctx, "reader@example.com", f.book.UID, &models.ReviewCreateRequest{Rating: 3})
		require.NoError(t, err)
		return review
	}

	// Author deletes own review.
	review := addReview()
	require.NoError(t, f.svc.DeleteReview(ctx, review.UID, author))

	// Someone else may not.
	review = addReview()
	assert.ErrorIs(t, f.svc.DeleteReview(ctx, review.UID, other), errs.ErrInsufficientPermission)

	// Admin may delete anyone's review.
	require.NoError(t, f.svc.DeleteReview(ctx, review.UID, admin))

	assert.ErrorIs(t, f.svc.DeleteReview(ctx, "review-missing", admin), errs.ErrReviewNotFound)
}

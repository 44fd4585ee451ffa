// Package repository persists users, books, and reviews. Not-found and
// already-exists conditions are reported with the sentinel errors from the
// errs package so callers can classify them without string matching.
package repository

import (
	"context"

	"github.com/bookly-project/bookly/internal/models"
)

type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
	UpdateUser(ctx context.Context, uid string, update models.UserUpdate) error

	CreateBook(ctx context.Context, book *models.Book) error
	GetBook(ctx context.Context, uid string) (*models.Book, error)
	ListBooks(ctx context.Context) ([]*models.Book, error)
	UpdateBook(ctx context.Context, book *models.Book) error
	DeleteBook(ctx context.Context, uid string) error

	CreateReview(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, uid string) (*models.Review, error)
	ListReviewsByBook(ctx context.Context, bookUID string) ([]*models.Review, error)
	DeleteReview(ctx context.Context, uid string) error
}

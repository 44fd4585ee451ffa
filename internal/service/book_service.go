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

type BookService struct {
	repo repository.Repository
}

func NewBookService(repo repository.Repository) *BookService {
	return &BookService{repo: repo}
}

func (s *BookService) CreateBook(ctx context.Context, req *models.BookCreateRequest, userUID string) (*models.Book, error) {
	if _, err := time.Parse("2006-01-02", req.PublishedDate); err != nil {
		return nil, fmt.Errorf("%w: published_date %q is not YYYY-MM-DD", errs.ErrValidation, req.PublishedDate)
	}

	uid, _ := uuid.NewV7()
	now := time.Now()
	book := &models.Book{
		UID:           uid.String(),
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Language:      req.Language,
		UserUID:       userUID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.CreateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) ListBooks(ctx context.Context) ([]*models.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *BookService) GetBook(ctx context.Context, uid string) (*models.Book, error) {
	return s.repo.GetBook(ctx, uid)
}

func (s *BookService) UpdateBook(ctx context.Context, uid string, req *models.BookUpdateRequest) (*models.Book, error) {
	book, err := s.repo.GetBook(ctx, uid)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.PublishedDate != nil {
		if _, err := time.Parse("2006-01-02", *req.PublishedDate); err != nil {
			return nil, fmt.Errorf("%w: published_date %q is not YYYY-MM-DD", errs.ErrValidation, *req.PublishedDate)
		}
		book.PublishedDate = *req.PublishedDate
	}
	if req.PageCount != nil {
		book.PageCount = *req.PageCount
	}
	if req.Language != nil {
		book.Language = *req.Language
	}

	if err := s.repo.UpdateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) DeleteBook(ctx context.Context, uid string) error {
	return s.repo.DeleteBook(ctx, uid)
}

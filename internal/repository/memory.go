package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bookly-project/bookly/internal/errs"
	"github.com/bookly-project/bookly/internal/models"
)

type InMemoryRepository struct {
	users        map[string]*models.User
	usersByEmail map[string]*models.User
	books        map[string]*models.Book
	reviews      map[string]*models.Review
	mu           sync.RWMutex
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users:        make(map[string]*models.User),
		usersByEmail: make(map[string]*models.User),
		books:        make(map[string]*models.Book),
		reviews:      make(map[string]*models.Review),
	}
}

func (r *InMemoryRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.usersByEmail[user.Email]; exists {
		return errs.ErrUserAlreadyExists
	}

	r.users[user.UID] = user
	r.usersByEmail[user.Email] = user
	return nil
}

func (r *InMemoryRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.usersByEmail[email]
	if !exists {
		return nil, errs.ErrUserNotFound
	}
	return user, nil
}

func (r *InMemoryRepository) GetUserByUID(_ context.Context, uid string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[uid]
	if !exists {
		return nil, errs.ErrUserNotFound
	}
	return user, nil
}

func (r *InMemoryRepository) UpdateUser(_ context.Context, uid string, update models.UserUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[uid]
	if !exists {
		return errs.ErrUserNotFound
	}

	if update.IsVerified != nil {
		user.IsVerified = *update.IsVerified
	}
	if update.PasswordHash != nil {
		user.PasswordHash = *update.PasswordHash
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) CreateBook(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.books[book.UID] = book
	return nil
}

func (r *InMemoryRepository) GetBook(_ context.Context, uid string) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	book, exists := r.books[uid]
	if !exists {
		return nil, errs.ErrBookNotFound
	}
	return book, nil
}

func (r *InMemoryRepository) ListBooks(_ context.Context) ([]*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make([]*models.Book, 0, len(r.books))
	for _, b := range r.books {
		books = append(books, b)
	}
	// Newest first, matching the Postgres ORDER BY
	sort.Slice(books, func(i, j int) bool {
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})
	return books, nil
}

func (r *InMemoryRepository) UpdateBook(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.books[book.UID]; !exists {
		return errs.ErrBookNotFound
	}
	book.UpdatedAt = time.Now()
	r.books[book.UID] = book
	return nil
}

func (r *InMemoryRepository) DeleteBook(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.books[uid]; !exists {
		return errs.ErrBookNotFound
	}
	delete(r.books, uid)
	for id, rev := range r.reviews {
		if rev.BookUID == uid {
			delete(r.reviews, id)
		}
	}
	return nil
}

func (r *InMemoryRepository) CreateReview(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reviews[review.UID] = review
	return nil
}

func (r *InMemoryRepository) GetReview(_ context.Context, uid string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	review, exists := r.reviews[uid]
	if !exists {
		return nil, errs.ErrReviewNotFound
	}
	return review, nil
}

func (r *InMemoryRepository) ListReviewsByBook(_ context.Context, bookUID string) ([]*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reviews := make([]*models.Review, 0)
	for _, rev := range r.reviews {
		if rev.BookUID == bookUID {
			reviews = append(reviews, rev)
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

func (r *InMemoryRepository) DeleteReview(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reviews[uid]; !exists {
		return errs.ErrReviewNotFound
	}
	delete(r.reviews, uid)
	return nil
}

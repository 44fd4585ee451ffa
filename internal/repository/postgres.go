package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookly-project/bookly/internal/errs"
	"github.com/bookly-project/bookly/internal/models"
)

const queryTimeout = 5 * time.Second

const dateLayout = "2006-01-02"

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO users (uid, username, email, first_name, last_name, role, is_verified, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		user.UID, user.Username, user.Email, user.FirstName, user.LastName,
		user.Role, user.IsVerified, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, "email", email)
}

func (r *PostgresRepository) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	return r.getUser(ctx, "uid", uid)
}

func (r *PostgresRepository) getUser(ctx context.Context, column, value string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT uid, username, email, first_name, last_name, role, is_verified, password_hash, created_at, updated_at
		FROM users
		WHERE %s = $1
	`, column)

	var user models.User
	err := r.pool.QueryRow(ctx, query, value).Scan(
		&user.UID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.Role, &user.IsVerified, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, uid string, update models.UserUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE users
		SET is_verified = COALESCE($2, is_verified),
		    password_hash = COALESCE($3, password_hash),
		    role = COALESCE($4, role),
		    updated_at = $5
		WHERE uid = $1
	`

	tag, err := r.pool.Exec(ctx, query, uid, update.IsVerified, update.PasswordHash, update.Role, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrUserNotFound
	}

	return nil
}

func (r *PostgresRepository) CreateBook(ctx context.Context, book *models.Book) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	published, err := time.Parse(dateLayout, book.PublishedDate)
	if err != nil {
		return fmt.Errorf("invalid published_date %q: %w", book.PublishedDate, err)
	}

	query := `
		INSERT INTO books (uid, title, author, publisher, published_date, page_count, language, user_uid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.pool.Exec(ctx, query,
		book.UID, book.Title, book.Author, book.Publisher, published,
		book.PageCount, book.Language, book.UserUID, book.CreatedAt, book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetBook(ctx context.Context, uid string) (*models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT uid, title, author, publisher, published_date, page_count, language, user_uid, created_at, updated_at
		FROM books
		WHERE uid = $1
	`

	book, err := scanBook(r.pool.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return book, nil
}

func (r *PostgresRepository) ListBooks(ctx context.Context) ([]*models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT uid, title, author, publisher, published_date, page_count, language, user_uid, created_at, updated_at
		FROM books
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	return books, rows.Err()
}

func (r *PostgresRepository) UpdateBook(ctx context.Context, book *models.Book) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	published, err := time.Parse(dateLayout, book.PublishedDate)
	if err != nil {
		return fmt.Errorf("invalid published_date %q: %w", book.PublishedDate, err)
	}

	query := `
		UPDATE books
		SET title = $2, author = $3, publisher = $4, published_date = $5,
		    page_count = $6, language = $7, updated_at = $8
		WHERE uid = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		book.UID, book.Title, book.Author, book.Publisher, published,
		book.PageCount, book.Language, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrBookNotFound
	}

	return nil
}

func (r *PostgresRepository) DeleteBook(ctx context.Context, uid string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrBookNotFound
	}

	return nil
}

func (r *PostgresRepository) CreateReview(ctx context.Context, review *models.Review) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO reviews (uid, rating, review_text, book_uid, user_uid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		review.UID, review.Rating, review.ReviewText, review.BookUID, review.UserUID,
		review.CreatedAt, review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetReview(ctx context.Context, uid string) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT uid, rating, review_text, book_uid, user_uid, created_at, updated_at
		FROM reviews
		WHERE uid = $1
	`

	var review models.Review
	err := r.pool.QueryRow(ctx, query, uid).Scan(
		&review.UID, &review.Rating, &review.ReviewText, &review.BookUID, &review.UserUID,
		&review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

func (r *PostgresRepository) ListReviewsByBook(ctx context.Context, bookUID string) ([]*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT uid, rating, review_text, book_uid, user_uid, created_at, updated_at
		FROM reviews
		WHERE book_uid = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, bookUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(
			&review.UID, &review.Rating, &review.ReviewText, &review.BookUID, &review.UserUID,
			&review.CreatedAt, &review.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, rows.Err()
}

func (r *PostgresRepository) DeleteReview(ctx context.Context, uid string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrReviewNotFound
	}

	return nil
}

func scanBook(row pgx.Row) (*models.Book, error) {
	var book models.Book
	var published time.Time
	err := row.Scan(
		&book.UID, &book.Title, &book.Author, &book.Publisher, &published,
		&book.PageCount, &book.Language, &book.UserUID, &book.CreatedAt, &book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	book.PublishedDate = published.Format(dateLayout)
	return &book, nil
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"bookworm/internal/cache"
	apperrors "bookworm/internal/errors"
	"bookworm/internal/media"
	"bookworm/internal/metrics"
	"bookworm/internal/model"
	"bookworm/internal/repository"
)

const (
	// DefaultPage and DefaultLimit apply when pagination input is absent or
	// not a positive integer.
	DefaultPage  = 1
	DefaultLimit = 2

	// ownerCacheTTL bounds the owner projection cache. Users are never
	// updated or deleted, so a stale entry cannot be wrong, only evicted.
	ownerCacheTTL  = time.Hour
	ownerKeyPrefix = "bw:owner:"
)

// CreateBookInput is the validated payload for creating a book.
type CreateBookInput struct {
	Title   string
	Caption string
	Rating  int
	Image   string
}

// OwnerProjection is the slice of the owning user embedded in feed entries.
type OwnerProjection struct {
	ID           uuid.UUID `json:"_id"`
	Username     string    `json:"username"`
	ProfileImage string    `json:"profileImage"`
}

// FeedBook is a book with its owner resolved. The embedded projection
// shadows the raw owner id in the JSON output.
type FeedBook struct {
	model.Book
	Owner OwnerProjection `json:"user"`
}

// FeedPage is one page of the global feed.
type FeedPage struct {
	Books       []FeedBook `json:"books"`
	CurrentPage int        `json:"currentPage"`
	TotalBooks  int64      `json:"totalBooks"`
	TotalPages  int64      `json:"totalPages"`
}

// BookService orchestrates book CRUD, ownership checks and pagination.
type BookService interface {
	Create(ctx context.Context, owner *model.User, in CreateBookInput) (*model.Book, error)
	Feed(ctx context.Context, page, limit int) (*FeedPage, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Book, error)
	Delete(ctx context.Context, requesterID, bookID uuid.UUID) error
}

type bookService struct {
	books    repository.BookRepository
	users    repository.UserRepository
	uploader media.Uploader
	cache    *cache.Client
}

// NewBookService creates a new book service.
func NewBookService(books repository.BookRepository, users repository.UserRepository, uploader media.Uploader, cache *cache.Client) BookService {
	return &bookService{
		books:    books,
		users:    users,
		uploader: uploader,
		cache:    cache,
	}
}

// Create uploads the image to the media host and persists the book. Nothing
// is persisted when the upload fails.
func (s *bookService) Create(ctx context.Context, owner *model.User, in CreateBookInput) (*model.Book, error) {
	imageURL, err := s.uploader.Upload(ctx, in.Image)
	if err != nil {
		metrics.IncMediaError("upload")
		log.Error().Err(err).Msg("image upload failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}

	book := &model.Book{
		Title:    in.Title,
		Caption:  in.Caption,
		Rating:   in.Rating,
		ImageURL: imageURL,
		UserID:   owner.ID,
	}
	if err := s.books.Create(ctx, book); err != nil {
		log.Error().Err(err).Msg("create book failed")
		return nil, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// Feed returns one page of the global feed, newest first, with each book's
// owner resolved to a public projection. Books whose owner no longer resolves
// are dropped from the page but still counted in the totals.
func (s *bookService) Feed(ctx context.Context, page, limit int) (*FeedPage, error) {
	offset := (page - 1) * limit

	books, err := s.books.FindPage(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch feed page: %w", err)
	}
	total, err := s.books.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	feed := make([]FeedBook, 0, len(books))
	for _, book := range books {
		owner, ok := s.resolveOwner(ctx, book.UserID)
		if !ok {
			continue
		}
		feed = append(feed, FeedBook{Book: book, Owner: owner})
	}

	return &FeedPage{
		Books:       feed,
		CurrentPage: page,
		TotalBooks:  total,
		TotalPages:  (total + int64(limit) - 1) / int64(limit),
	}, nil
}

// ListByOwner returns all books of one user, newest first.
func (s *bookService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Book, error) {
	books, err := s.books.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch books by owner: %w", err)
	}
	return books, nil
}

// Delete removes a book owned by the requester. The hosted image is destroyed
// first; when that fails the record is kept and the operation reports an
// error. The two steps are not atomic (see DESIGN.md).
func (s *bookService) Delete(ctx context.Context, requesterID, bookID uuid.UUID) error {
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBookNotFound
		}
		return fmt.Errorf("find book: %w", err)
	}

	if book.UserID != requesterID {
		return apperrors.ErrNotOwner
	}

	if book.ImageURL != "" {
		publicID := media.PublicIDFromURL(book.ImageURL)
		if err := s.uploader.Destroy(ctx, publicID); err != nil {
			metrics.IncMediaError("destroy")
			log.Error().Err(err).Str("public_id", publicID).Msg("image delete failed")
			return fmt.Errorf("%w: %v", apperrors.ErrMediaDeleteFailed, err)
		}
	}

	if err := s.books.Delete(ctx, book.ID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// resolveOwner loads the owner projection through the cache, falling back to
// the store. It reports false when the owner no longer exists.
func (s *bookService) resolveOwner(ctx context.Context, ownerID uuid.UUID) (OwnerProjection, bool) {
	key := ownerKeyPrefix + ownerID.String()
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var owner OwnerProjection
		if err := json.Unmarshal(data, &owner); err == nil {
			return owner, true
		}
	}

	user, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Str("owner_id", ownerID.String()).Msg("resolve owner failed")
		}
		return OwnerProjection{}, false
	}

	owner := OwnerProjection{
		ID:           user.ID,
		Username:     user.Username,
		ProfileImage: user.ProfileImage,
	}
	if data, err := json.Marshal(owner); err == nil {
		_ = s.cache.Set(ctx, key, data, ownerCacheTTL)
	}
	return owner, true
}

// NormalizePagination coerces loosely-typed pagination input to positive
// integers, substituting the defaults for anything else.
func NormalizePagination(pageStr, limitStr string) (page, limit int) {
	page = DefaultPage
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	limit = DefaultLimit
	if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
		limit = l
	}
	return page, limit
}

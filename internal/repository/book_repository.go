package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookworm/internal/model"
)

// BookRepository defines book persistence operations.
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	// FindPage returns a slice of the global feed, newest first.
	FindPage(ctx context.Context, offset, limit int) ([]model.Book, error)
	Count(ctx context.Context) (int64, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository builds a GORM-backed repository.
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) FindPage(ctx context.Context, offset, limit int) ([]model.Book, error) {
	books := make([]model.Book, 0, limit)
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Book{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *bookRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Book, error) {
	books := make([]model.Book, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Book{}, "id = ?", id).Error
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book represents a single book review. The owner reference is set at
// creation time and never changes afterwards.
type Book struct {
	ID        uuid.UUID `json:"_id" gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Caption   string    `json:"caption" gorm:"type:text;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	ImageURL  string    `json:"image" gorm:"size:512;not null"`
	UserID    uuid.UUID `json:"user" gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

package domain

import "time"

// Comment rows live in their own table keyed by id, so appending one is a
// single insert and concurrent commenters can not overwrite each other.
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	ProductID string    `json:"productId" gorm:"size:36;not null;index"`
	AuthorID  string    `json:"authorId" gorm:"size:36;not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

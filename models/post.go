package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// MaxPostLength bounds post content, counted in runes.
const MaxPostLength = 1000

// ErrEditStateInconsistent is returned when Edited and EditedAt disagree.
var ErrEditStateInconsistent = errors.New("post edited flag and edit timestamp disagree")

// Post represents a short text update owned by a user.
type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time  `gorm:"<-:create;index" json:"created_at"`
	Edited    bool       `gorm:"not null;default:false" json:"edited"`
	EditedAt  *time.Time `json:"edited_at"`
	User      User       `json:"-"`
}

// BeforeSave keeps EditedAt set if and only if the post is edited.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	if p.Edited != (p.EditedAt != nil) {
		return ErrEditStateInconsistent
	}
	return nil
}

// PostEdit is the edit marker of a serialized post.
type PostEdit struct {
	Edited      bool      `json:"edited"`
	EditingDate time.Time `json:"editing_date"`
}

// PostJSON is the public wire shape of a post.
type PostJSON struct {
	ID          uint      `json:"id"`
	User        string    `json:"user"`
	Body        string    `json:"body"`
	PostingDate time.Time `json:"posting_date"`
	Edit        *PostEdit `json:"edit,omitempty"`
}

// Serialize converts the post into its wire shape. User must be loaded.
func (p *Post) Serialize() PostJSON {
	out := PostJSON{
		ID:          p.ID,
		User:        p.User.Username,
		Body:        p.Content,
		PostingDate: p.CreatedAt,
	}
	if p.Edited && p.EditedAt != nil {
		out.Edit = &PostEdit{Edited: true, EditingDate: *p.EditedAt}
	}
	return out
}

package models

import (
	"time"
)

// Comment is embedded inside its parent post; it has no collection of its
// own. Insertion order within a post is preserved.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Post represents a post in the Posts.io application. UserID references the
// owning user's id but carries no foreign-key constraint: referential
// integrity is restored by the cascade rule on user deletion, not by the
// storage engine.
type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	UserID    string    `gorm:"column:user_id;index;size:36" json:"user"`
	Comments  []Comment `gorm:"serializer:json" json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentsByUser returns the comments on p authored by the given user.
func (p *Post) CommentsByUser(userID string) []Comment {
	var out []Comment
	for _, c := range p.Comments {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out
}

// PullCommentsByUser removes every comment authored by the given user,
// keeping the remaining comments in order. It reports whether anything
// was removed.
func (p *Post) PullCommentsByUser(userID string) bool {
	kept := p.Comments[:0]
	removed := false
	for _, c := range p.Comments {
		if c.UserID == userID {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	p.Comments = kept
	return removed
}

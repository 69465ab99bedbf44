// Package entity defines the domain models for the posts feature.
package entity

import "time"

// Post represents a single text log written by a user.
// A post belongs to exactly one user and is never edited after creation;
// its lifecycle is create, then optionally delete by the owner.
type Post struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:255;not null"`
	Content   string    `gorm:"type:text;not null"`
	UserID    uint      `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostWithAuthor is the read model for feed, detail, and profile views.
// AuthorNickname is joined from the users table at read time so a nickname
// change is always reflected live, never denormalized into posts.
type PostWithAuthor struct {
	Post           `gorm:"embedded"`
	AuthorNickname string
}

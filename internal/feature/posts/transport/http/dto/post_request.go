// Package dto defines data transfer objects for the posts HTTP transport layer.
package dto

// CreatePostForm represents the new-post form posted to /posts.
// The author is never read from the form; it always comes from the session.
type CreatePostForm struct {
	Title   string `form:"title" json:"title"`
	Content string `form:"content" json:"content"`
}

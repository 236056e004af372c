package content

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")

// Post is a blog entry published through the CMS.
type Post struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Body        string    `json:"body,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

package models

import "time"

// PostType is the kind of content a post carries
type PostType string

const (
	PostTypeText  PostType = "text"
	PostTypeImage PostType = "image"
	PostTypeVideo PostType = "video"
)

// Valid reports whether t is a known post type
func (t PostType) Valid() bool {
	switch t {
	case PostTypeText, PostTypeImage, PostTypeVideo:
		return true
	}
	return false
}

// Post is a status update shared with one family
type Post struct {
	ID        int64     `json:"id"`
	FamilyID  string    `json:"family_id"`
	AuthorID  string    `json:"author_id"`
	Type      PostType  `json:"type"`
	Text      *string   `json:"text,omitempty"`
	MediaURL  *string   `json:"media_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasMedia reports whether the post references an uploaded object
func (p *Post) HasMedia() bool {
	return p.MediaURL != nil && *p.MediaURL != ""
}

// FeedPost is a post decorated for display in a family feed
type FeedPost struct {
	Post
	Author    *Author   `json:"author,omitempty"`
	LikeCount int       `json:"like_count"`
	LikedByMe bool      `json:"liked_by_me"`
	Comments  []Comment `json:"comments"`
}

// LikeState is the result of a like toggle
type LikeState struct {
	PostID    int64 `json:"post_id"`
	Liked     bool  `json:"liked"`
	LikeCount int   `json:"like_count"`
}

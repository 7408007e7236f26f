package models

import "time"

// Comment is a reply to a post. Content, audio or both are present.
type Comment struct {
	ID              int64     `json:"id"`
	PostID          int64     `json:"post_id"`
	AuthorID        string    `json:"author_id"`
	Content         *string   `json:"content,omitempty"`
	AudioURL        *string   `json:"audio_url,omitempty"`
	AudioDurationMs *int64    `json:"audio_duration_ms,omitempty"`
	AudioMime       *string   `json:"audio_mime,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	Author          *Author   `json:"author,omitempty"`
}

// HasAudio reports whether the comment carries a voice note
func (c *Comment) HasAudio() bool {
	return c.AudioURL != nil && *c.AudioURL != ""
}

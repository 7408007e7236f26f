// Package validation holds input rules shared by services and handlers.
// Every rule runs before any database or storage call.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxVoiceNoteMs is the longest accepted voice-note comment
	MaxVoiceNoteMs = 120_000

	// MaxAvatarBytes is the largest accepted avatar upload
	MaxAvatarBytes = 5 * 1024 * 1024

	// MaxGameDurationMs and MaxGameMistakes bound a submitted session so
	// its score stays well inside int64
	MaxGameDurationMs = 24 * 60 * 60 * 1000
	MaxGameMistakes   = 10_000

	maxFamilyNameLen    = 80
	maxDescriptionLen   = 500
	maxPersonNameLen    = 100
	maxPostTextLen      = 5000
	maxCommentLen       = 2000
	maxQuestionReplyLen = 1000
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return ValidationError{Field: field, Message: message}
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("email", "email is required")
	}
	if !emailRegex.MatchString(email) {
		return invalid("email", "invalid email format")
	}
	return nil
}

// ValidateFamilyName checks a trimmed family name
func ValidateFamilyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "family name is required")
	}
	if utf8.RuneCountInString(name) < 2 {
		return invalid("name", "family name must be at least 2 characters")
	}
	if utf8.RuneCountInString(name) > maxFamilyNameLen {
		return invalid("name", fmt.Sprintf("family name must be at most %d characters", maxFamilyNameLen))
	}
	return nil
}

// ValidateDescription checks an optional family description
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(strings.TrimSpace(description)) > maxDescriptionLen {
		return invalid("description", fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	}
	return nil
}

// ValidatePersonName checks a required first or last name
func ValidatePersonName(field, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid(field, "name is required")
	}
	if utf8.RuneCountInString(name) > maxPersonNameLen {
		return invalid(field, fmt.Sprintf("name must be at most %d characters", maxPersonNameLen))
	}
	return nil
}

// ValidatePost checks a new post. Text posts need text, media posts need a URL.
func ValidatePost(postType, text, mediaURL string) error {
	text = strings.TrimSpace(text)
	mediaURL = strings.TrimSpace(mediaURL)

	switch postType {
	case "text":
		if text == "" {
			return invalid("text", "post text is required")
		}
	case "image", "video":
		if mediaURL == "" {
			return invalid("media_url", "media URL is required for "+postType+" posts")
		}
	default:
		return invalid("type", "post type must be text, image or video")
	}

	if utf8.RuneCountInString(text) > maxPostTextLen {
		return invalid("text", fmt.Sprintf("post text must be at most %d characters", maxPostTextLen))
	}
	return nil
}

// VoiceNote is the audio part of a comment
type VoiceNote struct {
	URL        string
	DurationMs int64
	Mime       string
}

// ValidateComment checks trimmed comment text and an optional voice note.
// A comment needs text, audio or both.
func ValidateComment(text string, audio *VoiceNote) error {
	text = strings.TrimSpace(text)
	hasAudio := audio != nil && strings.TrimSpace(audio.URL) != ""

	if text == "" && !hasAudio {
		return invalid("content", "comment must have either text or audio")
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return invalid("content", fmt.Sprintf("comment must be at most %d characters", maxCommentLen))
	}
	if hasAudio {
		return ValidateVoiceNote(audio.DurationMs, audio.Mime)
	}
	return nil
}

// ValidateVoiceNote requires a duration in (0, 120s] and an audio/* mime type
func ValidateVoiceNote(durationMs int64, mime string) error {
	mime = strings.TrimSpace(mime)
	if durationMs <= 0 || mime == "" {
		return invalid("audio", "audio duration and mime type are required")
	}
	if durationMs > MaxVoiceNoteMs {
		return invalid("audio_duration_ms", "voice notes must be at most 120 seconds")
	}
	if !strings.HasPrefix(strings.ToLower(mime), "audio/") {
		return invalid("audio_mime", "voice note must be an audio file")
	}
	return nil
}

// ValidateAvatar checks an uploaded avatar's declared type and size
func ValidateAvatar(contentType string, size int64) error {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return invalid("avatar", "avatar must be an image")
	}
	if size <= 0 {
		return invalid("avatar", "avatar file is empty")
	}
	if size > MaxAvatarBytes {
		return invalid("avatar", "avatar must be 5MB or smaller")
	}
	return nil
}

// ValidateGameSession rejects negative or out-of-range durations and mistake counts
func ValidateGameSession(durationMs int64, mistakes int) error {
	if durationMs < 0 {
		return invalid("duration_ms", "duration cannot be negative")
	}
	if durationMs > MaxGameDurationMs {
		return invalid("duration_ms", "duration must be at most 24 hours")
	}
	if mistakes < 0 {
		return invalid("mistakes", "mistakes cannot be negative")
	}
	if mistakes > MaxGameMistakes {
		return invalid("mistakes", fmt.Sprintf("mistakes must be at most %d", MaxGameMistakes))
	}
	return nil
}

// ValidateQuestionResponse checks a trimmed daily question answer
func ValidateQuestionResponse(response string) error {
	response = strings.TrimSpace(response)
	if response == "" {
		return invalid("response", "response is required")
	}
	if utf8.RuneCountInString(response) > maxQuestionReplyLen {
		return invalid("response", fmt.Sprintf("response must be at most %d characters", maxQuestionReplyLen))
	}
	return nil
}

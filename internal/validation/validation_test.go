package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid email", email: "test@example.com"},
		{name: "valid email with subdomain", email: "user@mail.example.com"},
		{name: "valid email with plus", email: "user+tag@example.com"},
		{name: "missing @", email: "testexample.com", wantErr: true},
		{name: "missing domain", email: "test@", wantErr: true},
		{name: "missing local part", email: "@example.com", wantErr: true},
		{name: "empty string", email: "", wantErr: true},
		{name: "spaces in email", email: "test @example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFamilyName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid name", input: "The Smiths"},
		{name: "padded name", input: "  Smiths  "},
		{name: "empty name", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "name too short", input: "J", wantErr: true},
		{name: "name too long", input: strings.Repeat("a", 81), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFamilyName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFamilyName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePost(t *testing.T) {
	tests := []struct {
		name     string
		postType string
		text     string
		mediaURL string
		wantErr  bool
	}{
		{name: "text post", postType: "text", text: "hello"},
		{name: "text post without text", postType: "text", text: "  ", wantErr: true},
		{name: "image post", postType: "image", mediaURL: "https://x/storage/v1/object/public/media/a.jpg"},
		{name: "image post without media", postType: "image", text: "caption", wantErr: true},
		{name: "video post", postType: "video", mediaURL: "https://x/v.mp4"},
		{name: "unknown type", postType: "audio", text: "hi", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePost(tt.postType, tt.text, tt.mediaURL)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePost() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateComment(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		audio   *VoiceNote
		wantErr bool
	}{
		{name: "text only", text: "nice!"},
		{name: "empty text no audio", text: "   ", wantErr: true},
		{name: "audio only", audio: &VoiceNote{URL: "https://x/a.webm", DurationMs: 4000, Mime: "audio/webm"}},
		{name: "text and audio", text: "listen", audio: &VoiceNote{URL: "https://x/a.webm", DurationMs: 4000, Mime: "audio/webm"}},
		{name: "audio missing mime", audio: &VoiceNote{URL: "https://x/a.webm", DurationMs: 4000}, wantErr: true},
		{name: "audio missing duration", audio: &VoiceNote{URL: "https://x/a.webm", Mime: "audio/webm"}, wantErr: true},
		{name: "audio too long", audio: &VoiceNote{URL: "https://x/a.webm", DurationMs: 120_001, Mime: "audio/webm"}, wantErr: true},
		{name: "audio at limit", audio: &VoiceNote{URL: "https://x/a.webm", DurationMs: 120_000, Mime: "audio/webm"}},
		{name: "audio wrong mime", audio: &VoiceNote{URL: "https://x/a.png", DurationMs: 4000, Mime: "image/png"}, wantErr: true},
		{name: "empty audio url counts as absent", text: "", audio: &VoiceNote{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComment(tt.text, tt.audio)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateComment() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAvatar(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		wantErr     bool
	}{
		{name: "png", contentType: "image/png", size: 1024},
		{name: "exactly 5MB", contentType: "image/jpeg", size: MaxAvatarBytes},
		{name: "too large", contentType: "image/jpeg", size: MaxAvatarBytes + 1, wantErr: true},
		{name: "not an image", contentType: "application/pdf", size: 1024, wantErr: true},
		{name: "empty", contentType: "image/png", size: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAvatar(tt.contentType, tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAvatar() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateGameSession(t *testing.T) {
	if err := ValidateGameSession(45000, 2); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateGameSession(-1, 0); err == nil {
		t.Error("negative duration should be rejected")
	}
	if err := ValidateGameSession(1000, -1); err == nil {
		t.Error("negative mistakes should be rejected")
	}
	if err := ValidateGameSession(MaxGameDurationMs, MaxGameMistakes); err != nil {
		t.Errorf("limits should be accepted: %v", err)
	}
	if err := ValidateGameSession(MaxGameDurationMs+1, 0); err == nil {
		t.Error("duration over 24h should be rejected")
	}
	if err := ValidateGameSession(math.MaxInt64-1000, 1); err == nil {
		t.Error("overflowing duration should be rejected")
	}
	if err := ValidateGameSession(1000, MaxGameMistakes+1); err == nil {
		t.Error("too many mistakes should be rejected")
	}
	var vErr ValidationError
	if err := ValidateGameSession(1000, math.MaxInt32); !errors.As(err, &vErr) || vErr.Field != "mistakes" {
		t.Errorf("expected mistakes ValidationError, got %v", err)
	}
}

func TestValidationErrorIsMatchable(t *testing.T) {
	err := ValidatePersonName("first_name", "")
	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if vErr.Field != "first_name" {
		t.Errorf("Field = %q, want first_name", vErr.Field)
	}
}

func TestValidateQuestionResponse(t *testing.T) {
	if err := ValidateQuestionResponse("  pancakes "); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateQuestionResponse(" "); err == nil {
		t.Error("blank response should be rejected")
	}
}

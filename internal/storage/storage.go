// Package storage abstracts the object store holding post media, avatars and voice notes.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Buckets used by the application
const (
	BucketMedia        = "media"
	BucketAvatars      = "avatars"
	BucketCommentAudio = "comment-audio"
)

// Store uploads, addresses and removes objects.
// Both the Supabase Storage client and S3Store implement it.
type Store interface {
	Upload(ctx context.Context, bucket, objectPath string, body []byte, contentType string) error
	PublicURL(bucket, objectPath string) string
	Remove(ctx context.Context, bucket string, objectPaths ...string) error
}

// publicMarker precedes the bucket name in public object URLs
const publicMarker = "/object/public/"

// PathFromPublicURL extracts the object path from a public URL of the form
// .../storage/v1/object/public/<bucket>/<path>. ok is false when the URL does
// not point into bucket.
func PathFromPublicURL(publicURL, bucket string) (objectPath string, ok bool) {
	marker := publicMarker + bucket + "/"
	idx := strings.Index(publicURL, marker)
	if idx < 0 {
		return "", false
	}

	raw := publicURL[idx+len(marker):]
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil || decoded == "" {
		return "", false
	}
	return decoded, true
}

// AvatarPath names a new avatar object: <userID>/<unix ms>-<random>.<ext>
func AvatarPath(userID, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s%s", userID, now.UnixMilli(), shortID(), extension(filename, ".jpg"))
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func extension(filename, fallback string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" || len(ext) > 6 {
		return fallback
	}
	return ext
}

package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// StorageClient handles Supabase Storage object operations
type StorageClient struct {
	client *Client
}

// Upload stores body at bucket/objectPath, replacing any existing object
func (s *StorageClient) Upload(ctx context.Context, bucket, objectPath string, body []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	headers := map[string]string{
		"Content-Type": contentType,
		"x-upsert":     "true",
	}

	urlStr := fmt.Sprintf("%s/object/%s/%s", s.client.storageURL, bucket, escapePath(objectPath))
	respBody, statusCode, err := s.client.request(ctx, http.MethodPost, urlStr, body, headers, s.client.serviceKey())
	if err != nil {
		return err
	}
	if statusCode >= 400 {
		return parseError(respBody, statusCode)
	}
	return nil
}

// PublicURL returns the public URL for an object in a public bucket
func (s *StorageClient) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", s.client.storageURL, bucket, escapePath(objectPath))
}

// Remove deletes objects from a bucket. Missing objects are not an error.
func (s *StorageClient) Remove(ctx context.Context, bucket string, objectPaths ...string) error {
	if len(objectPaths) == 0 {
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{"prefixes": objectPaths})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	urlStr := fmt.Sprintf("%s/object/%s", s.client.storageURL, bucket)
	respBody, statusCode, err := s.client.request(ctx, http.MethodDelete, urlStr, body, nil, s.client.serviceKey())
	if err != nil {
		return err
	}
	if statusCode >= 400 {
		return parseError(respBody, statusCode)
	}
	return nil
}

// escapePath escapes each segment but keeps the separators
func escapePath(p string) string {
	segments := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// Package objectstore handles destination images in an S3-compatible bucket.
// The MinIO client works against any S3-compatible provider (MinIO, AWS S3,
// ArvanCloud), so the deployment target is purely a configuration concern.
package objectstore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// uploadURLTTL is how long a minted upload URL stays valid. Long enough for a
// slow mobile upload, short enough that a leaked URL is a bounded liability.
const uploadURLTTL = 5 * time.Minute

// Config holds the connection settings for the object store.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Store issues time-limited upload URLs and deletes stored objects.
type Store struct {
	client *minio.Client
	bucket string
}

// New constructs a Store. No network call is made until the first operation.
func New(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object store client: %w", err)
	}

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// PresignUpload returns a pre-signed PUT URL for key, valid for five minutes.
// The content type is signed into the URL, so an upload with a different
// Content-Type header fails the signature check.
func (s *Store) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	headers := http.Header{}
	headers.Set("Content-Type", contentType)

	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, key, uploadURLTTL, url.Values{}, headers)
	if err != nil {
		return "", fmt.Errorf("presigning upload for key %s: %w", key, err)
	}
	return u.String(), nil
}

// Remove deletes the object stored under key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing object %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the browser-accessible URL for a given key (path style,
// which every S3-compatible provider accepts).
func (s *Store) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.client.EndpointURL().String(), "/"), s.bucket, key)
}

// BuildKey constructs a new object key namespaced by the owning user with a
// random unique suffix, preserving the original file extension.
func BuildKey(userID, fileName string) string {
	ext := fileName
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		ext = fileName[i+1:]
	}
	return fmt.Sprintf("destinations/%s/%s.%s", userID, uuid.NewString(), ext)
}

// KeyFromURL derives the storage key for a stored image URL: its final path
// segment. Matches the key shape produced by client-side direct uploads.
func KeyFromURL(rawURL string) string {
	if i := strings.LastIndex(rawURL, "/"); i >= 0 {
		return rawURL[i+1:]
	}
	return rawURL
}

package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/campus-events-api/internal/domain"
	"github.com/campus-events-api/internal/pkg/token"
)

// MaxFileSize is the largest accepted upload in bytes.
const MaxFileSize = 10 << 20

var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

var (
	ErrFileTooLarge     = fmt.Errorf("file exceeds the 10MB limit: %w", domain.ErrBadRequest)
	ErrUnsupportedType  = fmt.Errorf("only JPEG, PNG, WebP and GIF images are allowed: %w", domain.ErrBadRequest)
	ErrBucketNotAllowed = fmt.Errorf("unknown storage bucket: %w", domain.ErrBadRequest)
)

// ObjectStore is the storage backend uploads are relayed to.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key string, r io.Reader, contentType string) error
	PublicURL(bucket, key string) string
}

type Input struct {
	Reader      io.Reader
	ContentType string
	Size        int64
	UserID      string
	Bucket      string
}

// Result is what the client gets back. Placeholder is set when storage was
// unavailable and URL points at the fallback image.
type Result struct {
	URL         string `json:"url"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Type        string `json:"type"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

type Service interface {
	Upload(ctx context.Context, in Input) (*Result, error)
}

// ServiceDeps wires the upload relay. Store may be nil when object storage
// is not configured.
type ServiceDeps struct {
	Store          ObjectStore
	Buckets        []string
	DefaultBucket  string
	PlaceholderURL string
	Now            func() time.Time
}

type service struct {
	store          ObjectStore
	buckets        []string
	defaultBucket  string
	placeholderURL string
	now            func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store:          deps.Store,
		buckets:        deps.Buckets,
		defaultBucket:  deps.DefaultBucket,
		placeholderURL: deps.PlaceholderURL,
		now:            now,
	}
}

func (s *service) Upload(ctx context.Context, in Input) (*Result, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(in.ContentType, ";", 2)[0]))
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedType
	}
	if in.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	bucket := in.Bucket
	if bucket == "" {
		bucket = s.defaultBucket
	}
	if !slices.Contains(s.buckets, bucket) {
		return nil, ErrBucketNotAllowed
	}

	key, err := s.objectKey(in.UserID, ext)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		slog.Warn("object storage not configured, returning placeholder", "bucket", bucket)
		return s.placeholder(in.Size, contentType), nil
	}
	if err := s.store.Upload(ctx, bucket, key, in.Reader, contentType); err != nil {
		slog.Warn("upload to object storage failed, returning placeholder", "bucket", bucket, "key", key, "err", err)
		return s.placeholder(in.Size, contentType), nil
	}
	return &Result{
		URL:  s.store.PublicURL(bucket, key),
		Path: key,
		Size: in.Size,
		Type: contentType,
	}, nil
}

// objectKey builds "<user>/<unix-millis>-<suffix>.<ext>".
func (s *service) objectKey(userID, ext string) (string, error) {
	suffix, err := token.Suffix(8)
	if err != nil {
		return "", err
	}
	owner := sanitizeSegment(userID)
	if owner == "" {
		owner = "anonymous"
	}
	name := fmt.Sprintf("%d-%s.%s", s.now().UnixMilli(), suffix, ext)
	return path.Join(owner, name), nil
}

func (s *service) placeholder(size int64, contentType string) *Result {
	return &Result{URL: s.placeholderURL, Size: size, Type: contentType, Placeholder: true}
}

// sanitizeSegment keeps only characters that are safe in an object key
// segment so a user id cannot introduce path traversal.
func sanitizeSegment(v string) string {
	var b strings.Builder
	for _, r := range v {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Package service provides the object store used for property images.
package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/config"
	"github.com/festy23/realty_ops/internal/storage/model"
	"github.com/festy23/realty_ops/internal/storage/repository"
)

// ObjectRoute is the public route prefix objects are served under.
const ObjectRoute = "/storage/objects/"

// Store defines the object store operations. Paths are relative to the configured bucket.
type Store interface {
	// Upload stores data at path. An empty contentType is detected from the content.
	Upload(ctx context.Context, path string, data []byte, contentType string, opts model.UploadOptions) (*model.Object, error)

	// Download returns the object at path.
	Download(ctx context.Context, path string) (*model.Object, error)

	// Exists reports whether an object is stored at path.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the paths starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the object at path.
	Delete(ctx context.Context, path string) error

	// SignedURL returns a URL that serves the object at path until ttl elapses.
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)

	// Verify checks a signed URL token against path.
	Verify(path, token string) error
}

type store struct {
	repo    repository.Repository
	bucket  string
	baseURL string
	maxSize int64
	signer  *signer
	logger  *zap.SugaredLogger
}

// New creates a new object store over repo.
func New(repo repository.Repository, cfg config.StorageConfig, logger *zap.SugaredLogger) Store {
	return &store{
		repo:    repo,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxSize: cfg.MaxUploadBytes,
		signer:  &signer{secret: []byte(cfg.SigningSecret), now: time.Now},
		logger:  logger,
	}
}

// DetectContentType sniffs the media type of data, without parameters.
func DetectContentType(data []byte) string {
	mtype := mimetype.Detect(data).String()
	if i := strings.IndexByte(mtype, ';'); i >= 0 {
		mtype = mtype[:i]
	}
	return mtype
}

// Upload stores data at path. An empty contentType is detected from the content.
func (s *store) Upload(
	ctx context.Context,
	path string,
	data []byte,
	contentType string,
	opts model.UploadOptions,
) (*model.Object, error) {
	path, err := cleanPath(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, model.ErrEmptyObject
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, model.ErrObjectTooLarge
	}
	if contentType == "" {
		contentType = DetectContentType(data)
	}

	obj := &model.Object{
		Bucket:      s.bucket,
		Path:        path,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}
	if err := s.repo.Put(ctx, obj, opts.Overwrite); err != nil {
		return nil, err
	}

	s.logger.Infow("object stored", "bucket", s.bucket, "path", path, "content_type", contentType, "size", obj.Size)
	return obj, nil
}

// Download returns the object at path.
func (s *store) Download(ctx context.Context, path string) (*model.Object, error) {
	path, err := cleanPath(path)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, s.bucket, path)
}

// Exists reports whether an object is stored at path.
func (s *store) Exists(ctx context.Context, path string) (bool, error) {
	path, err := cleanPath(path)
	if err != nil {
		return false, err
	}
	return s.repo.Exists(ctx, s.bucket, path)
}

// List returns the paths starting with prefix.
func (s *store) List(ctx context.Context, prefix string) ([]string, error) {
	return s.repo.ListPaths(ctx, s.bucket, strings.TrimPrefix(prefix, "/"))
}

// Delete removes the object at path.
func (s *store) Delete(ctx context.Context, path string) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, s.bucket, path); err != nil {
		return err
	}
	s.logger.Infow("object deleted", "bucket", s.bucket, "path", path)
	return nil
}

// SignedURL returns a URL that serves the object at path until ttl elapses.
func (s *store) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	path, err := cleanPath(path)
	if err != nil {
		return "", err
	}

	exists, err := s.repo.Exists(ctx, s.bucket, path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", model.ErrObjectNotFound
	}

	token, err := s.signer.sign(s.bucket, path, ttl)
	if err != nil {
		return "", err
	}

	return s.baseURL + ObjectRoute + path + "?token=" + url.QueryEscape(token), nil
}

// Verify checks a signed URL token against path.
func (s *store) Verify(path, token string) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	if token == "" {
		return model.ErrInvalidSignature
	}
	return s.signer.verify(s.bucket, path, token)
}

// cleanPath rejects empty paths and parent references.
func cleanPath(path string) (string, error) {
	path = strings.TrimPrefix(path, "/")
	if path == "" || strings.HasSuffix(path, "/") {
		return "", model.ErrInvalidPath
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return "", model.ErrInvalidPath
		}
	}
	return path, nil
}

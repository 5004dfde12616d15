// internal/storage/storage.go
package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/marketquery/backend/internal/config"
)

var (
	ErrNotImage = errors.New("file harus berupa gambar")
	ErrTooLarge = errors.New("ukuran file melebihi batas maksimal")
)

// Store persists product images under a local directory. When AWS credentials
// are configured, objects are mirrored to S3 as well; the local copy stays
// authoritative for the image lifecycle.
type Store struct {
	dir      string
	maxSize  int64
	s3Client *s3.S3
	bucket   string
}

func New(cfg *config.Config) (*Store, error) {
	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	store := &Store{
		dir:     cfg.Upload.Dir,
		maxSize: cfg.Upload.MaxSize,
	}

	if cfg.AWS.AccessKeyID != "" {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(cfg.AWS.Region),
			Credentials: credentials.NewStaticCredentials(
				cfg.AWS.AccessKeyID,
				cfg.AWS.SecretAccessKey,
				"",
			),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %w", err)
		}
		store.s3Client = s3.New(sess)
		store.bucket = cfg.AWS.S3Bucket
	}

	return store, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save validates and stores a single uploaded image, returning the stored
// filename. Only the filename is exposed downstream, never the full path.
func (s *Store) Save(header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}

	if s.maxSize > 0 && header.Size > s.maxSize {
		return "", ErrTooLarge
	}

	filename := generateFileName(header.Filename)

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if s.s3Client != nil {
		s.mirrorToS3(filename, contentType)
	}

	return filename, nil
}

// Remove deletes a stored image by name. Deletion is best-effort: a missing
// file is a silent no-op and an unlink failure is logged, never propagated.
func (s *Store) Remove(filename string) {
	if filename == "" {
		return
	}

	path := filepath.Join(s.dir, filepath.Base(filename))
	if _, err := os.Stat(path); err != nil {
		return
	}

	if err := os.Remove(path); err != nil {
		logrus.WithError(err).WithField("file", filename).Warn("Failed to delete image file")
	}

	if s.s3Client != nil {
		if _, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(filename),
		}); err != nil {
			logrus.WithError(err).WithField("file", filename).Warn("Failed to delete S3 object")
		}
	}
}

// Exists reports whether a stored image is present on disk.
func (s *Store) Exists(filename string) bool {
	_, err := os.Stat(filepath.Join(s.dir, filepath.Base(filename)))
	return err == nil
}

func (s *Store) mirrorToS3(filename, contentType string) {
	f, err := os.Open(filepath.Join(s.dir, filename))
	if err != nil {
		logrus.WithError(err).WithField("file", filename).Warn("Failed to open file for S3 mirror")
		return
	}
	defer f.Close()

	if _, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(filename),
		Body:        f,
		ContentType: aws.String(contentType),
	}); err != nil {
		logrus.WithError(err).WithField("file", filename).Warn("Failed to mirror file to S3")
	}
}

func generateFileName(originalName string) string {
	suffix := rand.Int63n(1_000_000_000)
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), suffix, filepath.Ext(originalName))
}

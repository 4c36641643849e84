package outputs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/s3"
)

// ErrNotFound is returned by Load when no record has been stored.
var ErrNotFound = errors.New("outputs record not found")

// Store saves and removes outputs records.
type Store interface {
	Save(ctx context.Context, r *Record) error
	Load(ctx context.Context) (*Record, error)
	Delete(ctx context.Context) error
	// Location describes where records go, for log messages.
	Location() string
}

// FileStore keeps the record in a local file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, r *Record) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create outputs directory: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write outputs file: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context) (*Record, error) {
	// #nosec G304
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read outputs file: %w", err)
	}
	return Unmarshal(data)
}

// Delete implements Store. A missing file is not an error.
func (s *FileStore) Delete(_ context.Context) error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove outputs file: %w", err)
	}
	return nil
}

// Location implements Store.
func (s *FileStore) Location() string {
	return s.Path
}

// ObjectClient is the subset of the S3 client used by S3Store.
type ObjectClient interface {
	PutObject(ctx context.Context, bucket, key string, data []byte) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	DeleteObject(ctx context.Context, bucket, key string) error
}

var _ ObjectClient = (*s3.Client)(nil)

// S3Store keeps the record in an S3 object.
type S3Store struct {
	Client ObjectClient
	Bucket string
	Key    string
}

// NewS3Store returns a store writing to s3://bucket/key.
func NewS3Store(client ObjectClient, bucket, key string) *S3Store {
	return &S3Store{Client: client, Bucket: bucket, Key: key}
}

// Save implements Store.
func (s *S3Store) Save(ctx context.Context, r *Record) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	return s.Client.PutObject(ctx, s.Bucket, s.Key, data)
}

// Load implements Store.
func (s *S3Store) Load(ctx context.Context) (*Record, error) {
	data, err := s.Client.GetObject(ctx, s.Bucket, s.Key)
	if err != nil {
		if errors.Is(err, s3.ErrObjectNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return Unmarshal(data)
}

// Delete implements Store.
func (s *S3Store) Delete(ctx context.Context) error {
	return s.Client.DeleteObject(ctx, s.Bucket, s.Key)
}

// Location implements Store.
func (s *S3Store) Location() string {
	return fmt.Sprintf("s3://%s/%s", s.Bucket, s.Key)
}

// MultiStore fans out to several stores. Save and Delete try every store
// and join the errors; Load returns the first record found.
type MultiStore []Store

// Save implements Store.
func (m MultiStore) Save(ctx context.Context, r *Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Save(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Location(), err))
		}
	}
	return errors.Join(errs...)
}

// Load implements Store.
func (m MultiStore) Load(ctx context.Context) (*Record, error) {
	for _, s := range m {
		r, err := s.Load(ctx)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return r, err
	}
	return nil, ErrNotFound
}

// Delete implements Store.
func (m MultiStore) Delete(ctx context.Context) error {
	var errs []error
	for _, s := range m {
		if err := s.Delete(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Location(), err))
		}
	}
	return errors.Join(errs...)
}

// Location implements Store.
func (m MultiStore) Location() string {
	locs := make([]string, 0, len(m))
	for _, s := range m {
		locs = append(locs, s.Location())
	}
	return fmt.Sprint(locs)
}

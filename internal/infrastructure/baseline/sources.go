package baseline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/port"
	"github.com/varshiniml7/predictive-maintenance/internal/infrastructure/s3store"
)

const fileScheme = "file://"

// FileSource reads a stats document from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource accepts a bare path or a file:// URI.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: strings.TrimPrefix(path, fileScheme)}
}

func (s *FileSource) Name() string { return s.path }

// Fetch reads and decodes the document.
func (s *FileSource) Fetch(_ context.Context) (port.StatisticsDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading stats file: %w", err)
	}
	return ParseDocument(data)
}

// ObjectFetcher downloads objects from S3.
type ObjectFetcher interface {
	Fetch(ctx context.Context, loc s3store.Location) ([]byte, error)
}

// S3Source reads a stats document stored in a bucket.
type S3Source struct {
	fetcher ObjectFetcher
	loc     s3store.Location
}

// NewS3Source creates a source for an s3://bucket/key URI.
func NewS3Source(fetcher ObjectFetcher, uri string) (*S3Source, error) {
	loc, err := s3store.ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if fetcher == nil {
		return nil, fmt.Errorf("baseline %s: no s3 client configured", uri)
	}
	return &S3Source{fetcher: fetcher, loc: loc}, nil
}

func (s *S3Source) Name() string { return s.loc.String() }

// Fetch downloads and decodes the document.
func (s *S3Source) Fetch(ctx context.Context) (port.StatisticsDocument, error) {
	data, err := s.fetcher.Fetch(ctx, s.loc)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data)
}

// IsPostgresURI reports whether uri names a PostgreSQL database.
func IsPostgresURI(uri string) bool {
	return strings.HasPrefix(uri, "postgres://") || strings.HasPrefix(uri, "postgresql://")
}

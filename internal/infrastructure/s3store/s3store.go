// Package s3store reads model and baseline artifacts from Amazon S3.
package s3store

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Scheme is the URI scheme handled by this package.
const Scheme = "s3://"

// Location identifies an object in a bucket.
type Location struct {
	Bucket string
	Key    string
}

// String returns the s3:// URI of the location.
func (l Location) String() string {
	return Scheme + l.Bucket + "/" + l.Key
}

// IsURI reports whether s uses the s3:// scheme.
func IsURI(s string) bool {
	return strings.HasPrefix(s, Scheme)
}

// ParseURI splits s3://bucket/key into its parts.
func ParseURI(uri string) (Location, error) {
	if !IsURI(uri) {
		return Location{}, fmt.Errorf("not an s3 uri: %q", uri)
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, fmt.Errorf("s3 uri %q must have the form s3://bucket/key", uri)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// Fetcher downloads whole objects.
type Fetcher struct {
	client s3iface.S3API
}

// NewFetcher creates a Fetcher backed by the given client.
func NewFetcher(client s3iface.S3API) *Fetcher {
	return &Fetcher{client: client}
}

// NewFetcherForRegion creates a Fetcher using the default credential chain.
func NewFetcherForRegion(region string) (*Fetcher, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("creating aws session: %w", err)
	}
	return NewFetcher(s3.New(sess)), nil
}

// Fetch returns the full body of the object at loc.
func (f *Fetcher) Fetch(ctx context.Context, loc Location) ([]byte, error) {
	out, err := f.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", loc, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", loc, err)
	}
	return body, nil
}

package assets

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of the S3 client the fetcher uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher reads s3://bucket/key references.
type S3Fetcher struct {
	client   S3API
	maxBytes int64
}

// NewS3Fetcher wraps an existing client.
func NewS3Fetcher(client S3API) *S3Fetcher {
	return &S3Fetcher{client: client, maxBytes: DefaultMaxBytes}
}

// NewS3FetcherFromEnv loads the default AWS configuration chain.
func NewS3FetcherFromEnv(ctx context.Context, region string) (*S3Fetcher, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("assets: load aws config: %w", err)
	}
	return NewS3Fetcher(s3.NewFromConfig(cfg)), nil
}

func parseS3(ref string) (bucket, key string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" || u.Host == "" || strings.Trim(u.Path, "/") == "" {
		return "", "", ErrUnsupported
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

func (f *S3Fetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	bucket, key, err := parseS3(ref)
	if err != nil {
		return nil, &FetchError{Ref: ref, Err: err}
	}
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &FetchError{Ref: ref, Err: err}
	}
	defer out.Body.Close()
	data, err := io.ReadAll(io.LimitReader(out.Body, f.maxBytes+1))
	if err != nil {
		return nil, &FetchError{Ref: ref, Err: err}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, &FetchError{Ref: ref, Err: ErrTooLarge}
	}
	return data, nil
}

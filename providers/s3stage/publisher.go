// Package s3stage publishes artifacts into the S3 bucket backing an
// external stage. The platform sees files the moment they land in the
// bucket, so publishing here and refreshing the stage directory is
// equivalent to an in-platform upload.
package s3stage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/frostline-io/frostline/internal/logging"
	"github.com/frostline-io/frostline/internal/platform"
)

// api is the S3 surface the publisher consumes, kept narrow so tests can
// fake it.
type api interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Config locates the external-stage bucket.
type Config struct {
	Bucket  string
	Prefix  string
	Region  string
	Profile string
}

// Publisher writes artifacts into the external-stage bucket with overwrite
// semantics.
type Publisher struct {
	client api
	bucket string
	prefix string
	log    interface {
		Debug(msg string, args ...any)
	}
}

// New builds a Publisher against a real S3 endpoint.
func New(ctx context.Context, cfg Config) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, platform.Configuration("s3stage: bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Publisher{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		log:    logging.For("s3stage"),
	}, nil
}

// NewWithClient builds a Publisher over an injected S3 API, for tests.
func NewWithClient(client api, bucket, prefix string) *Publisher {
	return &Publisher{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		log:    logging.For("s3stage"),
	}
}

func (p *Publisher) key(destPath string) string {
	name := path.Base(destPath)
	if p.prefix == "" {
		return name
	}
	return p.prefix + "/" + name
}

// Publish writes the artifact bytes under the stage prefix. PutObject
// replaces any previous object, which is exactly the overwrite contract
// re-runs need.
func (p *Publisher) Publish(ctx context.Context, destPath string, data []byte) error {
	key := p.key(destPath)
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return classify("s3stage.publish", key, err)
	}

	p.log.Debug("published to external stage", "bucket", p.bucket, "key", key, "bytes", len(data))
	return nil
}

// List enumerates file names under the stage prefix, for post-publish
// verification.
func (p *Publisher) List(ctx context.Context, _ string) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(p.bucket),
	}
	if p.prefix != "" {
		input.Prefix = aws.String(p.prefix + "/")
	}

	out, err := p.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, classify("s3stage.list", p.bucket, err)
	}

	names := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		names = append(names, path.Base(aws.ToString(obj.Key)))
	}
	return names, nil
}

// classify maps S3 API errors onto the shared taxonomy.
func classify(op, resource string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied":
			return platform.PermissionDenied(op, resource, err)
		case "NoSuchBucket", "NoSuchKey":
			return &platform.Error{
				Sentinel: platform.ErrNotFound,
				Op:       op,
				Resource: resource,
				Message:  fmt.Sprintf("%s: %s does not exist", op, resource),
				Cause:    err,
			}
		case "RequestTimeout":
			return platform.Timeout(op, resource, err)
		}
	}
	return fmt.Errorf("%s %s: %w", op, resource, err)
}

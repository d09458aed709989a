package snapshot

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/vango-dev/lattice/internal/errors"
)

// ObjectAPI is the subset of *s3.Client used by S3Store.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store keeps snapshots as objects in an S3 bucket.
//
// Example usage:
//
//	client, err := snapshot.NewS3Client(ctx, snapshot.S3Options{Region: "eu-west-1"})
//	store := snapshot.NewS3Store(client, "goldens", "ui/")
type S3Store struct {
	client ObjectAPI
	bucket string
	prefix string
}

var _ Store = (*S3Store)(nil)

// NewS3Store creates a store writing below prefix in bucket.
func NewS3Store(client ObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key that holds the snapshot called name.
func (s *S3Store) Key(name string) string {
	return path.Join(s.prefix, name) + ".json"
}

// Put implements Store.
func (s *S3Store) Put(ctx context.Context, snap *Snapshot) error {
	if err := ValidateName(snap.Name); err != nil {
		return err
	}
	data, err := snap.Marshal()
	if err != nil {
		return errors.New("E303").Wrap(err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(snap.Name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"snapshot-name": snap.Name,
		},
	})
	if err != nil {
		return errors.New("E303").WithPath("s3://" + s.bucket + "/" + s.Key(snap.Name)).Wrap(err)
	}
	return nil
}

// Get implements Store.
func (s *S3Store) Get(ctx context.Context, name string) (*Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	key := s.Key(name)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, errors.New("E301").WithPath(name)
		}
		return nil, errors.New("E303").WithPath("s3://" + s.bucket + "/" + key).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E303").Wrap(err)
	}
	snap, err := Unmarshal(data)
	if err != nil {
		return nil, errors.New("E303").WithPath("s3://" + s.bucket + "/" + key).Wrap(err)
	}
	return snap, nil
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	if stderrors.As(err, &noKey) {
		return true
	}
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// S3Options configures NewS3Client.
type S3Options struct {
	Region       string
	Endpoint     string
	UsePathStyle bool
}

// NewS3Client creates an S3 client from the default AWS configuration chain
// (environment, shared config and credentials files, SSO, IMDS). A
// non-empty Region overrides the configured one.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.New("E303").WithDetail("could not load AWS configuration").Wrap(err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = endpoint(opts.Endpoint)
		o.UsePathStyle = opts.UsePathStyle
	}), nil
}

func endpoint(url string) *string {
	if strings.TrimSpace(url) == "" {
		return nil
	}
	return aws.String(url)
}

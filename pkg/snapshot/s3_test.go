package snapshot

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/vango-dev/lattice/internal/errors"
)

type fakeObjects struct {
	objects     map[string][]byte
	contentType string
	getErr      error
	putErr      error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	f.contentType = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	fake := newFakeObjects()
	store := NewS3Store(fake, "goldens", "ui/")

	if got := store.Key("cards/row"); got != "ui/cards/row.json" {
		t.Errorf("Key = %q", got)
	}

	if _, err := store.Get(ctx, "cards/row"); !errors.Is(err, "E301") {
		t.Fatalf("expected E301, got %v", err)
	}

	s := sample("cards/row")
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := fake.objects["goldens/ui/cards/row.json"]; !ok {
		t.Fatalf("object not written, have %v", fake.objects)
	}
	if fake.contentType != "application/json" {
		t.Errorf("content type = %q", fake.contentType)
	}

	got, err := store.Get(ctx, "cards/row")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := Compare(got, s); err != nil {
		t.Errorf("stored snapshot differs: %v", err)
	}
}

func TestS3StoreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("api not found", func(t *testing.T) {
		fake := newFakeObjects()
		fake.getErr = &smithy.GenericAPIError{Code: "NotFound", Message: "gone"}
		if _, err := NewS3Store(fake, "b", "").Get(ctx, "x"); !errors.Is(err, "E301") {
			t.Errorf("expected E301, got %v", err)
		}
	})

	t.Run("access denied", func(t *testing.T) {
		fake := newFakeObjects()
		fake.getErr = &smithy.GenericAPIError{Code: "AccessDenied", Message: "no"}
		_, err := NewS3Store(fake, "b", "").Get(ctx, "x")
		if !errors.Is(err, "E303") {
			t.Fatalf("expected E303, got %v", err)
		}
		var apiErr smithy.APIError
		if !stderrors.As(err, &apiErr) {
			t.Error("storage error should wrap the API error")
		}
	})

	t.Run("put failure", func(t *testing.T) {
		fake := newFakeObjects()
		fake.putErr = stderrors.New("network down")
		if err := NewS3Store(fake, "b", "").Put(ctx, sample("x")); !errors.Is(err, "E303") {
			t.Errorf("expected E303, got %v", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		if _, err := NewS3Store(newFakeObjects(), "b", "").Get(ctx, "/x"); !errors.Is(err, "E304") {
			t.Errorf("expected E304, got %v", err)
		}
	})
}

// isolateAWS points the shared config lookups at empty files so the host's
// ~/.aws does not leak into the test.
func isolateAWS(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"AWS_CONFIG_FILE", "AWS_SHARED_CREDENTIALS_FILE"} {
		file := filepath.Join(dir, name)
		if err := os.WriteFile(file, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv(name, file)
	}
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
}

func TestNewS3Client(t *testing.T) {
	tests := []struct {
		name       string
		envRegion  string
		opts       S3Options
		wantRegion string
		wantURL    string
	}{
		{
			name:       "region from environment",
			envRegion:  "eu-west-1",
			opts:       S3Options{Endpoint: "http://localhost:9000", UsePathStyle: true},
			wantRegion: "eu-west-1",
			wantURL:    "http://localhost:9000",
		},
		{
			name:       "explicit region wins",
			envRegion:  "eu-west-1",
			opts:       S3Options{Region: "us-east-2"},
			wantRegion: "us-east-2",
		},
		{
			name:       "blank endpoint is ignored",
			opts:       S3Options{Region: "ap-south-1", Endpoint: "  "},
			wantRegion: "ap-south-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateAWS(t)
			if tt.envRegion != "" {
				t.Setenv("AWS_REGION", tt.envRegion)
			}

			client, err := NewS3Client(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("NewS3Client: %v", err)
			}
			o := client.Options()
			if o.Region != tt.wantRegion {
				t.Errorf("Region = %q, want %q", o.Region, tt.wantRegion)
			}
			if got := aws.ToString(o.BaseEndpoint); got != tt.wantURL {
				t.Errorf("BaseEndpoint = %q, want %q", got, tt.wantURL)
			}
			if o.UsePathStyle != tt.opts.UsePathStyle {
				t.Errorf("UsePathStyle = %v", o.UsePathStyle)
			}
			if o.Credentials == nil {
				t.Error("expected the default credentials chain to be configured")
			}
		})
	}
}

func TestNewS3ClientSharedConfig(t *testing.T) {
	isolateAWS(t)
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config")
	if err := os.WriteFile(cfgFile, []byte("[profile goldens]\nregion = sa-east-1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AWS_CONFIG_FILE", cfgFile)
	t.Setenv("AWS_PROFILE", "goldens")

	client, err := NewS3Client(context.Background(), S3Options{})
	if err != nil {
		t.Fatalf("NewS3Client: %v", err)
	}
	if got := client.Options().Region; got != "sa-east-1" {
		t.Errorf("Region = %q, want the shared profile's sa-east-1", got)
	}
}

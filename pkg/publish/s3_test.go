package publish

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type recordedPut struct {
	method      string
	path        string
	contentType string
	body        string
}

func TestS3Publisher_PutsObject(t *testing.T) {
	var mu sync.Mutex
	var puts []recordedPut

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		puts = append(puts, recordedPut{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        string(body),
		})
		mu.Unlock()
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher, err := NewS3Publisher(S3Config{
		Endpoint:  server.URL,
		Region:    "us-east-1",
		Bucket:    "renders",
		AccessKey: "key",
		SecretKey: "secret",
	}, nil)
	if err != nil {
		t.Fatalf("NewS3Publisher failed: %v", err)
	}

	if err := publisher.Publish(context.Background(), "default/render.ppm", "image/x-portable-pixmap", []byte("P3\n1 1\n255\n0 0 0\n")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(puts) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(puts))
	}
	put := puts[0]
	if put.method != http.MethodPut {
		t.Errorf("Expected PUT, got %s", put.method)
	}
	if put.path != "/renders/default/render.ppm" {
		t.Errorf("Expected path-style key, got %s", put.path)
	}
	if put.contentType != "image/x-portable-pixmap" {
		t.Errorf("Unexpected content type %q", put.contentType)
	}
	if !strings.HasPrefix(put.body, "P3\n") {
		t.Errorf("Unexpected body %q", put.body)
	}
}

func TestNewS3Publisher_RequiresBucket(t *testing.T) {
	if _, err := NewS3Publisher(S3Config{Region: "us-east-1"}, nil); err == nil {
		t.Error("Expected error without a bucket")
	}
}

type failingS3 struct {
	s3iface.S3API
}

func (failingS3) PutObjectWithContext(aws.Context, *s3.PutObjectInput, ...request.Option) (*s3.PutObjectOutput, error) {
	return nil, errors.New("access denied")
}

func TestS3Publisher_WrapsErrors(t *testing.T) {
	publisher := NewS3PublisherWithClient(failingS3{}, "renders", nil)

	err := publisher.Publish(context.Background(), "a.png", "image/png", []byte{1})
	if err == nil || !strings.Contains(err.Error(), "a.png") {
		t.Errorf("Expected wrapped error naming the key, got %v", err)
	}
}

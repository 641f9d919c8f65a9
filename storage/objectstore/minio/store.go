// Package miniostore keeps uploaded resources in an S3 compatible bucket.
package miniostore

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/gateway"
)

type Store struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

var _ gateway.FileStore = (*Store)(nil) // interface compliance check

func New(conf core.StorageConfig) (*Store, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating minio client")
	}

	baseURL := conf.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if conf.UseSSL {
			scheme = "https"
		}
		baseURL = scheme + "://" + conf.Endpoint
	}
	return &Store{
		client:  client,
		bucket:  conf.Bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// EnsureBucket creates the bucket when missing and lets anyone read its objects.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return errors.Wrap(err, "checking bucket")
	}
	if exists {
		return nil
	}
	if err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, "creating bucket")
	}
	policy := `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},` +
		`"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::` + s.bucket + `/*"]}]}`
	if err = s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return errors.Wrap(err, "setting bucket policy")
	}
	return nil
}

func (s *Store) Put(ctx context.Context, path, contentType string, body io.Reader, size int64) error {
	if size <= 0 {
		size = -1
	}
	_, err := s.client.PutObject(ctx, s.bucket, path, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errors.Wrap(err, "uploading object")
	}
	return nil
}

// URL returns <base>/<bucket>/<path>.
func (s *Store) URL(path string) string {
	u := &url.URL{Path: "/" + s.bucket + "/" + path}
	return s.baseURL + u.EscapedPath()
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Backend implements Backend on top of aws-sdk-go-v2.
// Works with AWS S3 and any endpoint speaking the S3 protocol.
type S3Backend struct {
	name          string
	bucket        string
	client        *s3.Client
	presignClient *s3.PresignClient
}

// NewS3 builds an S3 backend. No network call is made.
func NewS3(cfg BackendConfig) (*S3Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
		config.WithHTTPClient(awshttp.NewBuildableClient().WithTimeout(cfg.Timeout())),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var optFns []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := withScheme(cfg.Endpoint, cfg.UseSSL)
		optFns = append(optFns, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	if cfg.PathStyle {
		optFns = append(optFns, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, optFns...)
	return &S3Backend{
		name:          cfg.Name,
		bucket:        cfg.Bucket,
		client:        client,
		presignClient: s3.NewPresignClient(client),
	}, nil
}

func (s *S3Backend) Kind() Kind   { return KindS3 }
func (s *S3Backend) Name() string { return s.name }

// Exists issues a HEAD on the object.
func (s *S3Backend) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, opError(ErrExistenceCheckFailed, "exists", KindS3, s.name, path, err)
	}
	return true, nil
}

// Presign signs a PutObject request for uploads and a GetObject request for downloads.
func (s *S3Backend) Presign(ctx context.Context, path string, direction Direction, expires time.Duration) (string, error) {
	withExpiry := s3.WithPresignExpires(expires)

	var (
		url string
		err error
	)
	switch direction {
	case DirectionUpload:
		req, perr := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(path),
		}, withExpiry)
		if perr == nil {
			url = req.URL
		}
		err = perr
	default:
		req, perr := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(path),
		}, withExpiry)
		if perr == nil {
			url = req.URL
		}
		err = perr
	}
	if err != nil {
		return "", opError(ErrPresignGenerationFailed, "presign "+string(direction), KindS3, s.name, path, err)
	}
	if url == "" {
		return "", opError(ErrPresignGenerationFailed, "presign "+string(direction), KindS3, s.name, path, errors.New("empty url"))
	}
	return url, nil
}

// Put uploads data as a single object.
func (s *S3Backend) Put(ctx context.Context, path string, data io.Reader, size int64) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
		Body:   data,
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return opError(ErrTransferFailed, "put", KindS3, s.name, path, err)
	}
	return nil
}

// Get streams the object body.
func (s *S3Backend) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, opError(ErrObjectNotFound, "get", KindS3, s.name, path, err)
		}
		return nil, opError(ErrTransferFailed, "get", KindS3, s.name, path, err)
	}
	return out.Body, nil
}

// Probe checks bucket access with HeadBucket.
func (s *S3Backend) Probe(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return opError(ErrBackendUnavailable, "probe", KindS3, s.name, "", err)
	}
	return nil
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode() == http.StatusNotFound
	}
	return false
}

// withScheme prefixes a bare host with http:// or https://.
func withScheme(endpoint string, useSSL bool) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

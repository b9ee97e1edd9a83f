package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/huaweicloud/huaweicloud-sdk-go-obs/obs"
)

// OBSSignedURL is the relevant part of a CreateSignedUrl response.
type OBSSignedURL struct {
	SignedURL string
}

// OBSAPI is the subset of the Huawei OBS client used by OBSBackend.
// The SDK takes no context; calls are bounded by the client socket timeouts.
type OBSAPI interface {
	CreateSignedURL(method string, bucket, key string, expires int) (*OBSSignedURL, error)
	ObjectExists(bucket, key string) (bool, error)
	PutObject(bucket, key string, reader io.Reader, size int64) error
	GetObject(bucket, key string) (io.ReadCloser, error)
	HeadBucket(bucket string) error
}

// NewOBSAPI creates an OBS client.
func NewOBSAPI(cfg BackendConfig) (OBSAPI, error) {
	timeout := int(cfg.Timeout() / time.Second)
	client, err := obs.New(cfg.AccessKey, cfg.SecretKey, withScheme(cfg.Endpoint, cfg.UseSSL),
		obs.WithConnectTimeout(timeout),
		obs.WithSocketTimeout(timeout),
		obs.WithPathStyle(cfg.PathStyle),
	)
	if err != nil {
		return nil, fmt.Errorf("create obs client: %w", err)
	}
	return &obsClientWrapper{client: client}, nil
}

type obsClientWrapper struct {
	client *obs.ObsClient
}

func (w *obsClientWrapper) CreateSignedURL(method string, bucket, key string, expires int) (*OBSSignedURL, error) {
	httpMethod := obs.HttpMethodGet
	if method == http.MethodPut {
		httpMethod = obs.HttpMethodPut
	}
	out, err := w.client.CreateSignedUrl(&obs.CreateSignedUrlInput{
		Method:  httpMethod,
		Bucket:  bucket,
		Key:     key,
		Expires: expires,
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	return &OBSSignedURL{SignedURL: out.SignedUrl}, nil
}

func (w *obsClientWrapper) ObjectExists(bucket, key string) (bool, error) {
	input := &obs.GetObjectMetadataInput{}
	input.Bucket = bucket
	input.Key = key
	_, err := w.client.GetObjectMetadata(input)
	if err != nil {
		if obsStatus(err) == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (w *obsClientWrapper) PutObject(bucket, key string, reader io.Reader, size int64) error {
	input := &obs.PutObjectInput{}
	input.Bucket = bucket
	input.Key = key
	input.Body = reader
	if size > 0 {
		input.ContentLength = size
	}
	_, err := w.client.PutObject(input)
	return err
}

func (w *obsClientWrapper) GetObject(bucket, key string) (io.ReadCloser, error) {
	input := &obs.GetObjectInput{}
	input.Bucket = bucket
	input.Key = key
	out, err := w.client.GetObject(input)
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

func (w *obsClientWrapper) HeadBucket(bucket string) error {
	_, err := w.client.HeadBucket(bucket)
	return err
}

func obsStatus(err error) int {
	var obsErr obs.ObsError
	if errors.As(err, &obsErr) {
		return obsErr.StatusCode
	}
	return 0
}

// OBSBackend implements Backend for Huawei OBS.
type OBSBackend struct {
	name   string
	bucket string
	api    OBSAPI
}

// NewOBS wraps an OBS client for one bucket.
func NewOBS(name, bucket string, api OBSAPI) *OBSBackend {
	return &OBSBackend{name: name, bucket: bucket, api: api}
}

func (o *OBSBackend) Kind() Kind   { return KindOBS }
func (o *OBSBackend) Name() string { return o.name }

func (o *OBSBackend) Exists(ctx context.Context, path string) (bool, error) {
	ok, err := o.api.ObjectExists(o.bucket, path)
	if err != nil {
		return false, opError(ErrExistenceCheckFailed, "exists", KindOBS, o.name, path, err)
	}
	return ok, nil
}

// Presign creates a signed URL; a response without a URL is a failure.
func (o *OBSBackend) Presign(ctx context.Context, path string, direction Direction, expires time.Duration) (string, error) {
	out, err := o.api.CreateSignedURL(direction.Method(), o.bucket, path, int(expires/time.Second))
	if err != nil {
		return "", opError(ErrPresignGenerationFailed, "presign "+string(direction), KindOBS, o.name, path, err)
	}
	if out == nil || out.SignedURL == "" {
		return "", opError(ErrPresignGenerationFailed, "presign "+string(direction), KindOBS, o.name, path, errors.New("response carries no signed url"))
	}
	return out.SignedURL, nil
}

func (o *OBSBackend) Put(ctx context.Context, path string, data io.Reader, size int64) error {
	if err := o.api.PutObject(o.bucket, path, data, size); err != nil {
		return opError(ErrTransferFailed, "put", KindOBS, o.name, path, err)
	}
	return nil
}

func (o *OBSBackend) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	body, err := o.api.GetObject(o.bucket, path)
	if err != nil {
		if obsStatus(err) == http.StatusNotFound {
			return nil, opError(ErrObjectNotFound, "get", KindOBS, o.name, path, err)
		}
		return nil, opError(ErrTransferFailed, "get", KindOBS, o.name, path, err)
	}
	return body, nil
}

func (o *OBSBackend) Probe(ctx context.Context) error {
	// the SDK takes no context
	err := awaitCall(ctx, func() error { return o.api.HeadBucket(o.bucket) })
	if err != nil {
		return opError(ErrBackendUnavailable, "probe", KindOBS, o.name, "", err)
	}
	return nil
}

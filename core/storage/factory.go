package storage

import (
	"fmt"
	"strings"
)

const (
	// DriverAWS selects aws-sdk-go-v2 for S3-compatible stores.
	DriverAWS = "aws"
	// DriverMinio selects minio-go for S3-compatible stores.
	DriverMinio = "minio"
)

// New creates a backend for one configuration entry.
func New(cfg BackendConfig) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case KindS3:
		switch strings.ToLower(cfg.Driver) {
		case "", DriverAWS:
			return NewS3(cfg)
		case DriverMinio:
			client, err := NewMinioClient(cfg)
			if err != nil {
				return nil, err
			}
			return NewMinio(cfg.Name, cfg.Bucket, client), nil
		default:
			return nil, fmt.Errorf("%w: unsupported s3 driver %q", ErrInvalidConfig, cfg.Driver)
		}

	case KindOSS:
		bucket, err := NewOSSBucket(cfg)
		if err != nil {
			return nil, err
		}
		return NewOSS(cfg.Name, bucket), nil

	case KindOBS:
		api, err := NewOBSAPI(cfg)
		if err != nil {
			return nil, err
		}
		return NewOBS(cfg.Name, cfg.Bucket, api), nil

	default:
		return nil, fmt.Errorf("%w: unsupported storage kind %q", ErrInvalidConfig, cfg.Kind)
	}
}

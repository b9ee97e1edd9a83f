// Package storage provides the object storage layer used to relay transfer files.
//
// A Backend is one configured object store. Four variants exist:
//
//   - S3Backend: any S3-compatible store through aws-sdk-go-v2 (driver "aws").
//   - MinioBackend: S3-compatible stores through minio-go (driver "minio").
//   - OSSBackend: Aliyun OSS.
//   - OBSBackend: Huawei OBS.
//
// LocalBackend stores files on the server filesystem. It backs the legacy
// upload/download path and never presigns.
//
// # Errors
//
// Every backend returns *OpError whose Code is one of the package sentinels,
// so callers match with errors.Is(err, storage.ErrPresignGenerationFailed)
// regardless of the SDK underneath.
//
// # Registry
//
// The Registry answers "which object store is active right now". It reads
// definitions from a ConfigProvider (static environment config, the
// storage_backends table, or both chained), sorts them by priority, and
// returns the first enabled backend whose probe succeeds. Handles are cached
// by configuration fingerprint and probe results for a short TTL.
//
// # Usage
//
//	registry := storage.NewRegistry(provider, nil, log, cfg.Storage.RegistryOptions())
//	backend, err := registry.Resolve(ctx)
//	if errors.Is(err, storage.ErrNoBackendConfigured) {
//		// tell the caller to configure storage
//	}
//	url, err := backend.Presign(ctx, "FTP_FILES/2024-12-06/abc/report.pdf", storage.DirectionUpload, time.Hour)
package storage

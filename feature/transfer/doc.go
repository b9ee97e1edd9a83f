// Package transfer implements the object storage file relay.
//
// A transfer is one file moving between a client and a remote asset. The
// service keeps a TransferRecord for it while the bytes travel directly
// between the client and the object store through presigned URLs.
//
// # Flow
//
//  1. Create: validate, resolve the active backend, persist the record with
//     its immutable filepath, then presign upload and download URLs. If the
//     upload URL fails the record is deleted before returning.
//  2. The client PUTs the file to the upload URL.
//  3. Confirm: a claimed success is checked with Exists before has_file is set.
//     A failed or negative check only records is_success.
//
// When no object store is configured the legacy file endpoints store and
// serve files from local storage under the same filepath.
//
// # Components
//
//   - Issuer: presigned URL issuance, dispatching on the backend kind tag.
//   - Confirmer: reconciles completion claims with storage state.
//   - LocalFallback: local download states and uploads.
//   - Repository: gorm persistence of transfer_records.
//
// # Errors
//
// ErrValidation and ErrRecordNotFound come from this package; backend failures
// carry the storage package sentinels. Handler.fail is the single place that
// turns them into status codes and {error, code, hint} bodies.
package transfer

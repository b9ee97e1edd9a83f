// Package health exposes operational checks for the relay.
//
// # Checks Provided
//
//   - Liveness: pings the database and names the storage transfers currently use.
//   - Storage: probes every configured object store in priority order, marks the
//     one the registry would select, and checks the local fallback directory is writable.
//   - Schema: compares the gorm models (transfer_records, storage_backends) against
//     the live database so a missed migration shows up before the first write fails.
//
// # HTTP Endpoints
//
//   - GET /health : Liveness (503 when degraded).
//   - GET /health/storage : Storage report.
//   - GET /health/schema : Schema report.
package health

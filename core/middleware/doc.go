// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - Auth: validates the X-API-Key header and records the acting user from X-User.
//   - RayID: assigns a request id to every request, injecting it into the
//     context and the X-Ray-ID response header for tracing.
//
// RayID is registered first so every log line carries the id; Auth is
// registered after the public routes (health, metrics, swagger).
package middleware

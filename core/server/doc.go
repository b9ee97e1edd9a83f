// Package server holds the HTTP server configuration.
//
// The Config struct defines the listen port, the API key protecting the
// transfer endpoints, the request body limit and the public base URL.
//
// # Usage
//
// This package is embedded by core/config and read by the start command
// when it builds the Fiber application.
package server

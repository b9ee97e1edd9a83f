package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables authentication.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps request bodies, which bounds legacy uploads through the server.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"512"`
	// PublicURL is the externally visible base URL used in legacy upload responses.
	PublicURL string `mapstructure:"public_url" default:""`
}

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 512 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}

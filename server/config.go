package server

// DefaultBodyLimit is the largest chat request body accepted, in bytes.
const DefaultBodyLimit = 4 * 1024 * 1024

// Config is the HTTP server configuration.
type Config struct {
	// Address to listen on (e.g., ":8080")
	ListenAddr string

	// BodyLimit caps the inbound request body. Zero means DefaultBodyLimit.
	BodyLimit int
}

package httpapi

import "time"

const defaultMaxBodyBytes int64 = 1 << 20

// maxBodyBytes bounds JSON request bodies. Default 1 MiB.
var maxBodyBytes = defaultMaxBodyBytes

// SetMaxBodyBytes sets the maximum request body size; n <= 0 restores the default.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
		return
	}
	maxBodyBytes = n
}

// loadWaitTimeout bounds how long POST /v1/load waits for the load to finish.
// Zero waits as long as the request lives. The load itself is never cancelled.
var loadWaitTimeout time.Duration

// SetLoadWaitTimeout sets the /v1/load wait bound (<= 0 disables).
func SetLoadWaitTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	loadWaitTimeout = d
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}

// Per-client rate limit for API routes (opt-in). rps <= 0 disables it.
var (
	rateLimitRPS   float64
	rateLimitBurst int
)

// SetRateLimit configures the per-client API rate limit.
func SetRateLimit(rps float64, burst int) {
	if rps < 0 {
		rps = 0
	}
	if burst < 1 {
		burst = 1
	}
	rateLimitRPS = rps
	rateLimitBurst = burst
}

// bundleDir is scanned by GET /v1/models. Empty lists nothing.
var bundleDir string

// SetBundleDir sets the directory listed by GET /v1/models.
func SetBundleDir(dir string) { bundleDir = dir }

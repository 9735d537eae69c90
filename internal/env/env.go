package env

const AppName = "carver"

// Set at build time through -ldflags "-X github.com/ostafen/carver/internal/env.Version=...".
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

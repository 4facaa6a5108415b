package config

import "os"

// Environment variables read by parseEnv.
const (
	EnvAddress     = "ADDRESS"
	EnvDatabaseURL = "DATABASE_URL"
	EnvAuthSecret  = "AUTH_SECRET"
	EnvFrontendURL = "FRONTEND_URL"
)

// parseEnv overlays non-empty environment variables onto config.
// FRONTEND_URL may list several origins separated by commas.
func parseEnv(config *Config) {
	if v := os.Getenv(EnvAddress); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv(EnvAuthSecret); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv(EnvFrontendURL); v != "" {
		config.AllowedOrigins = mergeOrigins(config.AllowedOrigins, splitOrigins(v))
	}
}

// mergeOrigins appends extra to base, skipping duplicates.
func mergeOrigins(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, o := range append(append([]string{}, base...), extra...) {
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}

package preflight

import (
	"context"

	"repocast/internal/config"
	"repocast/internal/gateway"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config. The gateway
// service may be nil, in which case the reachability check is skipped.
func RunAll(ctx context.Context, cfg *config.Config, gw gateway.Service) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if gw != nil {
		results = append(results, CheckGateway(ctx, gw, cfg.Gateway.BaseURL))
	}

	results = append(results, CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	results = append(results, CheckBinary("Player", cfg.Player.Binary, "required for playback"))
	results = append(results, CheckBinary("FFprobe", cfg.Player.FFprobeBinary, "required for duration probing"))

	results = append(results, CheckDiskSpace("Library disk space", cfg.Paths.LibraryDir))

	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

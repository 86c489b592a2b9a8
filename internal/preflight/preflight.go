// Package preflight provides readiness checks for the filesystem paths and
// credentials a run depends on.
//
// The generate command runs RunAll before starting the pipeline so doomed
// runs fail fast with a readable report; the status command reuses the
// individual checks for its health display.
package preflight

import (
	"roughcut/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks for a run that will write its video
// to outputPath. Workspace directories must already exist; EnsureDirectories
// is the caller's job.
func RunAll(cfg *config.Config, outputPath string) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Workspace", cfg.Paths.Workspace),
		CheckDirectoryAccess("Audio assets", cfg.AudioDir()),
		CheckDirectoryAccess("Image assets", cfg.ImageDir()),
	}
	if outputPath != "" {
		results = append(results, CheckOutputTarget("Output directory", outputPath))
	}
	return results
}

// AllPassed reports whether every check in results succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

package preflight

import (
	"path/filepath"

	"npmyaml/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the directory check followed by one check per manifest.
// The YAML manifest is listed first since it wins when both are present.
func RunAll(dir string, cfg *config.Config) []Result {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}

	return []Result{
		CheckDirectoryAccess("Project directory", dir),
		CheckManifest("YAML manifest", filepath.Join(dir, cfg.Manifest.YAMLName)),
		CheckManifest("JSON manifest", filepath.Join(dir, cfg.Manifest.JSONName)),
	}
}

// Failed returns the subset of results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

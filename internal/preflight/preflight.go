package preflight

import (
	"strings"

	"anthologiser/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable check for cfg. Optional tables are only
// checked when configured.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Target folder", cfg.Paths.TargetDir),
		CheckDirectoryAccess("Catalog folder", cfg.MiscDir()),
		CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
	}
	if strings.TrimSpace(cfg.Paths.LogDir) != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if strings.TrimSpace(cfg.Paths.AliasesFile) != "" {
		results = append(results, CheckAliases(cfg.Paths.AliasesFile))
	}
	if strings.TrimSpace(cfg.Paths.WorksFile) != "" {
		results = append(results, CheckWorks(cfg.Paths.WorksFile))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

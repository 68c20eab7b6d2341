package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"npmyaml/internal/config"
	"npmyaml/internal/manifest"
	"npmyaml/internal/preflight"
	"npmyaml/internal/syncer"
)

type manifestStatus struct {
	Role     string     `json:"role"`
	Path     string     `json:"path"`
	Present  bool       `json:"present"`
	Size     int64      `json:"size,omitempty"`
	Modified *time.Time `json:"modified,omitempty"`
	Valid    *bool      `json:"valid,omitempty"`
	Detail   string     `json:"detail"`
}

type statusReport struct {
	Dir          string           `json:"dir"`
	ConfigPath   string           `json:"config_path"`
	ConfigExists bool             `json:"config_exists"`
	Directory    preflight.Result `json:"directory"`
	ChecksRun    int              `json:"checks_run"`
	FailedChecks []string         `json:"failed_checks,omitempty"`
	Manifests    []manifestStatus `json:"manifests"`
	Action       syncer.Action    `json:"install_action"`
	Source       string           `json:"source,omitempty"`
	Target       string           `json:"target,omitempty"`
	InSync       *bool            `json:"in_sync,omitempty"`
	Error        string           `json:"error,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show manifest state and what an install would do",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := ctx.workingDir()
			if err != nil {
				return err
			}

			report := buildStatusReport(dir, cfg, ctx.configPath, ctx.configSeen)
			if jsonOutput {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range statusLines(report, colorize) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}

func buildStatusReport(dir string, cfg *config.Config, configPath string, configExists bool) statusReport {
	report := statusReport{
		Dir:          dir,
		ConfigPath:   configPath,
		ConfigExists: configExists,
	}

	checks := preflight.RunAll(dir, cfg)
	report.Directory = checks[0]
	report.ChecksRun = len(checks)
	for _, failed := range preflight.Failed(checks) {
		report.FailedChecks = append(report.FailedChecks, failed.Name)
	}
	roles := []string{cfg.Manifest.YAMLName, cfg.Manifest.JSONName}
	for i, check := range checks[1:] {
		report.Manifests = append(report.Manifests, describeManifest(roles[i], filepath.Join(dir, roles[i]), check))
	}

	s := syncer.New(syncer.OptionsFromConfig(cfg), nil)
	plan, err := s.Plan(dir)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Action = plan.Action
	report.Source = plan.Source
	report.Target = plan.Target

	if report.Manifests[0].Present && report.Manifests[1].Present {
		inSync, err := s.InSync(dir)
		if err != nil {
			report.Error = err.Error()
			return report
		}
		report.InSync = &inSync
	}
	return report
}

func describeManifest(role, path string, check preflight.Result) manifestStatus {
	status := manifestStatus{Role: role, Path: path, Present: check.Passed, Detail: check.Detail}
	if !check.Passed {
		return status
	}
	if info, err := os.Stat(path); err == nil {
		modified := info.ModTime()
		status.Size = info.Size()
		status.Modified = &modified
	}
	_, _, err := manifest.Load(path)
	valid := err == nil
	status.Valid = &valid
	if err != nil {
		status.Detail = err.Error()
	}
	return status
}

func statusLines(report statusReport, colorize bool) []string {
	lines := renderSectionHeader("Project", colorize)

	dirKind := statusOK
	if !report.Directory.Passed {
		dirKind = statusError
	}
	lines = append(lines, renderStatusLine("Directory", dirKind, report.Directory.Detail, colorize))

	configMsg := report.ConfigPath + " (defaults)"
	if report.ConfigExists {
		configMsg = report.ConfigPath
	}
	lines = append(lines, renderStatusLine("Config", statusInfo, configMsg, colorize))
	if report.ChecksRun > 0 {
		checksMsg := fmt.Sprintf("%d of %d passed", report.ChecksRun-len(report.FailedChecks), report.ChecksRun)
		checksKind := statusOK
		if len(report.FailedChecks) > 0 {
			checksMsg += " (failed: " + strings.Join(report.FailedChecks, ", ") + ")"
			checksKind = statusInfo
		}
		lines = append(lines, renderStatusLine("Checks", checksKind, checksMsg, colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Manifests", colorize)...)
	rows := make([][]string, 0, len(report.Manifests))
	for _, m := range report.Manifests {
		size, modified, valid := "-", "-", "-"
		if m.Valid != nil {
			valid = yesNo(*m.Valid)
		}
		if m.Present {
			size = fmt.Sprintf("%d", m.Size)
			if m.Modified != nil {
				modified = m.Modified.Local().Format("2006-01-02 15:04:05")
			}
		}
		rows = append(rows, []string{m.Role, yesNo(m.Present), valid, size, modified})
	}
	table := renderTable([]tableColumn{
		{Header: "File"},
		{Header: "Present"},
		{Header: "Valid"},
		{Header: "Bytes", Align: alignRight},
		{Header: "Modified"},
	}, rows)
	lines = append(lines, strings.Split(table, "\n")...)
	for _, m := range report.Manifests {
		if m.Valid != nil && !*m.Valid {
			lines = append(lines, renderStatusLine("Invalid", statusWarn, m.Detail, colorize))
		}
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Install", colorize)...)
	if report.Error != "" {
		lines = append(lines, renderStatusLine("Error", statusError, report.Error, colorize))
		return lines
	}
	lines = append(lines, renderStatusLine("Action", statusInfo, describeAction(report), colorize))
	if report.InSync != nil {
		if *report.InSync {
			lines = append(lines, renderStatusLine("In sync", statusOK, "yes", colorize))
		} else {
			lines = append(lines, renderStatusLine("In sync", statusWarn, "no; the next install rewrites "+filepath.Base(report.Target), colorize))
		}
	}
	return lines
}

func describeAction(report statusReport) string {
	switch report.Action {
	case syncer.ActionYAMLToJSON, syncer.ActionJSONToYAML:
		return fmt.Sprintf("%s (%s -> %s)", report.Action, filepath.Base(report.Source), filepath.Base(report.Target))
	case syncer.ActionNoManifest:
		return "none (no manifest found)"
	default:
		return string(report.Action)
	}
}

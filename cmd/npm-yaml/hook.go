package main

import (
	"github.com/spf13/cobra"

	"npmyaml/internal/logging"
	"npmyaml/internal/syncer"
)

// runHook performs one install-hook run. Every failure is logged; nothing is
// returned so the process exits zero. Runs other than install return before
// configuration or logging is touched.
func runHook(cmd *cobra.Command, ctx *commandContext, args []string) {
	if !syncer.Triggered(args) {
		return
	}

	cfg, logger, closeLog := ctx.hookConfig(cmd.ErrOrStderr())
	defer closeLog()

	dir, err := ctx.workingDir()
	if err != nil {
		logger.Error("manifest sync skipped", logging.Error(err))
		return
	}

	result := syncer.New(syncer.OptionsFromConfig(cfg), logger).Run(cmd.Context(), syncer.Invocation{Args: args, Dir: dir})
	if result.Failed() {
		logger.Info("install continues with manifests unchanged", logging.String(logging.FieldRunID, result.RunID))
	}
}

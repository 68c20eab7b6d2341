package main

import (
	"github.com/spf13/cobra"
)

const envConfigPath = "NPM_YAML_CONFIG"

func newRootCommand() *cobra.Command {
	var configFlag string
	var dirFlag string

	ctx := newCommandContext(&configFlag, &dirFlag)

	rootCmd := &cobra.Command{
		Use:   "npm-yaml [command] [args...]",
		Short: "Keep package.yml and package.json in sync around installs",
		Long: "Run as a package-manager hook with the arguments of the command being run.\n" +
			"On install, package.yml is converted to package.json; when only package.json\n" +
			"exists it is converted to package.yml. Set " + envConfigPath + " to use a\n" +
			"specific configuration file.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Hook arguments belong to the package manager and are passed through untouched.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runHook(cmd, ctx, args)
			return nil
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	// "help" is a package-manager command too; it must reach the hook.
	rootCmd.SetHelpCommand(&cobra.Command{Use: "self-help", Hidden: true})

	rootCmd.AddCommand(newSelfCommand(ctx, &configFlag, &dirFlag))

	return rootCmd
}

func newSelfCommand(ctx *commandContext, configFlag, dirFlag *string) *cobra.Command {
	selfCmd := &cobra.Command{
		Use:   "self",
		Short: "Inspect and configure npm-yaml",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
	}

	selfCmd.PersistentFlags().StringVarP(configFlag, "config", "c", "", "Configuration file path")
	selfCmd.PersistentFlags().StringVarP(dirFlag, "dir", "C", "", "Project directory (defaults to the working directory)")

	selfCmd.AddCommand(newStatusCommand(ctx))
	selfCmd.AddCommand(newConfigCommand(ctx))

	return selfCmd
}

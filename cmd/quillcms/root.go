package main

import (
	"github.com/spf13/cobra"

	"github.com/quillcms/quillcms/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// resolveConfigFile returns the --config value, falling back to the
// XDG config file when the flag is unset and the file exists.
func resolveConfigFile() string {
	if configFile != "" {
		return configFile
	}
	return xdg.DefaultConfigFile()
}

// NewRootCmd creates the root command for the QuillCMS CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quillcms",
		Short: "QuillCMS - An extensible headless CMS",
		Long: `QuillCMS is an extensible headless CMS whose feature modules are
discovered from plugin manifests, ordered by dependency, and wired
together over an in-process event bus.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewValidateModulesCmd())

	return cmd
}

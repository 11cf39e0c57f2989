// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quillcms/quillcms/internal/plugin"
)

// NewValidateModulesCmd creates the validate-modules subcommand.
func NewValidateModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-modules [dir]",
		Short: "Validate module manifests and dependency order without starting the server",
		Long: `Validates every plugin.json in the modules directory against the
manifest schema, then checks that the dependency graph resolves to a
boot order. Does NOT construct any module.
Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines to catch manifest errors early:
  quillcms validate-modules ./modules`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "modules"
			if len(args) == 1 {
				dir = args[0]
			}
			return runValidateModules(cmd, dir)
		},
	}
}

func runValidateModules(cmd *cobra.Command, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read modules directory: %w", err)
	}

	// Schema validation gives field-level messages before the stricter
	// semantic parse runs.
	var schemaErrs int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name(), plugin.ManifestFileName)
		data, err := os.ReadFile(path) //nolint:gosec // path is constructed from ReadDir entries
		if err != nil {
			continue
		}
		if err := plugin.ValidateSchema(data); err != nil {
			cmd.PrintErrf("%s: %s\n", path, plugin.FormatSchemaError(err))
			schemaErrs++
		}
	}
	if schemaErrs > 0 {
		return fmt.Errorf("validation failed: %d manifest(s) do not match the schema", schemaErrs)
	}

	manifests, err := plugin.NewLoader(dir).LoadStrict()
	if err != nil {
		return err
	}

	ordered, err := plugin.OrderValidated(manifests)
	if err != nil {
		return err
	}

	cmd.Printf("%d module(s) valid, boot order:\n", len(ordered))
	for i, m := range ordered {
		cmd.Printf("  %d. %s %s\n", i+1, m.Name, m.Version)
	}
	return nil
}

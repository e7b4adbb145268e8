package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"anthologiser/internal/logging"
	"anthologiser/internal/versions"
)

func newVersionsCommand(ctx *commandContext) *cobra.Command {
	versionsCmd := &cobra.Command{
		Use:   "versions",
		Short: "Inspect the versions registry",
	}
	versionsCmd.AddCommand(newVersionsListCommand(ctx))
	return versionsCmd
}

func newVersionsListCommand(ctx *commandContext) *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("folder") {
				if err := cfg.SetTargetDir(folder); err != nil {
					return err
				}
			}
			registry, err := versions.Load(cfg.Paths.TargetDir, logging.NewNop())
			if err != nil {
				return err
			}
			entries := registry.List()
			if ctx.JSONMode() {
				if entries == nil {
					entries = []versions.Entry{}
				}
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No versions registered in %s\n", registry.Path())
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{entry.Key, entry.Value})
			}
			fmt.Fprint(out, renderTable(out, []string{"Version", "Description"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().StringVarP(&folder, "folder", "f", "", "Target folder (default from config)")
	return cmd
}

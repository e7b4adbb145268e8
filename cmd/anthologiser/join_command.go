package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"anthologiser/internal/catalog"
)

func newJoinCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "join",
		Short: "Join HTML catalog fragments into the index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			result, err := catalog.Join(cfg.MiscDir(), logger)
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{
					"index":  result.Index,
					"merged": result.Merged,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Joined %d catalogs into %s\n", len(result.Merged), result.Index)
			return nil
		},
	}
}

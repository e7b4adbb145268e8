package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"anthologiser/internal/config"
	"anthologiser/internal/workflow"
)

type splitFlags struct {
	folder     string
	linkBase   string
	aliases    string
	works      string
	format     string
	subFolders bool
	join       bool
}

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var flags splitFlags

	cmd := &cobra.Command{
		Use:   "split [flags] <source.xml>",
		Short: "Split a source document into the target folder",
		Long: `Split a TEI source document at its "***" marker comments.

Every unit is stored under its work identity, identities from earlier runs
are picked up again, and the whole set is laid out into buckets below the
target folder. The anthology catalog for the document and the versions
registry of the folder are updated on each run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applySplitFlags(cmd, cfg, flags); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			result, err := workflow.NewRunner(cfg, logger).Split(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeSplitJSON(cmd, cfg, result)
			}
			printSplitResult(cmd, cfg, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.folder, "folder", "f", "", "Target folder (default from config)")
	cmd.Flags().StringVarP(&flags.linkBase, "link", "l", "", "Prefix for catalog links")
	cmd.Flags().StringVarP(&flags.aliases, "aliases", "a", "", "Alias table (json, jsonc or yaml)")
	cmd.Flags().StringVarP(&flags.works, "works", "w", "", "Tab-separated work id to title table")
	cmd.Flags().StringVar(&flags.format, "catalog-format", "", "Catalog encoding: mvd or html")
	cmd.Flags().BoolVarP(&flags.subFolders, "sub-folders", "s", false, "Lay identities out in bucket sub-folders")
	cmd.Flags().BoolVarP(&flags.join, "join", "j", false, "Join the HTML catalogs into a single index")
	return cmd
}

func applySplitFlags(cmd *cobra.Command, cfg *config.Config, flags splitFlags) error {
	if cmd.Flags().Changed("folder") {
		if err := cfg.SetTargetDir(flags.folder); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("link") {
		cfg.Links.Base = config.NormalizeLinkBase(flags.linkBase)
	}
	for _, pair := range []struct {
		value string
		dst   *string
	}{
		{flags.aliases, &cfg.Paths.AliasesFile},
		{flags.works, &cfg.Paths.WorksFile},
	} {
		if strings.TrimSpace(pair.value) == "" {
			continue
		}
		expanded, err := config.ExpandPath(strings.TrimSpace(pair.value))
		if err != nil {
			return err
		}
		*pair.dst = expanded
	}
	if cmd.Flags().Changed("catalog-format") {
		cfg.Catalog.Format = strings.ToLower(strings.TrimSpace(flags.format))
	}
	if flags.subFolders {
		cfg.Layout.SubFolders = true
	}
	if flags.join {
		cfg.Catalog.Join = true
		if !cmd.Flags().Changed("catalog-format") {
			cfg.Catalog.Format = config.CatalogFormatHTML
		}
	}
	return cfg.Validate()
}

func printSplitResult(cmd *cobra.Command, cfg *config.Config, result *workflow.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Source: %s\n", result.Source)
	fmt.Fprintf(out, "Target: %s\n", cfg.Paths.TargetDir)
	fmt.Fprintf(out, "Units: %d (skipped %d)\n", result.Units, result.Skipped)
	fmt.Fprintf(out, "Identities: %d (%d from earlier runs)\n", result.Identities, result.Ingested)
	fmt.Fprintf(out, "Sub-folders: %s\n", yesNo(cfg.Layout.SubFolders))
	if result.Empty {
		fmt.Fprintln(out, "No identities to lay out")
		return
	}

	rows := make([][]string, 0, len(result.Buckets))
	for _, b := range result.Buckets {
		rows = append(rows, []string{
			strings.TrimPrefix(b.Name, " "),
			strconv.Itoa(len(b.Keys)),
			b.Keys[0],
			b.Keys[len(b.Keys)-1],
		})
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, renderTable(out,
		[]string{"Bucket", "Identities", "First", "Last"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
	))
	if result.Joined != nil {
		fmt.Fprintf(out, "\nJoined %d catalogs into %s\n", len(result.Joined.Merged), result.Joined.Index)
	}
}

func writeSplitJSON(cmd *cobra.Command, cfg *config.Config, result *workflow.Result) error {
	buckets := make([]map[string]any, 0, len(result.Buckets))
	for _, b := range result.Buckets {
		buckets = append(buckets, map[string]any{
			"name":       b.Name,
			"identities": b.Keys,
		})
	}
	payload := map[string]any{
		"run_id":     result.RunID,
		"source":     result.Source,
		"target":     cfg.Paths.TargetDir,
		"units":      result.Units,
		"skipped":    result.Skipped,
		"identities": result.Identities,
		"ingested":   result.Ingested,
		"empty":      result.Empty,
		"buckets":    buckets,
	}
	if result.Joined != nil {
		payload["joined"] = result.Joined.Merged
	}
	return writeJSON(cmd, payload)
}

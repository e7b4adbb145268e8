package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"anthologiser/internal/catalog"
	"anthologiser/internal/config"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect anthology catalogs",
	}
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))
	return catalogCmd
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show the entries of a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			c, err := findCatalog(cfg, args[0])
			if err != nil {
				return err
			}

			entries := c.Entries()
			if ctx.JSONMode() {
				if entries == nil {
					entries = []catalog.Entry{}
				}
				return writeJSON(cmd, map[string]any{
					"name":        c.Name(),
					"title":       c.Title(),
					"description": c.Description(),
					"entries":     entries,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title: %s\n", c.Title())
			fmt.Fprintf(out, "Description: %s\n", c.Description())
			if len(entries) == 0 {
				fmt.Fprintln(out, "No entries")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{entry.Name, entry.Link})
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, renderTable(out, []string{"Name", "Link"}, rows, nil))
			return nil
		},
	}
}

// findCatalog reads a stored catalog without consuming it. HTML catalogs
// that were already joined are read from the index.
func findCatalog(cfg *config.Config, name string) (*catalog.Catalog, error) {
	store, err := catalog.NewStore(cfg.Catalog.Format, cfg.MiscDir(), cfg.Layout.IdentityMarker)
	if err != nil {
		return nil, err
	}
	c, found, err := store.Read(name)
	if err != nil {
		return nil, err
	}
	if found {
		return c, nil
	}
	return nil, fmt.Errorf("no catalog named %q in %s", name, cfg.MiscDir())
}

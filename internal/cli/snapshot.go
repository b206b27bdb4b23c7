package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/agrorganica/internal/sqlite"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var outDir, inDir string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or import every table as JSONL files",
		Long: "With --out, write <table>.jsonl for every table into DIR.\n" +
			"With --in, load the files of DIR into an empty database.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (outDir == "") == (inDir == "") {
				return userError(errors.New("exactly one of --out or --in is required"))
			}
			return a.withWorkspace(func(ws *workspace) error {
				var (
					counts sqlite.SnapshotCounts
					err    error
					verb   string
				)
				if outDir != "" {
					counts, err = ws.store.ExportSnapshot(outDir)
					verb = "exportado para " + outDir
				} else {
					counts, err = ws.store.ImportSnapshot(inDir)
					verb = "importado de " + inDir
				}
				if err != nil {
					return sysError(err)
				}
				writeCounts(cmd.OutOrStdout(), counts)
				fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %s.\n", verb)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "directory to export into")
	cmd.Flags().StringVar(&inDir, "in", "", "directory to import from")
	return cmd
}

func writeCounts(w io.Writer, counts sqlite.SnapshotCounts) {
	tables := make([]string, 0, len(counts))
	for t := range counts {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		fmt.Fprintf(w, "%-16s %d\n", t, counts[t])
	}
}

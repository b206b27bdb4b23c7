package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/agrorganica/internal/farm"
	"github.com/mesh-intelligence/agrorganica/internal/report"
	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// withWorkspace runs fn on an attached store and detaches it afterwards.
func (a *app) withWorkspace(fn func(ws *workspace) error) error {
	ws, err := a.openWorkspace()
	if err != nil {
		return err
	}
	if err := fn(ws); err != nil {
		ws.Close()
		return err
	}
	return ws.Close()
}

func newMarketCmd(a *app) *cobra.Command {
	var xlsxPath string
	cmd := &cobra.Command{
		Use:   "market",
		Short: "List the available and planned offer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkspace(func(ws *workspace) error {
				plantings, err := ws.store.LoadPlantings()
				if err != nil {
					return sysError(err)
				}
				trees, err := ws.store.LoadProducerTrees()
				if err != nil {
					return sysError(err)
				}
				certs, err := ws.store.LoadCertifications()
				if err != nil {
					return sysError(err)
				}

				rows := report.MarketListing(plantings, trees, certs)
				if err := report.WriteMarketListing(cmd.OutOrStdout(), rows); err != nil {
					return sysError(err)
				}
				if xlsxPath == "" {
					return nil
				}
				if err := report.WriteMarketXLSX(xlsxPath, rows); err != nil {
					return sysError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Planilha salva em '%s'.\n", xlsxPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the listing to this spreadsheet (e.g. "+farm.MarketFile+")")
	return cmd
}

func newCalendarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "Show expected harvests grouped by month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkspace(func(ws *workspace) error {
				plantings, err := ws.store.LoadPlantings()
				if err != nil {
					return sysError(err)
				}
				trees, err := ws.store.LoadProducerTrees()
				if err != nil {
					return sysError(err)
				}
				months := report.HarvestCalendar(plantings, trees)
				return report.WriteHarvestCalendar(cmd.OutOrStdout(), months)
			})
		},
	}
}

func newDemandsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demands",
		Short: "List registered buyer demands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkspace(func(ws *workspace) error {
				demands, err := ws.store.LoadDemands()
				if err != nil {
					return sysError(err)
				}
				return report.WriteDemands(cmd.OutOrStdout(), demands)
			})
		},
	}
}

func newTraceCmd(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "trace <planting-id>",
		Short: "Print the traceability document of a planting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkspace(func(ws *workspace) error {
				now := a.now()
				trace, err := farm.LoadTrace(ws.store, args[0], types.DateOf(now))
				if errors.Is(err, types.ErrNotFound) {
					return userError(fmt.Errorf("planting %s: %w", args[0], err))
				}
				if err != nil {
					return sysError(err)
				}
				if err := report.WriteTrace(cmd.OutOrStdout(), trace, now); err != nil {
					return sysError(err)
				}
				if !save {
					return nil
				}
				path, err := report.SaveTrace(a.settings.ReportDir, trace, now)
				if err != nil {
					return sysError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nRelatório salvo em '%s'.\n", path)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "also save the document in the report directory")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/agrorganica/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and storage",
		Long:  "Write the default config.yaml if missing, then create the database tables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace()
			if err != nil {
				return err
			}
			if err := ws.Close(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuração: %s\n", paths.ConfigFile(a.settings.ConfigDir))
			if a.settings.Store.DSN == "" {
				fmt.Fprintf(out, "Dados: %s\n", a.settings.Store.DataDir)
			}
			fmt.Fprintln(out, "Agrorgânica inicializada com sucesso.")
			return nil
		},
	}
}

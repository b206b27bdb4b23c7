package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/agrorganica/internal/farm"
	"github.com/mesh-intelligence/agrorganica/internal/logging"
	"github.com/mesh-intelligence/agrorganica/internal/prompt"
)

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu(cmd)
		},
	}
}

// runMenu opens the error log and the store, then runs the main menu on
// the command's streams until the user leaves or the input ends.
func (a *app) runMenu(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	errs, err := logging.OpenErrorLog(a.settings.ErrorLog, out)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Aviso: %v\n", err)
	}
	defer errs.Close()

	ws, err := a.openWorkspace()
	if err != nil {
		errs.Recordf("Erro ao conectar ao banco de dados: %v", err)
		return err
	}
	defer ws.Close()

	session := farm.NewSession(ws.store, prompt.New(cmd.InOrStdin(), out), errs,
		farm.WithLogger(ws.log),
		farm.WithClock(a.now),
		farm.WithReportDir(a.settings.ReportDir),
	)
	err = session.Run()
	if errors.Is(err, prompt.ErrAborted) {
		errs.Record("Entrada de dados interrompida.")
		return nil
	}
	if err != nil {
		return sysError(err)
	}
	fmt.Fprintln(out, "Saindo do sistema. Até logo!")
	return nil
}

// Package cli implements the agrorganica command-line interface. Running
// the binary without a subcommand opens the interactive menu.
package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/agrorganica/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// app holds global flag values and the settings loaded before each
// command runs.
type app struct {
	configDir string
	dataDir   string
	settings  settings
	now       func() time.Time
}

// NewRootCmd creates the top-level "agrorganica" command with global
// flags and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRoot(&app{now: time.Now})
}

func newRoot(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "agrorganica",
		Short: "Registro de produção orgânica",
		Long: "Agrorgânica registra produtores, talhões, plantios, insumos, certificação\n" +
			"e demandas de compradores, e gera os relatórios de mercado e rastreabilidade.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newMenuCmd(a))
	root.AddCommand(newMarketCmd(a))
	root.AddCommand(newCalendarCmd(a))
	root.AddCommand(newDemandsCmd(a))
	root.AddCommand(newTraceCmd(a))
	root.AddCommand(newSnapshotCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", err)
	}
	os.Exit(exitCode(err))
}

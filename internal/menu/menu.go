// Package menu runs numbered console menus. Option 0 always leaves the
// menu; a failing or panicking option is written to the error log and the
// loop continues.
package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/agrorganica/internal/logging"
	"github.com/mesh-intelligence/agrorganica/internal/prompt"
)

// Item is one numbered option.
type Item struct {
	Label  string
	Action func() error
}

// Menu is a titled list of options numbered from 1.
type Menu struct {
	Title string
	// Name identifies the menu in error log lines.
	Name  string
	Items []Item
	// Back labels option 0. Defaults to "Voltar".
	Back string
	// Pause waits for Enter after each option so its output can be read.
	Pause bool
}

// Run shows m until the user picks 0. It returns nil on 0 and
// prompt.ErrAborted when the input ends.
func Run(p *prompt.Prompter, errs *logging.ErrorLog, m Menu) error {
	back := m.Back
	if back == "" {
		back = "Voltar"
	}
	for {
		p.Message("\n--- %s ---", m.Title)
		for i, item := range m.Items {
			p.Message("%d. %s", i+1, item.Label)
		}
		p.Message("0. %s", back)
		p.Message("%s", strings.Repeat("-", 40))

		raw, err := p.Line("Escolha uma opção: ")
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > len(m.Items) {
			p.Message("Opção inválida.")
			continue
		}
		if n == 0 {
			return nil
		}

		err = invoke(m.Items[n-1].Action)
		if errors.Is(err, prompt.ErrAborted) {
			return err
		}
		if err != nil {
			errs.Recordf("Erro inesperado no menu de %s (opção %d): %v", m.Name, n, err)
			p.Message("Ocorreu um erro inesperado. Verifique o log.")
		}
		if m.Pause {
			if _, err := p.Line("\nPressione Enter para continuar..."); err != nil {
				return err
			}
		}
	}
}

// invoke runs action and turns a panic into an error.
func invoke(action func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return action()
}

// Package prompt reads validated values from an interactive console.
// Every read retries until the input parses, passes the optional check,
// falls back to a default, or is left empty on an optional field.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// ErrAborted is returned when the input stream ends before a value is read.
var ErrAborted = errors.New("input ended")

var errNotFinite = errors.New("not a finite number")

// Prompter reads lines from in and writes prompts and messages to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Prompter over the given streams.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Out returns the writer prompts are written to.
func (p *Prompter) Out() io.Writer { return p.out }

// Field describes one prompt. Label is shown as typed; Default, when set,
// is shown in brackets and returned on empty input.
type Field struct {
	Label    string
	Default  string
	Optional bool
}

// Check validates a parsed value. A non-nil error is shown and the field
// is asked again.
type Check[T any] func(T) error

// Line reads one raw line without validation.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	return p.readLine()
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return "", ErrAborted
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Message prints a line to the console.
func (p *Prompter) Message(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// ask runs the read loop shared by every typed prompt. The boolean result
// is false when an optional field was left empty.
func ask[T any](p *Prompter, f Field, suffix string, parse func(string) (T, error), invalid string, checks []Check[T]) (T, bool, error) {
	var zero T
	label := f.Label
	if suffix != "" {
		label += " " + suffix
	}
	if f.Default != "" {
		label += " [" + f.Default + "]"
	}
	label += ": "

	for {
		raw, err := p.Line(label)
		if err != nil {
			return zero, false, err
		}
		if raw == "" {
			switch {
			case f.Default != "":
				raw = f.Default
			case f.Optional:
				return zero, false, nil
			default:
				p.Message("Erro: Este campo é obrigatório.")
				continue
			}
		}

		v, err := parse(raw)
		if err != nil {
			p.Message("Erro: Entrada inválida. %s", invalid)
			continue
		}
		if failed := runChecks(v, checks); failed != nil {
			p.Message("Erro: %s", failed)
			continue
		}
		return v, true, nil
	}
}

func runChecks[T any](v T, checks []Check[T]) error {
	for _, c := range checks {
		if err := c(v); err != nil {
			return err
		}
	}
	return nil
}

// Text reads a string. Empty input on an optional field returns "".
func (p *Prompter) Text(f Field, checks ...Check[string]) (string, error) {
	v, _, err := ask(p, f, "", func(s string) (string, error) { return s, nil }, "", checks)
	return v, err
}

// Int reads an integer.
func (p *Prompter) Int(f Field, checks ...Check[int]) (int, bool, error) {
	return ask(p, f, "", strconv.Atoi, "Digite um número inteiro.", checks)
}

// Float reads a finite real number. Both "2.5" and "2,5" are accepted.
func (p *Prompter) Float(f Field, checks ...Check[float64]) (float64, bool, error) {
	parse := func(s string) (float64, error) {
		v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, errNotFinite
		}
		return v, nil
	}
	return ask(p, f, "", parse, "Digite um número (ex: 2.5).", checks)
}

// Date reads a DD/MM/YYYY date. The zero Date is returned when an
// optional field is left empty.
func (p *Prompter) Date(f Field, checks ...Check[types.Date]) (types.Date, error) {
	v, _, err := ask(p, f, "(DD/MM/AAAA)", types.ParseDate, "Use o formato DD/MM/AAAA.", checks)
	return v, err
}

// Confirm asks a yes/no question and accepts only S or N.
func (p *Prompter) Confirm(question string) (bool, error) {
	for {
		raw, err := p.Line(question + " (S/N): ")
		if err != nil {
			return false, err
		}
		switch strings.ToUpper(raw) {
		case "S":
			return true, nil
		case "N":
			return false, nil
		}
		p.Message("Resposta inválida. Digite S ou N.")
	}
}

// Choose asks for a 1-based index into a list of n items. Zero means
// cancel and returns -1; otherwise the 0-based index is returned.
func (p *Prompter) Choose(n int) (int, error) {
	for {
		raw, err := p.Line(fmt.Sprintf("Escolha o número (1-%d, ou 0 para cancelar): ", n))
		if err != nil {
			return -1, err
		}
		i, err := strconv.Atoi(raw)
		if err != nil || i < 0 || i > n {
			p.Message("Opção inválida.")
			continue
		}
		return i - 1, nil
	}
}

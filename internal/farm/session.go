// Package farm implements the interactive record flows: registering,
// selecting, editing and deleting producers, plots, plantings, input
// records and demands, managing certification, and the report actions.
// A Session owns no state beyond its collaborators; every flow reads what
// it needs from the backend.
package farm

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/agrorganica/internal/logging"
	"github.com/mesh-intelligence/agrorganica/internal/prompt"
	"github.com/mesh-intelligence/agrorganica/internal/sqlite"
	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// Session ties the console to an attached backend.
type Session struct {
	store     *sqlite.Backend
	in        *prompt.Prompter
	errs      *logging.ErrorLog
	log       *zap.Logger
	now       func() time.Time
	reportDir string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces time.Now, used for the date window rules.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithReportDir sets where report files are written. Defaults to the
// working directory.
func WithReportDir(dir string) Option {
	return func(s *Session) { s.reportDir = dir }
}

// NewSession returns a session over an attached backend.
func NewSession(store *sqlite.Backend, in *prompt.Prompter, errs *logging.ErrorLog, opts ...Option) *Session {
	s := &Session{
		store:     store,
		in:        in,
		errs:      errs,
		log:       zap.NewNop(),
		now:       time.Now,
		reportDir: ".",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) today() types.Date { return types.DateOf(s.now()) }

func (s *Session) say(format string, args ...any) { s.in.Message(format, args...) }

// ruleMessages are the console texts for rule violations. These are user
// outcomes, not failures, and never reach the error log.
var ruleMessages = []struct {
	err error
	msg string
}{
	{types.ErrNotFound, "Registro não encontrado."},
	{types.ErrDuplicateID, "Identificador já existe."},
	{types.ErrInvalidDates, "Data prevista da colheita deve ser posterior à data de plantio."},
	{types.ErrHarvestBeforePlant, "Data real da colheita não pode ser anterior à data de plantio."},
	{types.ErrMissingPlantingDate, "Data de plantio é obrigatória."},
	{types.ErrPlantingWindow, "Data de plantio fora do período permitido."},
	{types.ErrNeededInPast, "A data de necessidade não pode ser uma data passada."},
	{types.ErrInvalidTransition, "Mudança de status não permitida."},
	{types.ErrInvalidStatus, "Status inválido."},
	{types.ErrInvalidData, "Dados inválidos."},
	{types.ErrInvalidID, "Identificador inválido."},
}

// ruleMessage returns the console text for a rule violation, or "" when
// err is not one.
func ruleMessage(err error) string {
	var v violation
	if errors.As(err, &v) {
		return v.msg
	}
	for _, r := range ruleMessages {
		if errors.Is(err, r.err) {
			return r.msg
		}
	}
	return ""
}

// fail reports a failed storage call. Rule violations and missing rows go
// to the console; anything else is recorded in the error log. Only an
// aborted input is passed back to the caller.
func (s *Session) fail(action string, err error) error {
	if errors.Is(err, prompt.ErrAborted) {
		return err
	}
	if msg := ruleMessage(err); msg != "" {
		s.say("Erro: %s", msg)
		return nil
	}
	s.errs.Recordf("Erro ao %s: %v", action, err)
	return nil
}

// violation is a rule error carrying its own console text.
type violation struct {
	rule error
	msg  string
}

func (v violation) Error() string { return v.msg }
func (v violation) Unwrap() error { return v.rule }

func violate(rule error, format string, args ...any) error {
	return violation{rule: rule, msg: fmt.Sprintf(format, args...)}
}

// formatNumber prints a number without trailing zeros.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// dateDefault renders a stored date as a prompt default; absent dates
// have none.
func dateDefault(d types.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.FormatBR()
}

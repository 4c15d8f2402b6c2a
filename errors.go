package kumiai

import (
	"os"

	"github.com/rotisserie/eris"
)

// ErrorCode is passed to an ErrorCallback when the manager runs in callback
// mode.
type ErrorCode uint8

const (
	// BadEntity: the handle is stale, dead, uninitialized or foreign.
	BadEntity ErrorCode = iota
	// InvalidComponent: GetComponent on a handle that is not fresh or lacks the bit.
	InvalidComponent
	// IterationMutation: a mutating call was issued from inside ForEach.
	IterationMutation
)

var (
	ErrBadEntity         = eris.New("bad entity")
	ErrInvalidComponent  = eris.New("invalid component")
	ErrIterationMutation = eris.New("manager mutated during iteration")
)

func (c ErrorCode) String() string {
	switch c {
	case BadEntity:
		return "bad_entity"
	case InvalidComponent:
		return "invalid_component"
	case IterationMutation:
		return "iteration_mutation"
	}
	return "unknown"
}

// Err returns the sentinel error for the code.
func (c ErrorCode) Err() error {
	switch c {
	case BadEntity:
		return ErrBadEntity
	case InvalidComponent:
		return ErrInvalidComponent
	case IterationMutation:
		return ErrIterationMutation
	}
	return eris.Errorf("unknown error code %d", uint8(c))
}

// ErrorMode selects how a Manager reports programmer errors.
type ErrorMode uint8

const (
	// ErrorModePanic panics with an error wrapping one of the Err* sentinels.
	ErrorModePanic ErrorMode = iota
	// ErrorModeCallback invokes the ErrorCallback and then terminates the
	// process through the exit function.
	ErrorModeCallback
)

// ErrorCallback receives the code and a human readable message. The process
// is terminated after it returns.
type ErrorCallback func(code ErrorCode, msg string)

// reporter is the manager's error sink. Every failure path goes through fail
// before any state has been touched.
type reporter struct {
	mode     ErrorMode
	callback ErrorCallback
	exit     func(code int)
}

func defaultReporter() reporter {
	return reporter{mode: ErrorModePanic, exit: os.Exit}
}

// fail reports the error and never returns.
func (m *Manager) fail(code ErrorCode, format string, args ...any) {
	err := eris.Wrapf(code.Err(), format, args...)
	m.log.Error().Err(err).Str("code", code.String()).Msg("entity manager error")
	if m.errs.mode == ErrorModeCallback {
		if m.errs.callback != nil {
			m.errs.callback(code, err.Error())
		}
		m.errs.exit(1)
	}
	panic(err)
}

// failDetached reports misuse of a handle that was never bound to a manager.
// There is no manager configuration to consult, so it always panics.
func failDetached(code ErrorCode, op string) {
	panic(eris.Wrapf(code.Err(), "%s on an uninitialized entity", op))
}

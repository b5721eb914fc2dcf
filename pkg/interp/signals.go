package interp

import (
	"coral/pkg/errors"
	"coral/pkg/runtime"
)

// Control flow inside the evaluator travels as error values. Loops
// intercept break/continue that name them, call boundaries intercept
// return, try statements intercept raise. Anything else propagates
// outward unchanged.

type breakSignal struct {
	label string
}

type continueSignal struct {
	label string
}

type returnSignal struct {
	value runtime.Value
}

// raiseSignal carries a raised language value together with the call
// trace captured at the raise site, so an uncaught raise can report
// where it came from after the frames have unwound.
type raiseSignal struct {
	value runtime.Value
	pos   errors.Position
	trace []errors.TraceFrame
}

func (s *breakSignal) Error() string    { return "break " + s.label }
func (s *continueSignal) Error() string { return "continue " + s.label }
func (s *returnSignal) Error() string   { return "return" }
func (s *raiseSignal) Error() string    { return s.value.Inspect() }

// matches reports whether a loop with the given label should stop this
// signal. An unlabeled break/continue stops at the nearest loop.
func matches(signalLabel, loopLabel string) bool {
	return signalLabel == "" || signalLabel == loopLabel
}

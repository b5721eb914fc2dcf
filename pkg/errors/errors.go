package errors

import (
	"fmt"
	"io"
	"strings"
)

// CoralError is the interface implemented by all Coral diagnostics.
type CoralError interface {
	error
	Pos() Position
	Kind() string // "Syntax", "Conversion", "Runtime"
	// Message returns the error message without position info, for callers
	// that want to format the diagnostic themselves.
	Message() string
	Unwrap() error
}

// SyntaxError reports a lexing or parsing failure. Expected lists the token
// kinds the parser would have accepted at the failure point; Found is the
// token it saw instead.
type SyntaxError struct {
	Position
	Expected []string
	Found    string
	Msg      string
	Cause    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line, e.Column, e.Message())
}

func (e *SyntaxError) Pos() Position { return e.Position }
func (e *SyntaxError) Kind() string  { return "Syntax" }
func (e *SyntaxError) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	if len(e.Expected) > 0 {
		return fmt.Sprintf("expected %s, found %s", strings.Join(e.Expected, " or "), e.Found)
	}
	return fmt.Sprintf("unexpected %s", e.Found)
}
func (e *SyntaxError) Unwrap() error { return e.Cause }

// ConversionError signals an internal invariant violation: the converter is
// total over parser-accepted trees, so hitting one is a bug in the front end,
// never a consequence of user input.
type ConversionError struct {
	Position
	Node  string // description of the offending parse-tree node
	Msg   string
	Cause error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("Conversion Error at %d:%d: %s", e.Line, e.Column, e.Message())
}

func (e *ConversionError) Pos() Position { return e.Position }
func (e *ConversionError) Kind() string  { return "Conversion" }
func (e *ConversionError) Message() string {
	if e.Node != "" {
		return fmt.Sprintf("%s (node %s)", e.Msg, e.Node)
	}
	return e.Msg
}
func (e *ConversionError) Unwrap() error { return e.Cause }

// RuntimeError reports an evaluation failure that escaped to the top level,
// carrying the ordered call trace of the unwound frames.
type RuntimeError struct {
	Position
	Msg   string
	Trace []TraceFrame
	Cause error
}

// TraceFrame is one entry of a top-level call-stack trace.
type TraceFrame struct {
	Name string // verb or function name, "<lambda>" when anonymous
	Pos  Position
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Runtime Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

func (e *RuntimeError) Pos() Position   { return e.Position }
func (e *RuntimeError) Kind() string    { return "Runtime" }
func (e *RuntimeError) Message() string { return e.Msg }
func (e *RuntimeError) Unwrap() error   { return e.Cause }

// Display prints diagnostics in a user-friendly format, including the source
// line and a caret marker when position info is usable.
func Display(w io.Writer, src string, errs []CoralError) {
	if len(errs) == 0 {
		return
	}
	lines := strings.Split(src, "\n")

	for _, err := range errs {
		pos := err.Pos()
		fmt.Fprintf(w, "%s Error at %d:%d: %s\n", err.Kind(), pos.Line, pos.Column, err.Message())

		lineIdx := pos.Line - 1
		if lineIdx < 0 || lineIdx >= len(lines) {
			continue
		}
		srcLine := strings.TrimRight(lines[lineIdx], "\r\n\t ")
		fmt.Fprintf(w, "  %s\n", srcLine)

		col := pos.Column - 1
		if col < 0 {
			col = 0
		}
		fmt.Fprintf(w, "  %s^\n", strings.Repeat(" ", col))

		if rt, ok := err.(*RuntimeError); ok && len(rt.Trace) > 0 {
			for _, frame := range rt.Trace {
				fmt.Fprintf(w, "    in %s at %d:%d\n", frame.Name, frame.Pos.Line, frame.Pos.Column)
			}
		}
		fmt.Fprintln(w)
	}
}
